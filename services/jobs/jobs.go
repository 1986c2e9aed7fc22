package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/diet"
	"github.com/Jeshoorin/Gym-Suggestions/services/history"
	"github.com/Jeshoorin/Gym-Suggestions/services/rabbitmq"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/services/workout"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ConnectionName is the pooled rabbitmq connection the worker consumes on.
const ConnectionName = "gym-suggestions"

var (
	ErrQueueMismatch = errors.New("message queue_type does not match the queue")
	ErrUnknownQueue  = errors.New("unknown queue")
)

var Queues = []string{enums.QueueWorkoutTrain, enums.QueueDietTrend}

// Worker runs the training jobs. Messages are dispatched the same way whether
// they come from rabbitmq or from the HTTP job endpoint.
type Worker struct {
	Store    *dataset.Store
	Trend    *diet.TrendPredictor
	Trainer  *workout.Trainer
	Registry *workout.Registry
	Recorder *history.Recorder
	ModelDir string

	// workout training replaces files in ModelDir, one run at a time
	trainMu sync.Mutex
}

// Dispatch decodes one message received on queue and runs the matching job.
// It returns the errors the job collected.
func (w *Worker) Dispatch(queue string, body []byte) ([]structs.ErrorModel, error) {
	var param structs.TrainQueueParam
	if err := json.Unmarshal(body, &param); err != nil {
		return nil, fmt.Errorf("decode %s message: %w", queue, err)
	}
	if param.Type == "" {
		param.Type = enums.ProcessAll
	}
	param.Type = strings.ToUpper(param.Type)

	if queue != param.QueueType {
		notifyMismatchQueue(param.TaskID, queue, param.QueueType)
		return nil, fmt.Errorf("%w: queue %s, queue_type %q", ErrQueueMismatch, queue, param.QueueType)
	}

	logger := trackLog.Entry().WithFields(logrus.Fields{"task": queue, "task_id": param.TaskID})
	if err := w.Recorder.Activity(enums.LogJobReceived, param.Username, structs.ActivityLogJsonModel{
		Type:     param.Type,
		Username: param.Username,
		TaskID:   param.TaskID,
		Result:   true,
		Message:  fmt.Sprintf("queue name: %s, start...", queue),
	}); err != nil {
		logger.Error(err.Error())
	}

	switch queue {
	case enums.QueueWorkoutTrain:
		w.trainMu.Lock()
		defer w.trainMu.Unlock()
		job := workout.TrainJob{Trainer: w.Trainer, Registry: w.Registry, Recorder: w.Recorder, ModelDir: w.ModelDir}
		job.Start(param)
		return job.Errors, nil
	case enums.QueueDietTrend:
		job := diet.TrendJob{Service: diet.NewDietService(w.Store, w.Trend), Recorder: w.Recorder}
		job.Start(param)
		return job.Service.Errors, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownQueue, queue)
}

// Handle consumes deliveries of one queue until the channel closes.
func (w *Worker) Handle(c *rabbitmq.Connection, q string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		trackLog.Info(fmt.Sprintf("Queue[%s] received: %s", q, string(d.Body)), true)
		errs, err := w.Dispatch(q, d.Body)
		if err != nil {
			trackLog.Error(err.Error(), true)
			continue
		}
		if len(errs) > 0 {
			trackLog.Warn(fmt.Sprintf("Queue[%s] finished with %d errors", q, len(errs)), true)
		}
	}
}

// Start connects to rabbitmq and consumes the training queues in the
// background. Connection failures are returned; later drops are retried.
func (w *Worker) Start() error {
	conn := rabbitmq.NewConnection(ConnectionName, Queues)
	if err := conn.Connect(); err != nil {
		return err
	}
	if err := conn.BindQueue(); err != nil {
		return err
	}
	deliveries, err := conn.Consume()
	if err != nil {
		return err
	}
	go conn.HandleConsumedDeliveries(deliveries, w.Handle)
	trackLog.Info(fmt.Sprintf(" [ %s ] %v Waiting for messages", ConnectionName, Queues), true)
	return nil
}

// Publish queues param on queue through the worker connection.
func Publish(queue string, param structs.TrainQueueParam) error {
	if !IsQueue(queue) {
		return fmt.Errorf("%w: %s", ErrUnknownQueue, queue)
	}
	conn := rabbitmq.GetConnection(ConnectionName)
	if conn == nil {
		return errors.New("rabbitmq is not connected")
	}
	param.QueueType = queue
	body, err := json.Marshal(param)
	if err != nil {
		return err
	}
	return conn.Publish(queue, body)
}

func IsQueue(queue string) bool {
	for _, q := range Queues {
		if q == queue {
			return true
		}
	}
	return false
}

func notifyMismatchQueue(taskID uint, queue, queueType string) {
	trackLog.Info(fmt.Sprintf("[MismatchQueue] task_id: %d, queue: %s, queue_type: %s", taskID, queue, queueType), true)
	if utils.EnvConfig == nil || utils.EnvConfig.Server.AppAPI == "" {
		return
	}
	endpoint := strings.TrimRight(utils.EnvConfig.Server.AppAPI, "/") + "/api/v1/workerCallback/mismatchQueue"
	body := structs.MismatchQueueResponse{TaskId: taskID, Queue: queue}
	if _, err := services.HttpRequest(http.MethodPost, endpoint, nil, body); err != nil {
		trackLog.Error(err.Error(), true)
	}
}
