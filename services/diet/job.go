package diet

import (
	"fmt"
	"sync"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/history"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/sirupsen/logrus"
)

// TrendJob precomputes trend predictions off the request path.
type TrendJob struct {
	Service  *DietService
	Recorder *history.Recorder
	// Trained lists the users whose trend was refitted by the last Start.
	Trained []string
}

// Start handles one diet-trend message: SINGLE refreshes param.Username,
// ALL refreshes every profile with a bounded number of goroutines.
func (j *TrendJob) Start(param structs.TrainQueueParam) {
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.QueueDietTrend, "task_id": param.TaskID})
	j.Trained = nil

	switch param.Type {
	case enums.ProcessSingle:
		j.process(param.Username, nil)
	case enums.ProcessAll:
		usernames, err := j.Service.store.Usernames()
		if err != nil {
			j.Service.addError("", "usernames", err)
			break
		}
		logger.Info(fmt.Sprintf("refreshing trends for %d users", len(usernames)))

		concurrent := utils.EnvConfig.ConcurrentAmount
		if concurrent <= 0 {
			concurrent = 1
		}
		semaphore := make(chan struct{}, concurrent)
		var wg sync.WaitGroup
		wg.Add(len(usernames))
		for _, username := range usernames {
			semaphore <- struct{}{}
			go func(username string) {
				defer func() { <-semaphore }()
				j.process(username, &wg)
			}(username)
		}
		wg.Wait()
		close(semaphore)
	default:
		j.Service.addError(param.Username, "type", fmt.Errorf("unknown process type %q", param.Type))
	}

	result := structs.ActivityLogJsonModel{
		Type:     param.Type,
		Username: param.Username,
		TaskID:   param.TaskID,
		Result:   len(j.Service.Errors) == 0,
		Message:  "ok",
	}
	if !result.Result {
		result.Message = j.Service.Errors[0].ErrorMessage
		result.Messages = j.Service.Errors
	}
	if err := j.Recorder.Activity(enums.LogJobDone, param.Username, result); err != nil {
		logger.Error(err.Error())
	}
	logger.WithField("trained", len(j.Trained)).Info("diet trend job done")
}

func (j *TrendJob) process(username string, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	trained, err := j.Service.Precompute(username)
	if err != nil {
		trackLog.Entry().WithFields(logrus.Fields{"task": enums.QueueDietTrend, "username": username}).Error(err.Error())
		j.Service.addError(username, "precompute", err)
		return
	}
	if trained {
		j.Service.Lock()
		j.Trained = append(j.Trained, username)
		j.Service.Unlock()
	}
}
