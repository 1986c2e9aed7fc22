package workout

import (
	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/history"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/sirupsen/logrus"
)

// TrainJob retrains the workout model from the feedback files and publishes
// it to the registry.
type TrainJob struct {
	Trainer  *Trainer
	Registry *Registry
	Recorder *history.Recorder
	ModelDir string
	Errors   []structs.ErrorModel
}

func (j *TrainJob) Start(param structs.TrainQueueParam) {
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.QueueWorkoutTrain, "task_id": param.TaskID})
	j.Errors = nil

	result := structs.ActivityLogJsonModel{Type: param.Type, TaskID: param.TaskID, Result: true, Message: "ok"}
	if err := j.retrain(); err != nil {
		logger.Error(err.Error())
		j.Errors = append(j.Errors, structs.ErrorModel{Stage: "train", ErrorMessage: err.Error()})
		result.Result = false
		result.Message = err.Error()
		result.Messages = j.Errors
	}

	if err := j.Recorder.Activity(enums.LogModelTrained, "", result); err != nil {
		logger.Error(err.Error())
	}
}

func (j *TrainJob) retrain() error {
	m, fit, err := j.Trainer.Train()
	if err != nil {
		return err
	}
	if err := m.Save(j.ModelDir); err != nil {
		return err
	}
	j.Registry.Swap(m)
	trackLog.Entry().WithFields(logrus.Fields{"task": enums.QueueWorkoutTrain, "epochs": len(fit.Loss)}).Info("workout model swapped")
	return nil
}
