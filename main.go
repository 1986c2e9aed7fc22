package main

import (
	"fmt"
	"net/http"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/database"
	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/models"
	"github.com/Jeshoorin/Gym-Suggestions/router"
	"github.com/Jeshoorin/Gym-Suggestions/services"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/diet"
	"github.com/Jeshoorin/Gym-Suggestions/services/history"
	"github.com/Jeshoorin/Gym-Suggestions/services/jobs"
	logLib "github.com/Jeshoorin/Gym-Suggestions/services/log"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/services/workout"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	var envService utils.EnvService
	envService.InitEnv()
	fmt.Println("config loaded...")

	trackLog.LogTrackInit()

	if err := database.InitDatabasePool(); err != nil {
		panic(err)
	}
	defer database.Close()
	if err := database.Migrate(&models.ActivityLog{}, &models.RecommendationItem{}); err != nil {
		panic(err)
	}
	recorder := history.NewRecorder(database.DB)
	if err := recorder.Activity(enums.LogJobInit, "", structs.ActivityLogJsonModel{Type: enums.LogJobInit, Result: true, Message: "gym-suggestions init"}); err != nil {
		trackLog.Error(err.Error(), true)
	}

	defer func() {
		var logService logLib.LogService
		logwr := logService.LoggerInit("main")
		logwr.WithFields(logrus.Fields{"task": "main"}).Error("server shutdown")
		crashEmailAlert()
		fmt.Println("server shutdown")
	}()

	store := dataset.NewStore()
	registry := &workout.Registry{}
	trainer := &workout.Trainer{Store: store, Options: workout.DefaultTrainOptions()}
	if err := registry.LoadOrTrain(utils.EnvConfig.Model.Dir, trainer); err != nil {
		panic(err)
	}

	worker := &jobs.Worker{
		Store:    store,
		Trend:    diet.NewTrendPredictor(),
		Trainer:  trainer,
		Registry: registry,
		Recorder: recorder,
		ModelDir: utils.EnvConfig.Model.Dir,
	}
	if utils.EnvConfig.RabbitMQ.Enable == 1 {
		if err := worker.Start(); err != nil {
			panic(err)
		}
	}

	controllers.Setup(controllers.Dependencies{
		Store:    store,
		Trend:    worker.Trend,
		Registry: registry,
		Recorder: recorder,
		Worker:   worker,
	})

	gin.SetMode(utils.EnvConfig.Router.Mode)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", utils.EnvConfig.Router.Port),
		Handler: router.Handler(),
	}
	trackLog.Info(fmt.Sprintf("listening on %s", server.Addr), true)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		trackLog.Error(err.Error(), true)
	}
}

func crashEmailAlert() {
	api := utils.EnvConfig.Email.APIUrl
	if api == "" {
		return
	}
	body := structs.MessageResponse{Message: "gym-suggestions server shutdown"}
	if _, err := services.HttpRequest(http.MethodPost, api, nil, body); err != nil {
		trackLog.Error(err.Error(), true)
	}
}
