package recommend

import (
	"net/http"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/diet"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/services/workout"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const usernameRequired = "Username is required"

func Diet(c *gin.Context) {
	var param structs.RecommendParam
	if err := c.ShouldBindJSON(&param); err != nil {
		controllers.ApiError(c, http.StatusBadRequest, usernameRequired)
		return
	}
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.RecommendDiet, "username": param.Username})

	service := diet.NewDietService(controllers.App.Store, controllers.App.Trend)
	plan, err := service.Recommend(param.Username)
	if err != nil {
		logger.Error(err.Error())
		controllers.ApiError(c, http.StatusInternalServerError, "No recommendation generated")
		return
	}
	if len(service.Errors) > 0 {
		logger.WithField("errors", service.Errors).Warn("meal selection degraded")
	}

	if batchID, err := controllers.App.Recorder.RecordDiet(param.Username, plan, service.Foods); err != nil {
		logger.Error(err.Error())
	} else if batchID != "" {
		logger.WithField("batch_id", batchID).Info("diet plan recorded")
	}
	c.JSON(http.StatusOK, plan)
}

func Workout(c *gin.Context) {
	var param structs.RecommendParam
	if err := c.ShouldBindJSON(&param); err != nil {
		controllers.ApiError(c, http.StatusBadRequest, usernameRequired)
		return
	}
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.RecommendWorkout, "username": param.Username})

	service := workout.NewWorkoutService(controllers.App.Store, controllers.App.Registry)
	plan, err := service.Recommend(param.Username)
	if err != nil {
		logger.Error(err.Error())
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := controllers.App.Recorder.RecordWorkout(param.Username, plan); err != nil {
		logger.Error(err.Error())
	}
	c.JSON(http.StatusOK, plan)
}
