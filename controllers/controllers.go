package controllers

import (
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/diet"
	"github.com/Jeshoorin/Gym-Suggestions/services/history"
	"github.com/Jeshoorin/Gym-Suggestions/services/jobs"
	"github.com/Jeshoorin/Gym-Suggestions/services/workout"

	"github.com/gin-gonic/gin"
)

// Dependencies are shared by every handler. They are set once by Setup before
// the router starts serving.
type Dependencies struct {
	Store    *dataset.Store
	Trend    *diet.TrendPredictor
	Registry *workout.Registry
	Recorder *history.Recorder
	Worker   *jobs.Worker
}

var App Dependencies

func Setup(d Dependencies) {
	App = d
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ApiError aborts the request with {"error": message}.
func ApiError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
