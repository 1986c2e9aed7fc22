package logs

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/gin-gonic/gin"
)

// today is replaced in tests.
var today = func() string {
	return time.Now().UTC().Format("2006-01-02")
}

func SaveDiet(c *gin.Context) {
	var param structs.SaveDietParam
	if err := c.ShouldBindJSON(&param); err != nil {
		controllers.ApiError(c, http.StatusBadRequest, "Invalid diet data")
		return
	}
	exists, err := controllers.App.Store.AppendDietLog(param)
	if err != nil {
		trackLog.Error(err.Error(), true)
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if exists {
		c.JSON(http.StatusOK, structs.MessageResponse{Message: "Entry already exists"})
		return
	}
	c.JSON(http.StatusOK, structs.MessageResponse{Message: "Diet saved successfully"})
}

func SaveFeedback(c *gin.Context) {
	var param structs.SaveFeedbackParam
	if err := c.ShouldBindJSON(&param); err != nil {
		controllers.ApiError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}
	if err := controllers.App.Store.AppendFeedback(param); err != nil {
		trackLog.Error(err.Error(), true)
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, structs.MessageResponse{Message: "Feedback saved successfully."})
}

// GetFeedback lists the exercises the user logged today (UTC).
func GetFeedback(c *gin.Context) {
	rows, err := controllers.App.Store.FeedbackOn(c.Param("username"), today())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		trackLog.Error(err.Error(), true)
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if len(rows) == 0 {
		controllers.ApiError(c, http.StatusNotFound, "No feedback found for this user today.")
		return
	}
	c.JSON(http.StatusOK, rows)
}
