package profile

import (
	"errors"
	"net/http"
	"os"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// Save creates the profile or updates the fields present in the body.
func Save(c *gin.Context) {
	var param structs.SaveProfileParam
	if err := c.ShouldBindJSON(&param); err != nil || cast.ToString(param["username"]) == "" {
		controllers.ApiError(c, http.StatusBadRequest, "Username is required.")
		return
	}

	created, err := controllers.App.Store.SaveProfile(param)
	if err != nil {
		trackLog.Error(err.Error(), true)
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}
	message := "Profile updated successfully."
	if created {
		message = "Profile saved successfully."
	}
	c.JSON(http.StatusOK, structs.MessageResponse{Message: message})
}

func Get(c *gin.Context) {
	profile, err := controllers.App.Store.GetProfile(c.Param("username"))
	if errors.Is(err, dataset.ErrUserNotFound) || errors.Is(err, os.ErrNotExist) {
		controllers.ApiError(c, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		trackLog.Error(err.Error(), true)
		controllers.ApiError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, profile)
}
