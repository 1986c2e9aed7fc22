package jobs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/enums"
	jobService "github.com/Jeshoorin/Gym-Suggestions/services/jobs"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/gin-gonic/gin"
)

// Trigger queues a training job. With rabbitmq disabled the job runs in the
// background of this process instead.
func Trigger(c *gin.Context) {
	queue := c.Param("queue")
	if !jobService.IsQueue(queue) {
		controllers.ApiError(c, http.StatusNotFound, fmt.Sprintf("unknown queue %s", queue))
		return
	}

	var param structs.TrainQueueParam
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&param); err != nil {
			controllers.ApiError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if param.Type == "" {
		param.Type = enums.ProcessAll
	}
	param.Type = strings.ToUpper(param.Type)
	if param.Type == enums.ProcessSingle && param.Username == "" {
		controllers.ApiError(c, http.StatusBadRequest, "Username is required")
		return
	}
	param.QueueType = queue

	if utils.EnvConfig.RabbitMQ.Enable == 1 {
		if err := jobService.Publish(queue, param); err != nil {
			trackLog.Error(err.Error(), true)
			controllers.ApiError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		c.JSON(http.StatusAccepted, structs.MessageResponse{Message: "queued"})
		return
	}

	worker := controllers.App.Worker
	if worker == nil {
		controllers.ApiError(c, http.StatusServiceUnavailable, "job worker is not configured")
		return
	}
	go func() {
		body, _ := json.Marshal(param)
		if _, err := worker.Dispatch(queue, body); err != nil {
			trackLog.Error(err.Error(), true)
		}
	}()
	c.JSON(http.StatusAccepted, structs.MessageResponse{Message: "started"})
}
