package check

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/services/jobs"
	"github.com/Jeshoorin/Gym-Suggestions/services/rabbitmq"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/gin-gonic/gin"
)

type AliveResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Info    CheckInfo `json:"info"`
}

type CheckInfo struct {
	ModelLoaded bool     `json:"model_loaded"`
	Queues      []string `json:"queue,omitempty"`
	RoutineNum  int      `json:"routine_num"`
}

func CheckAlive(c *gin.Context) {
	resMsg := "main thread alive"
	checkInfo := CheckInfo{}

	if controllers.App.Registry != nil && controllers.App.Registry.Current() != nil {
		checkInfo.ModelLoaded = true
	} else {
		resMsg = "workout model not loaded"
		trackLog.Error(resMsg, false)
	}

	if utils.EnvConfig.RabbitMQ.Enable == 1 {
		if msg := inspectQueues(&checkInfo); msg != "" {
			resMsg = msg
		}
	}

	checkInfo.RoutineNum = runtime.NumGoroutine()
	trackLog.Info(fmt.Sprintf("goroutine number: %d", checkInfo.RoutineNum), false)

	c.JSON(http.StatusOK, AliveResponse{Success: checkInfo.ModelLoaded, Message: resMsg, Info: checkInfo})
}

// inspectQueues records the state of each worker queue and reconnects a lost
// connection. It returns a message when something was wrong.
func inspectQueues(info *CheckInfo) string {
	rabbitConn := rabbitmq.GetConnection(jobs.ConnectionName)
	if rabbitConn == nil {
		resMsg := "Get connection pool fail"
		trackLog.Error(resMsg, false)
		return resMsg
	}

	resMsg := ""
	if rabbitConn.Conn == nil {
		resMsg = "Api detect Connection lost, Reconnecting.."
		trackLog.Error(resMsg, false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	}
	if rabbitConn.Channel != nil {
		for _, q := range rabbitConn.Queues {
			queue, err := rabbitConn.Channel.QueueInspect(q)
			if err != nil {
				resMsg = fmt.Sprintf("Queue[%s] error: %s", q, err.Error())
				trackLog.Error(resMsg, false)
				continue
			}
			queueJson, _ := json.Marshal(queue)
			info.Queues = append(info.Queues, string(queueJson))
		}
	} else {
		resMsg = "Channel get fail"
		trackLog.Error(resMsg, false)
	}

	// give a pending close notification one second to arrive
	select {
	case err := <-rabbitConn.ApiErr:
		trackLog.Error(fmt.Sprintf("api error: %s", err.Error()), false)
		if err := rabbitConn.Reconnect(); err != nil {
			resMsg = fmt.Sprintf("reconnect rabbit fail: %s", err.Error())
			trackLog.Error(resMsg, false)
		}
	case <-time.After(time.Second):
	}
	return resMsg
}
