package readProbe

import (
	"net/http"

	"github.com/Jeshoorin/Gym-Suggestions/controllers/check"

	"github.com/gin-gonic/gin"
)

func Probe(c *gin.Context) {
	c.JSON(http.StatusOK, check.AliveResponse{Success: true, Message: "probe success"})
}
