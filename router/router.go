package router

import (
	"net/http"

	"github.com/Jeshoorin/Gym-Suggestions/controllers/check"
	"github.com/Jeshoorin/Gym-Suggestions/controllers/jobs"
	"github.com/Jeshoorin/Gym-Suggestions/controllers/logs"
	"github.com/Jeshoorin/Gym-Suggestions/controllers/profile"
	"github.com/Jeshoorin/Gym-Suggestions/controllers/readProbe"
	"github.com/Jeshoorin/Gym-Suggestions/controllers/recommend"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func Router() *gin.Engine {
	route := gin.Default()

	route.GET("/read-probe", readProbe.Probe)
	route.GET("/check-live", check.CheckAlive)

	route.POST("/recommend-diet", recommend.Diet)
	route.POST("/recommend-workout", recommend.Workout)

	route.POST("/save-profile", profile.Save)
	route.GET("/get-profile/:username", profile.Get)
	route.POST("/save-diet", logs.SaveDiet)
	route.POST("/save-feedback", logs.SaveFeedback)
	route.GET("/get-feedback/:username", logs.GetFeedback)

	route.POST("/jobs/:queue", jobs.Trigger)

	return route
}

// Handler is the router behind an open CORS policy for the browser frontend.
func Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(Router())
}
