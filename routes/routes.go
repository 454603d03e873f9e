package routes

import (
	"time"

	"booknest/handlers"
	"booknest/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers the booking session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.POST("", hb.CreateSessionHandler)

		// Routes below act on an existing session.
		live := api.Group("/:id")
		live.Use(middleware.SessionMiddleware(hb.Registry))
		live.GET("/state", hb.GetStateHandler)
		live.GET("/events", hb.StreamEventsHandler)
		live.POST("/intents", hb.DispatchIntentHandler)
		live.POST("/otp/verify", hb.VerifyOtpHandler)
		live.GET("/account", hb.GetAccountHandler)
		live.GET("/selection", hb.GetSelectionHandler)
		live.POST("/checkout", hb.CheckoutHandler)

		api.DELETE("/:id", hb.DeleteSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
