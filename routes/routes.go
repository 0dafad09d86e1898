package routes

import (
	"time"

	"onetracker/handlers"
	"onetracker/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Chat         *handlers.ChatHandler
	Booking      *handlers.BookingHandler
	Availability *handlers.AvailabilityHandler
}

// RegisterChatbotRoutes registers the conversational endpoint.
func RegisterChatbotRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1/chatbot")
	{
		api.POST("/chat", h.Chat.HandleChat)
	}
}

// RegisterBookingRoutes registers the booking CRUD and availability
// endpoints, all behind the API key.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1/booking")
	{
		api.Use(middleware.APIKeyAuth())
		api.POST("/", h.Booking.Create)
		api.GET("/", h.Booking.List)
		api.GET("/paginated", h.Booking.ListPaginated)
		api.GET("/availability", h.Availability.Get)
		api.GET("/:id", h.Booking.GetByID)
		api.DELETE("/:id", h.Booking.Delete)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthCheck)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterChatbotRoutes(r, h)
	RegisterBookingRoutes(r, h)
}
