package routes

import (
	"offerly/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every route group onto the router.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler) {
	r.GET("/health", handlers.HealthHandler)
	RegisterBookingRoutes(r, bookingHandler)
}
