package routes

import (
	"offerly/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/session", h.InitiateSession)                  // Phase 1: Start session
		booking.PUT("/session/:sessionID/party", h.SetPartySize)     // Phase 2: Party size -> dates
		booking.PUT("/session/:sessionID/date", h.ChooseDate)        // Phase 3: Date -> ranked slots
		booking.PUT("/session/:sessionID/slots", h.ToggleSlot)       // Phase 4: Select slot(s)
		booking.POST("/session/:sessionID/confirm", h.Confirm)       // Phase 5: Commit reservation
		booking.DELETE("/session/:sessionID", h.CancelSession)       // Abandon at any point
	}
}
