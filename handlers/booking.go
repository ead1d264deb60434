package handlers

import (
	"net/http"

	"offerly/services/booking"
	"offerly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking-session flow over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// statusForCode maps engine error codes to HTTP statuses. Foreign errors
// fall through to 500.
func statusForCode(code string) int {
	switch code {
	case booking.CodeInvalidRequest, booking.CodeInsufficientSelection:
		return http.StatusBadRequest
	case booking.CodeNoCandidates:
		return http.StatusNotFound
	case booking.CodeCapacityConflict:
		return http.StatusConflict
	case booking.CodeStorageFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	code := booking.ErrorCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("booking request failed", zap.Error(err))
	}
	utils.JSONError(c, status, code, err.Error())
}

// InitiateSession starts a booking session for an offer.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		OfferID string `json:"offerId" binding:"required"`
		UserID  string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.InitiateSession(input.OfferID, input.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SetPartySize records the party size and returns the feasible dates.
func (h *BookingHandler) SetPartySize(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		PartySize int `json:"partySize" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SetPartySize(sessionID, input.PartySize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ChooseDate runs the slot matcher for the chosen date. The preferred time,
// when present, is an "HH:MM" clock value.
func (h *BookingHandler) ChooseDate(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Date          string `json:"date" binding:"required"`
		PreferredTime string `json:"preferredTime"`
		ShowAllSlots  bool   `json:"showAllSlots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var preferred *int
	if input.PreferredTime != "" {
		minutes, err := booking.ParseClock(input.PreferredTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferredTime", "details": err.Error()})
			return
		}
		preferred = &minutes
	}

	session, err := h.Service.ChooseDate(sessionID, input.Date, preferred, input.ShowAllSlots)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ToggleSlot selects or deselects a matched candidate.
func (h *BookingHandler) ToggleSlot(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		SlotID string `json:"slotId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.ToggleSlot(sessionID, input.SlotID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Confirm commits the selection. On a capacity conflict the refreshed
// session is returned alongside the error so the client can re-render the
// slot picker without an extra round trip.
func (h *BookingHandler) Confirm(c *gin.Context) {
	sessionID := c.Param("sessionID")

	claim, err := h.Service.Confirm(sessionID)
	if err != nil {
		if booking.ErrorCode(err) == booking.CodeCapacityConflict {
			session, getErr := h.Service.GetSession(sessionID)
			if getErr == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "slot no longer available",
					"session": session,
				})
				return
			}
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// CancelSession abandons the booking attempt.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Service.CancelSession(sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
