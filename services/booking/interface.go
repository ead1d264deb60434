package booking

import (
	slotRepo "offerly/database/repository/slot"
	"offerly/models"
)

// BookingSessionService defines the interface for managing a stateful booking session.
type BookingSessionService interface {
	InitiateSession(offerID, userID string) (*models.BookingSession, error)
	SetPartySize(sessionID string, partySize int) (*models.BookingSession, error)
	ChooseDate(sessionID, date string, preferredTime *int, showAllSlots bool) (*models.BookingSession, error)
	ToggleSlot(sessionID, slotID string) (*models.BookingSession, error)
	Confirm(sessionID string) (*models.Claim, error)
	GetSession(sessionID string) (*models.BookingSession, error)
	CancelSession(sessionID string) error
}

// ClaimQueue hands committed reservations off to the purchase pipeline.
type ClaimQueue interface {
	EnqueueClaim(claim models.Claim) error
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	SlotRepo   slotRepo.SlotRepository
	Sessions   SessionStore
	Committer  *ReservationCommitter
	ClaimQueue ClaimQueue
}
