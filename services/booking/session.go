// File: booking/session.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offerly/config"
	"offerly/models"

	"github.com/google/uuid"
)

func (s *DefaultBookingSessionService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, NewEngineError(CodeInvalidRequest, "booking session not found or expired")
		}
		return nil, err
	}
	return session, nil
}

// fetchAnnotated pulls the offer's inventory from today onward and annotates it.
func (s *DefaultBookingSessionService) fetchAnnotated(ctx context.Context, offerID string) ([]models.AvailableSlot, error) {
	today := time.Now().Format("2006-01-02")
	slots, err := s.SlotRepo.ListSlots(ctx, offerID, today)
	if err != nil {
		return nil, NewEngineError(CodeStorageFailure, fmt.Sprintf("failed to load inventory: %v", err))
	}
	return AnnotateSlots(slots), nil
}

// InitiateSession creates a new booking session, computes the advised maximum
// party size over the offer's inventory, and stores the session.
func (s *DefaultBookingSessionService) InitiateSession(offerID, userID string) (*models.BookingSession, error) {
	ctx := context.Background()

	annotated, err := s.fetchAnnotated(ctx, offerID)
	if err != nil {
		return nil, err
	}

	session := models.BookingSession{
		SessionID:    uuid.New().String(),
		OfferID:      offerID,
		UserID:       userID,
		MaxPartySize: MaxPartySize(annotated, config.AppConfig.MaxPartySize),
		Stage:        models.StageBrowsing,
	}
	if err := s.Sessions.Save(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SetPartySize records the party size and resolves which dates can plausibly
// seat it, against fresh inventory.
func (s *DefaultBookingSessionService) SetPartySize(sessionID string, partySize int) (*models.BookingSession, error) {
	ctx := context.Background()
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if partySize < 1 {
		return nil, NewEngineError(CodeInvalidRequest, "party size must be at least 1")
	}
	if partySize > session.MaxPartySize {
		return nil, NewEngineError(CodeInvalidRequest,
			fmt.Sprintf("party size %d exceeds the offer's maximum of %d", partySize, session.MaxPartySize))
	}

	annotated, err := s.fetchAnnotated(ctx, session.OfferID)
	if err != nil {
		return nil, err
	}

	session.Party = models.PartyRequest{PartySize: partySize}
	session.AvailableDates = AvailableDates(annotated, partySize)
	session.Candidates = nil
	session.Selected = nil
	session.RequiresMultiSlot = false
	session.Notice = ""
	session.Stage = models.StageBrowsing

	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ChooseDate runs the slot matcher for a date from the resolved set. Any
// prior selection is cleared; in single-slot mode the top candidate is
// auto-selected to minimize taps.
func (s *DefaultBookingSessionService) ChooseDate(sessionID, date string, preferredTime *int, showAllSlots bool) (*models.BookingSession, error) {
	ctx := context.Background()
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Party.PartySize < 1 {
		return nil, NewEngineError(CodeInvalidRequest, "party size has not been set")
	}
	if !containsDate(session.AvailableDates, date) {
		return nil, NewEngineError(CodeInvalidRequest,
			fmt.Sprintf("date %s is not in the available set", date))
	}

	annotated, err := s.fetchAnnotated(ctx, session.OfferID)
	if err != nil {
		return nil, err
	}

	session.Party.SelectedDate = date
	session.Party.PreferredTime = preferredTime
	session.Party.ShowAllSlots = showAllSlots

	if err := s.rematch(session, annotated); err != nil {
		_ = s.Sessions.Save(ctx, session)
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// rematch recomputes the candidate list for the session's selected date and
// resets the selection accordingly.
func (s *DefaultBookingSessionService) rematch(session *models.BookingSession, annotated []models.AvailableSlot) error {
	result := MatchSlots(SlotsForDate(annotated, session.Party.SelectedDate), MatchRequest{
		PartySize:     session.Party.PartySize,
		PreferredTime: session.Party.PreferredTime,
		ShowAllSlots:  session.Party.ShowAllSlots,
	})

	session.Candidates = result.Candidates
	session.RequiresMultiSlot = result.RequiresMultiSlot
	session.Notice = result.Notice
	session.Selected = AutoSelect(result).Slots

	if len(result.Candidates) == 0 {
		session.Stage = models.StageBrowsing
		return NewEngineError(CodeNoCandidates,
			fmt.Sprintf("no bookable slots remain on %s", session.Party.SelectedDate))
	}
	session.Stage = models.StageSlotsMatched
	return nil
}

// ToggleSlot applies a tap on a matched candidate.
func (s *DefaultBookingSessionService) ToggleSlot(sessionID, slotID string) (*models.BookingSession, error) {
	ctx := context.Background()
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != models.StageSlotsMatched && session.Stage != models.StageSelecting {
		return nil, NewEngineError(CodeInvalidRequest, "no matched slots to select from")
	}

	var candidate *models.CandidateSlot
	for i := range session.Candidates {
		if session.Candidates[i].ID == slotID {
			candidate = &session.Candidates[i]
			break
		}
	}
	if candidate == nil {
		return nil, NewEngineError(CodeInvalidRequest,
			fmt.Sprintf("slot %s is not among the matched candidates", slotID))
	}

	sel := Selection{Slots: session.Selected}
	sel.Toggle(*candidate, session.RequiresMultiSlot)
	session.Selected = sel.Slots
	session.Stage = models.StageSelecting

	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm validates the selection, commits the reservation atomically, and
// hands the resulting claim to the purchase pipeline. A successful commit is
// terminal: the session is deleted before the claim handoff so a retried
// confirm can never reserve the same party's capacity twice. On a capacity
// conflict the session drops back to the slot-matching step with refreshed
// inventory.
func (s *DefaultBookingSessionService) Confirm(sessionID string) (*models.Claim, error) {
	ctx := context.Background()
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel := Selection{Slots: session.Selected}
	if !sel.Sufficient(session.Party.PartySize) {
		return nil, NewEngineError(CodeInsufficientSelection,
			fmt.Sprintf("selected capacity %d does not cover party of %d", sel.TotalAvailable(), session.Party.PartySize))
	}

	reservations, err := s.Committer.Commit(ctx, sel, session.Party.PartySize)
	if err != nil {
		if ErrorCode(err) == CodeCapacityConflict {
			// Discard the stale candidate list and rematch against fresh data.
			annotated, fetchErr := s.fetchAnnotated(ctx, session.OfferID)
			if fetchErr != nil {
				return nil, fetchErr
			}
			session.Stage = models.StageCapacityConflict
			_ = s.rematch(session, annotated)
			_ = s.Sessions.Save(ctx, session)
		}
		return nil, err
	}

	claim := models.Claim{
		ID:           uuid.New().String(),
		OfferID:      session.OfferID,
		UserID:       session.UserID,
		Date:         session.Party.SelectedDate,
		PartySize:    session.Party.PartySize,
		Reservations: reservations,
		Status:       "pending",
		CreatedAt:    time.Now(),
	}

	// Capacity is committed; retire the session before the handoff so a
	// retried confirm cannot reach Commit again.
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("reserved capacity for claim %s but failed to retire session: %w", claim.ID, err)
	}

	if err := s.ClaimQueue.EnqueueClaim(claim); err != nil {
		// The reservation stands; the claim must be recovered by ID, not retried.
		return nil, fmt.Errorf("reserved capacity but failed to enqueue claim %s: %w", claim.ID, err)
	}
	return &claim, nil
}

// GetSession returns the current session state.
func (s *DefaultBookingSessionService) GetSession(sessionID string) (*models.BookingSession, error) {
	return s.loadSession(context.Background(), sessionID)
}

// CancelSession allows the client to abandon a booking attempt. Nothing has
// been reserved before confirm, so deleting the session has no side effects.
func (s *DefaultBookingSessionService) CancelSession(sessionID string) error {
	return s.Sessions.Delete(context.Background(), sessionID)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}
