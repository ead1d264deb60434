package booking

import (
	"context"
	"errors"
	"fmt"

	slotRepo "offerly/database/repository/slot"
	"offerly/models"
	"offerly/utils"

	"go.uber.org/zap"
)

// ReservationCommitter converts a validated selection into booked capacity.
// It is the engine's only mutation point: every increment runs as a
// conditional atomic update against shared inventory, and a multi-slot
// commit succeeds or fails as a whole.
type ReservationCommitter struct {
	Repo slotRepo.SlotRepository
}

// Commit allocates the party across the selected slots in ranked order,
// each slot taking at most its available capacity, then reserves all
// allocations atomically. On a capacity race the caller must re-run the
// matcher against fresh inventory; nothing will have been reserved.
func (rc *ReservationCommitter) Commit(ctx context.Context, sel Selection, partySize int) ([]models.Reservation, error) {
	logger := utils.GetLogger()

	if partySize < 1 {
		return nil, NewEngineError(CodeInvalidRequest, "party size must be at least 1")
	}
	if !sel.Sufficient(partySize) {
		return nil, NewEngineError(CodeInsufficientSelection,
			fmt.Sprintf("selected capacity %d does not cover party of %d", sel.TotalAvailable(), partySize))
	}

	remaining := partySize
	allocs := make([]slotRepo.Allocation, 0, len(sel.Slots))
	for _, s := range sel.Slots {
		if remaining == 0 {
			break
		}
		portion := s.AvailableCapacity
		if portion > remaining {
			portion = remaining
		}
		if portion <= 0 {
			continue
		}
		allocs = append(allocs, slotRepo.Allocation{SlotID: s.ID, Count: portion})
		remaining -= portion
	}

	if err := rc.Repo.ReserveMany(ctx, allocs); err != nil {
		if errors.Is(err, slotRepo.ErrCapacityConflict) || errors.Is(err, slotRepo.ErrSlotNotFound) {
			logger.Info("Commit: lost capacity race",
				zap.Int("partySize", partySize), zap.Int("slots", len(allocs)), zap.Error(err))
			return nil, NewEngineError(CodeCapacityConflict, "slot no longer available")
		}
		return nil, NewEngineError(CodeStorageFailure, fmt.Sprintf("failed to reserve capacity: %v", err))
	}

	reservations := make([]models.Reservation, 0, len(allocs))
	for _, a := range allocs {
		reservations = append(reservations, models.Reservation{
			SlotID:    a.SlotID,
			PartySize: a.Count,
		})
	}
	logger.Info("Commit: capacity reserved",
		zap.Int("partySize", partySize), zap.Int("slots", len(reservations)))
	return reservations, nil
}
