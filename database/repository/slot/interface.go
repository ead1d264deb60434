// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"

	"offerly/database"
	"offerly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrCapacityConflict is returned when a conditional reserve loses the race:
// the slot exists but no longer has room for the requested count.
var ErrCapacityConflict = errors.New("slot no longer has sufficient capacity")

// ErrSlotNotFound is returned when the referenced slot does not exist.
var ErrSlotNotFound = errors.New("slot not found")

// Allocation is one slot's share of a reservation commit.
type Allocation struct {
	SlotID string
	Count  int
}

// SlotRepository is the inventory read/write interface consumed by the booking engine.
type SlotRepository interface {
	// ListSlots returns an offer's slots from fromDate onward, ordered by date then time ascending.
	ListSlots(ctx context.Context, offerID, fromDate string) ([]models.Slot, error)
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	// TryReserve increments bookedCount by count only if bookedCount+count <= capacity,
	// as a single conditional update. Returns ErrCapacityConflict when the guard fails.
	TryReserve(ctx context.Context, slotID string, count int) error
	// ReserveMany applies TryReserve semantics to every allocation inside one
	// transaction; any failure aborts the whole set.
	ReserveMany(ctx context.Context, allocs []Allocation) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("offerly")
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
