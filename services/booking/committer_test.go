package booking

import (
	"context"
	"sync"
	"testing"

	slotRepo "offerly/database/repository/slot"
	"offerly/models"
)

// memorySlotRepo is an in-memory SlotRepository with the same conditional
// update semantics as the Mongo implementation.
type memorySlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
	err   error // forced error for storage-failure paths
}

func newMemorySlotRepo(slots ...models.Slot) *memorySlotRepo {
	repo := &memorySlotRepo{slots: make(map[string]*models.Slot)}
	for i := range slots {
		s := slots[i]
		repo.slots[s.ID] = &s
	}
	return repo
}

func (r *memorySlotRepo) ListSlots(ctx context.Context, offerID, fromDate string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Slot
	for _, s := range r.slots {
		if s.OfferID == offerID && s.Date >= fromDate {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memorySlotRepo) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memorySlotRepo) TryReserve(ctx context.Context, slotID string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserveLocked(slotID, count)
}

func (r *memorySlotRepo) ReserveMany(ctx context.Context, allocs []slotRepo.Allocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	// All-or-nothing: verify every guard before applying any increment.
	for _, a := range allocs {
		s, ok := r.slots[a.SlotID]
		if !ok {
			return slotRepo.ErrSlotNotFound
		}
		if s.BookedCount+a.Count > s.Capacity {
			return slotRepo.ErrCapacityConflict
		}
	}
	for _, a := range allocs {
		r.slots[a.SlotID].BookedCount += a.Count
	}
	return nil
}

func (r *memorySlotRepo) reserveLocked(slotID string, count int) error {
	s, ok := r.slots[slotID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if s.BookedCount+count > s.Capacity {
		return slotRepo.ErrCapacityConflict
	}
	s.BookedCount += count
	return nil
}

func (r *memorySlotRepo) booked(slotID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[slotID].BookedCount
}

func selected(avails map[string]int, order ...string) Selection {
	var sel Selection
	for _, id := range order {
		sel.Slots = append(sel.Slots, models.CandidateSlot{
			AvailableSlot: models.AvailableSlot{
				Slot:              models.Slot{ID: id, Capacity: avails[id]},
				AvailableCapacity: avails[id],
			},
		})
	}
	return sel
}

func TestCommitSingleSlot(t *testing.T) {
	repo := newMemorySlotRepo(models.Slot{ID: "s1", Capacity: 6, BookedCount: 2})
	rc := &ReservationCommitter{Repo: repo}

	reservations, err := rc.Commit(context.Background(), selected(map[string]int{"s1": 4}, "s1"), 4)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(reservations) != 1 || reservations[0].SlotID != "s1" || reservations[0].PartySize != 4 {
		t.Fatalf("reservations = %v, want full party on s1", reservations)
	}
	if got := repo.booked("s1"); got != 6 {
		t.Fatalf("bookedCount = %d, want 6", got)
	}
}

func TestCommitMultiSlotAllocatesGreedily(t *testing.T) {
	repo := newMemorySlotRepo(
		models.Slot{ID: "big", Capacity: 6, BookedCount: 0},
		models.Slot{ID: "small", Capacity: 4, BookedCount: 0},
	)
	rc := &ReservationCommitter{Repo: repo}

	reservations, err := rc.Commit(context.Background(),
		selected(map[string]int{"big": 6, "small": 4}, "big", "small"), 8)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(reservations) != 2 {
		t.Fatalf("got %d reservations, want 2", len(reservations))
	}
	// First selected slot fills completely, the remainder spills over.
	if reservations[0].PartySize != 6 || reservations[1].PartySize != 2 {
		t.Fatalf("allocations = %v, want [6 2]", reservations)
	}
	if repo.booked("big") != 6 || repo.booked("small") != 2 {
		t.Fatalf("booked counts = %d/%d, want 6/2", repo.booked("big"), repo.booked("small"))
	}
}

func TestCommitInsufficientSelection(t *testing.T) {
	repo := newMemorySlotRepo(models.Slot{ID: "s1", Capacity: 4})
	rc := &ReservationCommitter{Repo: repo}

	_, err := rc.Commit(context.Background(), selected(map[string]int{"s1": 4}, "s1"), 5)
	if ErrorCode(err) != CodeInsufficientSelection {
		t.Fatalf("error = %v, want %s", err, CodeInsufficientSelection)
	}
	if got := repo.booked("s1"); got != 0 {
		t.Fatalf("bookedCount = %d, nothing may be reserved", got)
	}
}

func TestCommitCapacityConflictLeavesNothingReserved(t *testing.T) {
	// The selection was built from a stale snapshot: "gone" has since filled up.
	repo := newMemorySlotRepo(
		models.Slot{ID: "open", Capacity: 4, BookedCount: 0},
		models.Slot{ID: "gone", Capacity: 4, BookedCount: 4},
	)
	rc := &ReservationCommitter{Repo: repo}

	_, err := rc.Commit(context.Background(),
		selected(map[string]int{"open": 4, "gone": 4}, "open", "gone"), 8)
	if ErrorCode(err) != CodeCapacityConflict {
		t.Fatalf("error = %v, want %s", err, CodeCapacityConflict)
	}
	if repo.booked("open") != 0 {
		t.Fatal("partial reservation persisted after an aborted commit")
	}
}

func TestCommitStorageFailure(t *testing.T) {
	repo := newMemorySlotRepo(models.Slot{ID: "s1", Capacity: 4})
	repo.err = context.DeadlineExceeded
	rc := &ReservationCommitter{Repo: repo}

	_, err := rc.Commit(context.Background(), selected(map[string]int{"s1": 4}, "s1"), 2)
	if ErrorCode(err) != CodeStorageFailure {
		t.Fatalf("error = %v, want %s", err, CodeStorageFailure)
	}
}

func TestCommitConcurrentLastUnit(t *testing.T) {
	// Two customers race for the last remaining unit: exactly one wins and
	// the slot finishes exactly full.
	repo := newMemorySlotRepo(models.Slot{ID: "s1", Capacity: 5, BookedCount: 4})
	rc := &ReservationCommitter{Repo: repo}

	sel := selected(map[string]int{"s1": 1}, "s1")
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rc.Commit(context.Background(), sel, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case ErrorCode(err) == CodeCapacityConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("successes = %d, conflicts = %d; want exactly one of each", successes, conflicts)
	}
	if got := repo.booked("s1"); got != 5 {
		t.Fatalf("bookedCount = %d, want capacity 5 exactly (no overshoot)", got)
	}
}

func TestCommitManyConcurrentNeverOverbooks(t *testing.T) {
	repo := newMemorySlotRepo(models.Slot{ID: "s1", Capacity: 10, BookedCount: 0})
	rc := &ReservationCommitter{Repo: repo}

	sel := selected(map[string]int{"s1": 3}, "s1")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = rc.Commit(context.Background(), sel, 3)
		}()
	}
	wg.Wait()

	if got := repo.booked("s1"); got > 10 {
		t.Fatalf("bookedCount = %d exceeds capacity 10", got)
	}
	if got := repo.booked("s1"); got%3 != 0 {
		t.Fatalf("bookedCount = %d is not a whole number of parties", got)
	}
}
