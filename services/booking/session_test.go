package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"offerly/models"
)

// memorySessionStore round-trips sessions through JSON so tests exercise the
// same serialization boundary as the Redis store.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string][]byte)}
}

func (st *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	data, ok := st.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session models.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (st *memorySessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.SessionID] = data
	return nil
}

func (st *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
	return nil
}

type recordClaimQueue struct {
	claims []models.Claim
	err    error
}

func (q *recordClaimQueue) EnqueueClaim(claim models.Claim) error {
	if q.err != nil {
		return q.err
	}
	q.claims = append(q.claims, claim)
	return nil
}

func newSessionService(repo *memorySlotRepo) (*DefaultBookingSessionService, *recordClaimQueue) {
	queue := &recordClaimQueue{}
	svc := &DefaultBookingSessionService{
		SlotRepo:   repo,
		Sessions:   newMemorySessionStore(),
		Committer:  &ReservationCommitter{Repo: repo},
		ClaimQueue: queue,
	}
	return svc, queue
}

func offerSlot(id, date string, minutes, capacity int) models.Slot {
	return models.Slot{
		ID:       id,
		OfferID:  "offer1",
		Date:     date,
		Time:     minutes,
		Capacity: capacity,
	}
}

// readySession walks a fresh session up to the date-choosing step.
func readySession(t *testing.T, svc *DefaultBookingSessionService, partySize int) *models.BookingSession {
	t.Helper()
	session, err := svc.InitiateSession("offer1", "user1")
	if err != nil {
		t.Fatalf("InitiateSession: %v", err)
	}
	session, err = svc.SetPartySize(session.SessionID, partySize)
	if err != nil {
		t.Fatalf("SetPartySize: %v", err)
	}
	return session
}

func TestChooseDateClearsSelectionAcrossDates(t *testing.T) {
	// Party of 6 needs slot combinations on either date, so nothing is
	// auto-selected and the customer's taps are the whole selection.
	repo := newMemorySlotRepo(
		offerSlot("s1", "2099-09-10", 1080, 4),
		offerSlot("s2", "2099-09-10", 1140, 4),
		offerSlot("s3", "2099-09-11", 1080, 4),
		offerSlot("s4", "2099-09-11", 1140, 4),
	)
	svc, _ := newSessionService(repo)
	session := readySession(t, svc, 6)

	session, err := svc.ChooseDate(session.SessionID, "2099-09-10", nil, false)
	if err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}
	if !session.RequiresMultiSlot {
		t.Fatal("party of 6 over 4-seat slots must require multiple slots")
	}
	session, err = svc.ToggleSlot(session.SessionID, "s1")
	if err != nil {
		t.Fatalf("ToggleSlot: %v", err)
	}
	if len(session.Selected) != 1 {
		t.Fatalf("selected = %v, want just s1", session.Selected)
	}

	// Switching dates discards the selection along with the old candidates.
	session, err = svc.ChooseDate(session.SessionID, "2099-09-11", nil, false)
	if err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}
	if len(session.Selected) != 0 {
		t.Fatalf("selected = %v, want cleared after date change", session.Selected)
	}
	if session.Stage != models.StageSlotsMatched {
		t.Fatalf("stage = %s, want %s", session.Stage, models.StageSlotsMatched)
	}
	for _, c := range session.Candidates {
		if c.Date != "2099-09-11" {
			t.Fatalf("candidate %s is from %s, want only the chosen date", c.ID, c.Date)
		}
	}
}

func TestChooseDateRejectsUnresolvedDate(t *testing.T) {
	repo := newMemorySlotRepo(offerSlot("s1", "2099-09-10", 1080, 4))
	svc, _ := newSessionService(repo)
	session := readySession(t, svc, 4)

	_, err := svc.ChooseDate(session.SessionID, "2099-12-25", nil, false)
	if ErrorCode(err) != CodeInvalidRequest {
		t.Fatalf("error = %v, want %s for a date outside the resolved set", err, CodeInvalidRequest)
	}
}

func TestConfirmCapacityConflictRefreshesCandidates(t *testing.T) {
	repo := newMemorySlotRepo(
		offerSlot("s1", "2099-09-10", 1080, 4),
		offerSlot("s2", "2099-09-10", 1140, 6),
	)
	svc, _ := newSessionService(repo)
	session := readySession(t, svc, 4)

	session, err := svc.ChooseDate(session.SessionID, "2099-09-10", nil, false)
	if err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}
	if len(session.Selected) != 1 || session.Selected[0].ID != "s1" {
		t.Fatalf("selected = %v, want the tighter slot s1 auto-selected", session.Selected)
	}

	// Another party books out s1 before this one confirms.
	if err := repo.TryReserve(context.Background(), "s1", 4); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}

	_, err = svc.Confirm(session.SessionID)
	if ErrorCode(err) != CodeCapacityConflict {
		t.Fatalf("error = %v, want %s", err, CodeCapacityConflict)
	}

	// The session survives with a rematched candidate list that no longer
	// offers the filled slot.
	session, err = svc.GetSession(session.SessionID)
	if err != nil {
		t.Fatalf("GetSession after conflict: %v", err)
	}
	if session.Stage != models.StageSlotsMatched {
		t.Fatalf("stage = %s, want %s", session.Stage, models.StageSlotsMatched)
	}
	if len(session.Candidates) != 1 || session.Candidates[0].ID != "s2" {
		t.Fatalf("candidates = %v, want only s2 after refresh", session.Candidates)
	}
	if repo.booked("s2") != 0 {
		t.Fatal("conflicted confirm must not reserve anything")
	}
}

func TestConfirmRetryAfterEnqueueFailureDoesNotRebook(t *testing.T) {
	repo := newMemorySlotRepo(offerSlot("s1", "2099-09-10", 1080, 4))
	svc, queue := newSessionService(repo)
	session := readySession(t, svc, 4)

	session, err := svc.ChooseDate(session.SessionID, "2099-09-10", nil, false)
	if err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}

	queue.err = errors.New("queue unavailable")
	if _, err := svc.Confirm(session.SessionID); err == nil {
		t.Fatal("Confirm must report the failed claim handoff")
	}
	if got := repo.booked("s1"); got != 4 {
		t.Fatalf("bookedCount = %d, want 4 (reservation stands)", got)
	}

	// The session is retired with the commit, so retrying cannot reserve
	// the same party's capacity again.
	queue.err = nil
	_, err = svc.Confirm(session.SessionID)
	if ErrorCode(err) != CodeInvalidRequest {
		t.Fatalf("retry error = %v, want %s for a retired session", err, CodeInvalidRequest)
	}
	if got := repo.booked("s1"); got != 4 {
		t.Fatalf("bookedCount = %d after retry, want unchanged 4", got)
	}
}

func TestConfirmHandsClaimToQueue(t *testing.T) {
	repo := newMemorySlotRepo(offerSlot("s1", "2099-09-10", 1080, 4))
	svc, queue := newSessionService(repo)
	session := readySession(t, svc, 4)

	session, err := svc.ChooseDate(session.SessionID, "2099-09-10", nil, false)
	if err != nil {
		t.Fatalf("ChooseDate: %v", err)
	}

	claim, err := svc.Confirm(session.SessionID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(queue.claims) != 1 || queue.claims[0].ID != claim.ID {
		t.Fatalf("queued claims = %v, want the returned claim", queue.claims)
	}
	if claim.PartySize != 4 || len(claim.Reservations) != 1 {
		t.Fatalf("claim = %+v, want one reservation covering the party", claim)
	}
	if _, err := svc.GetSession(session.SessionID); ErrorCode(err) != CodeInvalidRequest {
		t.Fatalf("session lookup = %v, want gone after commit", err)
	}
}
