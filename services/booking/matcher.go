package booking

import (
	"fmt"
	"sort"

	"offerly/models"
)

const (
	// collapseDistanceMinutes is the largest preferred-time distance at which
	// the single-slot candidate list collapses to just the closest slot.
	collapseDistanceMinutes = 120
	// noticeDistanceMinutes is the distance past which the customer is told
	// the top candidate is not at their exact time.
	noticeDistanceMinutes = 60
)

// MatchRequest carries one matching run's inputs for a chosen date.
type MatchRequest struct {
	PartySize     int
	PreferredTime *int // minutes from midnight; nil shows all slots
	ShowAllSlots  bool // bypasses preferred-time collapsing
}

// MatchResult is the ranked candidate list for a chosen date.
type MatchResult struct {
	Candidates        []models.CandidateSlot `json:"candidates"`
	RequiresMultiSlot bool                   `json:"requiresMultiSlot"`
	Notice            string                 `json:"notice,omitempty"`
}

// MatchSlots produces a ranked, deduplicated candidate list for one date.
//
// When the party fits in at least one slot, single-slot mode ranks the
// tightest fits first; otherwise multi-slot mode returns every available
// slot, larger capacity first, so the customer can combine them. With a
// preferred time set, proximity to that time supersedes the size ranking.
func MatchSlots(daySlots []models.AvailableSlot, req MatchRequest) MatchResult {
	available := make([]models.AvailableSlot, 0, len(daySlots))
	maxSingleCapacity := 0
	for _, s := range daySlots {
		if s.AvailableCapacity <= 0 {
			continue
		}
		available = append(available, s)
		if s.Capacity > maxSingleCapacity {
			maxSingleCapacity = s.Capacity
		}
	}

	multiSlot := req.PartySize > maxSingleCapacity

	var candidates []models.CandidateSlot
	if multiSlot {
		// Every available slot is a candidate; prefer larger slots so the
		// customer has to combine fewer of them. Same-time slots stay
		// separate since several distinct slots may be needed.
		for _, s := range available {
			candidates = append(candidates, models.CandidateSlot{
				AvailableSlot:      s,
				ApplicabilityScore: 1000 - s.Capacity,
			})
		}
	} else {
		candidates = singleSlotCandidates(available, req.PartySize)
	}

	sortByScore(candidates)

	var notice string
	if req.PreferredTime != nil && !req.ShowAllSlots && len(candidates) > 0 {
		preferred := *req.PreferredTime
		for i := range candidates {
			candidates[i].TimeDistanceMinutes = absDistance(candidates[i].Time, preferred)
		}
		// Proximity to the requested time dominates size-fit preference.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].TimeDistanceMinutes < candidates[j].TimeDistanceMinutes
		})
		if !multiSlot && len(candidates) > 1 && candidates[0].TimeDistanceMinutes <= collapseDistanceMinutes {
			candidates = candidates[:1]
		}
		if candidates[0].TimeDistanceMinutes > noticeDistanceMinutes {
			notice = fmt.Sprintf("No slot at your exact time; closest available is %s",
				FormatClock(candidates[0].Time))
		}
	}

	return MatchResult{
		Candidates:        candidates,
		RequiresMultiSlot: multiSlot,
		Notice:            notice,
	}
}

// singleSlotCandidates scores slots that can hold the whole party. Exact
// fits (minimum occupancy admits the party too) win over oversized fits,
// and within exact fits the tightest slot scores best: capacity*100 minus
// a minimum-occupancy bonus. Slots sharing a time keep only their best fit.
func singleSlotCandidates(available []models.AvailableSlot, partySize int) []models.CandidateSlot {
	var exact, oversized []models.CandidateSlot
	for _, s := range available {
		if s.Capacity < partySize || s.AvailableCapacity < partySize {
			continue
		}
		oversized = append(oversized, models.CandidateSlot{
			AvailableSlot:      s,
			ApplicabilityScore: s.Capacity * 100,
		})
		if s.MinOccupancy <= partySize {
			exact = append(exact, models.CandidateSlot{
				AvailableSlot:      s,
				ApplicabilityScore: s.Capacity*100 - s.MinOccupancy,
			})
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = oversized
	}

	// Deduplicate by time-of-day, keeping the best fit at each time.
	bestAt := make(map[int]models.CandidateSlot, len(candidates))
	for _, c := range candidates {
		cur, ok := bestAt[c.Time]
		if !ok || c.ApplicabilityScore < cur.ApplicabilityScore {
			bestAt[c.Time] = c
		}
	}
	deduped := make([]models.CandidateSlot, 0, len(bestAt))
	for _, c := range bestAt {
		deduped = append(deduped, c)
	}
	return deduped
}

// sortByScore orders ascending by applicability score, with time and ID as
// tie-breakers so repeated runs over unchanged input yield identical lists.
func sortByScore(candidates []models.CandidateSlot) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ApplicabilityScore != b.ApplicabilityScore {
			return a.ApplicabilityScore < b.ApplicabilityScore
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
}

func absDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
