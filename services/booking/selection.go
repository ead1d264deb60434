package booking

import "offerly/models"

// Selection tracks the customer's in-progress slot choices for one party
// request. Single-slot mode uses radio semantics (a new choice replaces the
// old), multi-slot mode uses checkbox semantics (choices toggle membership).
type Selection struct {
	Slots []models.CandidateSlot
}

// Toggle applies a tap on a candidate under the given mode and reports the
// resulting selection.
func (sel *Selection) Toggle(candidate models.CandidateSlot, multiSlot bool) {
	if !multiSlot {
		sel.Slots = []models.CandidateSlot{candidate}
		return
	}
	for i, s := range sel.Slots {
		if s.ID == candidate.ID {
			sel.Slots = append(sel.Slots[:i], sel.Slots[i+1:]...)
			return
		}
	}
	sel.Slots = append(sel.Slots, candidate)
}

// Clear drops every selected slot. Changing the selected date must always
// go through here; no cross-date carry-over is allowed.
func (sel *Selection) Clear() {
	sel.Slots = nil
}

// TotalAvailable sums the available capacity across the selected slots.
func (sel *Selection) TotalAvailable() int {
	total := 0
	for _, s := range sel.Slots {
		total += s.AvailableCapacity
	}
	return total
}

// Sufficient reports whether the selection can seat the whole party.
func (sel *Selection) Sufficient(partySize int) bool {
	return len(sel.Slots) >= 1 && sel.TotalAvailable() >= partySize
}

// AutoSelect picks the top-ranked candidate when the matcher ran in
// single-slot mode, to minimize taps. Multi-slot mode never auto-selects.
func AutoSelect(result MatchResult) Selection {
	if result.RequiresMultiSlot || len(result.Candidates) == 0 {
		return Selection{}
	}
	return Selection{Slots: []models.CandidateSlot{result.Candidates[0]}}
}
