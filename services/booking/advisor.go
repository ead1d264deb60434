package booking

import "offerly/models"

// DefaultPartyCeiling caps the advised maximum party size when no ceiling
// is configured.
const DefaultPartyCeiling = 20

// MaxPartySize computes the largest party the offer can ever support: the
// sum of available capacity across all slots, capped at ceiling. It bounds
// the party-size selector and is purely advisory; the commit step is what
// actually guarantees capacity.
func MaxPartySize(slots []models.AvailableSlot, ceiling int) int {
	if ceiling <= 0 {
		ceiling = DefaultPartyCeiling
	}
	total := 0
	for _, s := range slots {
		total += s.AvailableCapacity
		if total >= ceiling {
			return ceiling
		}
	}
	return total
}
