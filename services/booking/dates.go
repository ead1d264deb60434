package booking

import (
	"sort"

	"offerly/models"
)

// AvailableDates returns the distinct dates, ascending, on which the party
// could plausibly be seated: either one slot's capacity covers the whole
// party, or the date's combined available capacity does. This is a coarse
// admissibility filter only; it does not verify that a workable multi-slot
// combination exists, since the customer makes the final combination choice.
func AvailableDates(slots []models.AvailableSlot, partySize int) []string {
	byDate := make(map[string][]models.AvailableSlot)
	for _, s := range slots {
		if s.AvailableCapacity <= 0 {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	var dates []string
	for date, daySlots := range byDate {
		maxCapacity := 0
		totalAvailable := 0
		for _, s := range daySlots {
			if s.Capacity > maxCapacity {
				maxCapacity = s.Capacity
			}
			totalAvailable += s.AvailableCapacity
		}
		if maxCapacity >= partySize || totalAvailable >= partySize {
			dates = append(dates, date)
		}
	}

	// "YYYY-MM-DD" sorts lexicographically in date order.
	sort.Strings(dates)
	return dates
}

// SlotsForDate filters annotated slots down to one date's bookable slots.
func SlotsForDate(slots []models.AvailableSlot, date string) []models.AvailableSlot {
	var daySlots []models.AvailableSlot
	for _, s := range slots {
		if s.Date == date && s.AvailableCapacity > 0 {
			daySlots = append(daySlots, s)
		}
	}
	return daySlots
}
