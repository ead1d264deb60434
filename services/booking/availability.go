package booking

import (
	"offerly/models"
	"offerly/utils"

	"go.uber.org/zap"
)

// AnnotateSlots derives each slot's available capacity and normalizes a
// missing minimum occupancy to 1. Slots with malformed (negative) capacity
// are dropped rather than crashing the caller.
func AnnotateSlots(slots []models.Slot) []models.AvailableSlot {
	logger := utils.GetLogger()

	annotated := make([]models.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if s.Capacity < 0 {
			logger.Warn("AnnotateSlots: dropping slot with malformed capacity",
				zap.String("slotID", s.ID), zap.Int("capacity", s.Capacity))
			continue
		}
		if s.MinOccupancy < 1 {
			s.MinOccupancy = 1
		}
		avail := s.Capacity - s.BookedCount
		if avail < 0 {
			// Overbooked data should never occur; treat it as full.
			logger.Warn("AnnotateSlots: bookedCount exceeds capacity",
				zap.String("slotID", s.ID), zap.Int("bookedCount", s.BookedCount), zap.Int("capacity", s.Capacity))
			avail = 0
		}
		annotated = append(annotated, models.AvailableSlot{
			Slot:              s,
			AvailableCapacity: avail,
		})
	}
	return annotated
}
