package models

// Slot represents a bookable unit of capacity for an offer on a specific date and time.
type Slot struct {
	ID           string `bson:"id" json:"id"`
	OfferID      string `bson:"offerId" json:"offerId"`
	Date         string `bson:"date" json:"date"`                                     // e.g., "2025-09-12"
	Time         int    `bson:"time" json:"time"`                                     // minutes from midnight (e.g., 1140 for 7:00 PM)
	Capacity     int    `bson:"capacity" json:"capacity"`                             // maximum occupants
	MinOccupancy int    `bson:"minOccupancy,omitempty" json:"minOccupancy,omitempty"` // minimum party size the slot accepts alone; 0 means unset
	BookedCount  int    `bson:"bookedCount" json:"bookedCount"`                       // mutated only by the reservation commit
}

// AvailableSlot is a Slot annotated with its derived availability.
// MinOccupancy is normalized to at least 1 during annotation.
type AvailableSlot struct {
	Slot              `bson:",inline"`
	AvailableCapacity int `json:"availableCapacity"`
}

// CandidateSlot is an AvailableSlot annotated for ranking within one matching run.
// Lower ApplicabilityScore is better. TimeDistanceMinutes is only meaningful when
// the customer supplied a preferred time.
type CandidateSlot struct {
	AvailableSlot
	ApplicabilityScore  int `json:"applicabilityScore"`
	TimeDistanceMinutes int `json:"timeDistanceMinutes,omitempty"`
}
