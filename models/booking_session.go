package models

// Booking session stages, in flow order.
const (
	StageBrowsing         = "browsing"
	StageSlotsMatched     = "slotsMatched"
	StageSelecting        = "selecting"
	StageCommitted        = "committed"
	StageCapacityConflict = "capacityConflict"
)

// BookingSession holds context between the party-size, date, slot and confirm steps.
type BookingSession struct {
	SessionID         string          `json:"sessionId"`
	OfferID           string          `json:"offerId"`
	UserID            string          `json:"userId,omitempty"`
	MaxPartySize      int             `json:"maxPartySize"`
	Party             PartyRequest    `json:"party"`
	AvailableDates    []string        `json:"availableDates,omitempty"`
	Candidates        []CandidateSlot `json:"candidates,omitempty"`
	RequiresMultiSlot bool            `json:"requiresMultiSlot,omitempty"`
	Notice            string          `json:"notice,omitempty"`
	Selected          []CandidateSlot `json:"selected,omitempty"`
	Stage             string          `json:"stage"`
}
