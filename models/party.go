package models

// PartyRequest captures one booking attempt's inputs as they accumulate
// across the party-size, date and slot steps.
type PartyRequest struct {
	PartySize     int    `json:"partySize"`
	PreferredTime *int   `json:"preferredTime,omitempty"` // minutes from midnight; nil means "show all slots"
	SelectedDate  string `json:"selectedDate,omitempty"`
	ShowAllSlots  bool   `json:"showAllSlots,omitempty"`
}
