package models

// Reservation is the immutable fact emitted when capacity is committed on a slot.
// PartySize is the portion of the party allocated to that slot.
type Reservation struct {
	SlotID    string `bson:"slotId" json:"slotId"`
	PartySize int    `bson:"partySize" json:"partySize"`
}
