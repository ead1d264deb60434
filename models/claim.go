package models

import "time"

// Claim is the downstream purchase record created after a successful commit.
type Claim struct {
	ID           string        `bson:"id" json:"id"`
	OfferID      string        `bson:"offerId" json:"offerId"`
	UserID       string        `bson:"userId" json:"userId"`
	Date         string        `bson:"date" json:"date"`
	PartySize    int           `bson:"partySize" json:"partySize"`
	Reservations []Reservation `bson:"reservations" json:"reservations"`
	Status       string        `bson:"status" json:"status"` // "pending" until the purchase pipeline picks it up
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
}
