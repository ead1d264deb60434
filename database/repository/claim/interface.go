// File: database/repository/claim/interface.go
package claimRepo

import (
	"context"
	"errors"

	"offerly/database"
	"offerly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrClaimNotFound is returned when no claim exists under the given ID.
var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepository persists the purchase records produced after a commit.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, claimID string) (*models.Claim, error)
}

type mongoClaimRepo struct {
	coll *mongo.Collection
}

// NewMongoClaimRepo constructs a new MongoDB ClaimRepository.
func NewMongoClaimRepo() ClaimRepository {
	db := database.MongoClient.Database("offerly")
	return &mongoClaimRepo{
		coll: db.Collection("claims"),
	}
}
