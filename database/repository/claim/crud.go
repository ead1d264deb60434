// File: database/repository/claim/crud.go
package claimRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"offerly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoClaimRepo) Create(ctx context.Context, claim *models.Claim) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if claim.ID == "" {
		claim.ID = uuid.New().String()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, claim); err != nil {
		return fmt.Errorf("failed to insert claim %s: %w", claim.ID, err)
	}
	return nil
}

func (r *mongoClaimRepo) GetByID(ctx context.Context, claimID string) (*models.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var claim models.Claim
	err := r.coll.FindOne(ctx, bson.M{"id": claimID}).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to fetch claim %s: %w", claimID, err)
	}
	return &claim, nil
}
