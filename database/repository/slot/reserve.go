// File: database/repository/slot/reserve.go
package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// reserveFilter matches the slot only while it still has room for count more
// occupants, so the $inc below can never push bookedCount past capacity.
func reserveFilter(slotID string, count int) bson.M {
	return bson.M{
		"id": slotID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$bookedCount", count}},
				"$capacity",
			},
		},
	}
}

func (r *mongoSlotRepo) TryReserve(ctx context.Context, slotID string, count int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$inc": bson.M{"bookedCount": count}}
	res, err := r.coll.UpdateOne(ctx, reserveFilter(slotID, count), update)
	if err != nil {
		return fmt.Errorf("failed to reserve %d on slot %s: %w", count, slotID, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing slot from a lost capacity race.
		if _, err := r.GetByID(ctx, slotID); err != nil {
			if errors.Is(err, ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("failed to verify slot %s after reserve miss: %w", slotID, err)
		}
		return ErrCapacityConflict
	}
	return nil
}

func (r *mongoSlotRepo) ReserveMany(ctx context.Context, allocs []Allocation) error {
	if len(allocs) == 0 {
		return nil
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		for _, a := range allocs {
			update := bson.M{"$inc": bson.M{"bookedCount": a.Count}}
			res, err := r.coll.UpdateOne(sc, reserveFilter(a.SlotID, a.Count), update)
			if err != nil {
				return fmt.Errorf("failed to reserve %d on slot %s: %w", a.Count, a.SlotID, err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("slot %s: %w", a.SlotID, ErrCapacityConflict)
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrCapacityConflict) {
			return err
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}

	return nil
}
