package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest snapshot of the service's backing stores: the
// slot/claim database and the Redis instance holding booking sessions.
type HealthStatus struct {
	SlotStore    bool      `json:"slotStore"`
	SessionCache bool      `json:"sessionCache"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings the backing stores once a minute and updates the
// in-memory snapshot served by the health endpoint.
func StartHealthMonitor(sessionCache *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			snapshot := HealthStatus{
				SlotStore:    mongoClient.Ping(ctx, nil) == nil,
				SessionCache: sessionCache.Ping(ctx).Err() == nil,
				CheckedAt:    time.Now(),
			}

			mu.Lock()
			currentHealth = snapshot
			mu.Unlock()
		}
	}()
}
