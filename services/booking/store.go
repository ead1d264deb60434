// File: booking/store.go
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"offerly/config"
	"offerly/models"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned when the session is missing or has expired.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// SessionStore persists in-flight booking sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Save(ctx context.Context, session *models.BookingSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions as JSON in Redis with a sliding TTL, so
// abandoned sessions expire on their own.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSessionStore builds a session store on the given client, taking the
// TTL from config.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	minutes := config.AppConfig.SessionTTLMinutes
	if minutes <= 0 {
		minutes = 10
	}
	return &RedisSessionStore{
		Client: client,
		TTL:    time.Duration(minutes) * time.Minute,
	}
}

func (st *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	sessionData, err := st.Client.Get(ctx, sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load booking session %s: %w", sessionID, err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(sessionData), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (st *RedisSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := st.Client.Set(ctx, session.SessionID, sessionData, st.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session %s: %w", session.SessionID, err)
	}
	return nil
}

func (st *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := st.Client.Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session %s: %w", sessionID, err)
	}
	return nil
}
