package tasks

import (
	"encoding/json"
	"fmt"

	"offerly/config"
	"offerly/models"

	"github.com/hibiken/asynq"
)

const TypeRecordClaim = "claim:record"

// NewRecordClaimTask builds the queue task carrying a committed claim to the
// purchase pipeline.
func NewRecordClaimTask(claim models.Claim) (*asynq.Task, error) {
	b, err := json.Marshal(claim)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRecordClaim, b), nil
}

// AsynqClaimQueue enqueues committed claims onto the Redis-backed task queue.
type AsynqClaimQueue struct {
	client *asynq.Client
}

func NewAsynqClaimQueue() *AsynqClaimQueue {
	return &AsynqClaimQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisClaimQueueDB,
		}),
	}
}

func (q *AsynqClaimQueue) EnqueueClaim(claim models.Claim) error {
	task, err := NewRecordClaimTask(claim)
	if err != nil {
		return fmt.Errorf("failed to build claim task: %w", err)
	}
	if _, err := q.client.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue claim %s: %w", claim.ID, err)
	}
	return nil
}
