package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"offerly/config"
	claimRepo "offerly/database/repository/claim"
	"offerly/models"
	"offerly/services/tasks"

	"github.com/hibiken/asynq"
)

// InitClaimWorker runs the async claim worker in background.
func InitClaimWorker(claims claimRepo.ClaimRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisClaimQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRecordClaim, handleRecordClaimTask(claims))

	// Start async worker with retry logic
	go func() {
		log.Println("[ClaimWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ClaimWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ClaimWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleRecordClaimTask(claims claimRepo.ClaimRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var claim models.Claim
		if err := json.Unmarshal(task.Payload(), &claim); err != nil {
			log.Printf("[ClaimWorker] Invalid payload: %v", err)
			return err
		}

		// A redelivered task may already be recorded; inserting again would
		// duplicate the claim.
		if _, err := claims.GetByID(ctx, claim.ID); err == nil {
			log.Printf("[ClaimWorker] Claim %s already recorded, skipping", claim.ID)
			return nil
		} else if !errors.Is(err, claimRepo.ErrClaimNotFound) {
			log.Printf("[ClaimWorker] Failed to check claim %s: %v", claim.ID, err)
			return err
		}

		if err := claims.Create(ctx, &claim); err != nil {
			log.Printf("[ClaimWorker] Failed to record claim %s: %v", claim.ID, err)
			return err
		}

		log.Printf("[ClaimWorker] Recorded claim %s for offer %s (%d reservations)",
			claim.ID, claim.OfferID, len(claim.Reservations))
		return nil
	}
}
