package worker

import (
	"GoVault/config"
	"GoVault/internal/mq"
	"GoVault/internal/repo"
	"GoVault/internal/service"
	"GoVault/internal/storage"
	"GoVault/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	OrphanID uint64    `json:"orphan_id"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

const requeueStaleAfter = 10 * time.Minute

// RunReconcileWorker consumes orphan-cleanup tasks from RabbitMQ and
// deletes the backing objects, pacing deletes with a rate limiter.
func RunReconcileWorker(ctx context.Context, reconciler *service.Reconciler, rdb *redis.Client) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	// Crash recovery: rows recorded but never published get a second
	// chance, at startup and periodically. A failed publish after a
	// synchronous delete otherwise leaves the row waiting for a restart.
	requeueStaleOrphans(ctx, reconciler)
	requeueTicker := time.NewTicker(requeueStaleAfter)
	defer requeueTicker.Stop()

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueTasks,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.ReconcileWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.ReconcileBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.ReconcileRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-requeueTicker.C:
			requeueStaleOrphans(ctx, reconciler)
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("reconcile worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleReconcileMessage(ctx, client, reconciler, rdb, limiter, d)
			}(delivery)
		}
	}
}

func requeueStaleOrphans(ctx context.Context, reconciler *service.Reconciler) {
	if requeued, err := reconciler.RequeueStale(ctx, requeueStaleAfter); err != nil {
		log.Printf("reconcile worker: requeue stale failed: %v", err)
	} else if requeued > 0 {
		log.Printf("reconcile worker: requeued %d stale orphans", requeued)
	}
}

func handleReconcileMessage(ctx context.Context, client *mq.Client, reconciler *service.Reconciler, rdb *redis.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg service.ReconcileMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("reconcile worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	// One consumer per orphan at a time; duplicates requeue.
	lock := repo.NewRedisLock(rdb, fmt.Sprintf("lock:orphan:%d", msg.OrphanID), 30*time.Second)
	if err := lock.Lock(ctx); err != nil {
		_ = delivery.Nack(false, true)
		return
	}
	defer lock.Unlock(ctx)

	if err := reconciler.Process(ctx, msg.OrphanID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if shouldRetry(err) {
			if err := scheduleRetry(ctx, client, reconciler, msg, err); err != nil {
				log.Printf("reconcile worker: retry schedule failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		} else {
			if err := markFailed(ctx, client, reconciler, msg, err); err != nil {
				log.Printf("reconcile worker: mark failed failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		}
	}

	_ = delivery.Ack(false)
}

func shouldRetry(err error) bool {
	if errors.Is(err, service.ErrStorage) {
		return storage.IsTransient(err)
	}
	// Database errors reaching here are retried too.
	return true
}

func scheduleRetry(ctx context.Context, client *mq.Client, reconciler *service.Reconciler, msg service.ReconcileMessage, procErr error) error {
	maxRetry := config.AppConfig.ReconcileRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return markFailed(ctx, client, reconciler, msg, procErr)
	}

	delay := pickRetryDelay(nextAttempt, config.AppConfig.ReconcileRetryDelays)
	if err := reconciler.MarkRetrying(msg.OrphanID, nextAttempt, procErr, time.Now().Add(delay)); err != nil {
		return err
	}

	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}

func markFailed(ctx context.Context, client *mq.Client, reconciler *service.Reconciler, msg service.ReconcileMessage, procErr error) error {
	orphan, err := reconciler.MarkFailed(msg.OrphanID, procErr)
	if err != nil {
		return err
	}

	dlq := dlqMessage{
		OrphanID: msg.OrphanID,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	if err := client.PublishDLQ(ctx, body); err != nil {
		log.Printf("reconcile worker: dlq publish failed: %v", err)
	}

	if utils.AlertMailConfigured() {
		if err := utils.SendOrphanAlertMail(orphan.BucketName, orphan.StorageKey, procErr.Error()); err != nil {
			log.Printf("reconcile worker: alert mail failed: %v", err)
		}
	}
	return nil
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
