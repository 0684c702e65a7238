package worker

import (
	"FileVault/config"
	"FileVault/internal/mq"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/internal/task"
	"FileVault/model"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type dlqMessage struct {
	Bucket   string    `json:"bucket"`
	BlobKey  string    `json:"blob_key"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunCleanupWorker consumes orphan-blob cleanup tasks from RabbitMQ.
func RunCleanupWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(mq.QueueTasks, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.CleanupConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.CleanupBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.CleanupRate
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
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("cleanup worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleCleanupMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleCleanupMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.CleanupMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("cleanup worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := removeOrphanBlob(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if err := scheduleRetry(ctx, client, msg, err); err != nil {
			log.Printf("cleanup worker: retry schedule failed: %v", err)
			_ = delivery.Nack(false, true)
			return
		}
	}

	_ = delivery.Ack(false)
}

// removeOrphanBlob deletes the blob unless a file row now references the
// key. The compensation message may race a slow metadata insert, so the
// reference check runs at delivery time rather than trusting the enqueue.
func removeOrphanBlob(ctx context.Context, msg task.CleanupMessage) error {
	var file model.File
	err := repo.Db.Where("blob_key = ?", msg.BlobKey).First(&file).Error
	if err == nil {
		log.Printf("cleanup worker: blob %s is referenced, skipping", msg.BlobKey)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rmCtx, cancel := context.WithTimeout(ctx, config.AppConfig.StorageTimeout)
	defer cancel()
	if err := storage.Default.RemoveObject(rmCtx, msg.Bucket, msg.BlobKey); err != nil {
		return err
	}
	log.Printf("cleanup worker: removed orphan blob %s", msg.BlobKey)
	return nil
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg task.CleanupMessage, procErr error) error {
	maxRetry := config.AppConfig.CleanupRetryMax
	if msg.Attempt >= maxRetry {
		return publishDLQ(ctx, client, msg, procErr)
	}

	delays := config.AppConfig.CleanupRetryDelays
	delay := 10 * time.Second
	if len(delays) > 0 {
		idx := msg.Attempt
		if idx >= len(delays) {
			idx = len(delays) - 1
		}
		delay = delays[idx]
	}

	msg.Attempt++
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}

func publishDLQ(ctx context.Context, client *mq.Client, msg task.CleanupMessage, procErr error) error {
	body, err := json.Marshal(dlqMessage{
		Bucket:   msg.Bucket,
		BlobKey:  msg.BlobKey,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return client.PublishDLQ(ctx, body)
}
