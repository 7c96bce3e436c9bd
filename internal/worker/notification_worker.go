package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

const (
	popTimeout   = 5 * time.Second
	retryBackoff = 2 * time.Second
)

// NotificationWorker consumes announcement fan-out jobs from the Redis
// queue, materializes per-student notification rows in one batched insert,
// and publishes each notification on the student's live channel. A job
// whose insert fails is requeued so no announcement silently drops.
type NotificationWorker struct {
	redis            *redis.Client
	studentRepo      *repository.StudentRepository
	notificationRepo *repository.NotificationRepository
	logger           zerolog.Logger
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(
	redisClient *redis.Client,
	studentRepo *repository.StudentRepository,
	notificationRepo *repository.NotificationRepository,
	logger zerolog.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		redis:            redisClient,
		studentRepo:      studentRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With().Str("worker", "notification_fanout").Logger(),
	}
}

// Run processes jobs until ctx is cancelled. The in-flight job finishes
// before Run returns, so shutdown never drops a popped job.
func (w *NotificationWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("notification fanout worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification fanout worker stopped")
			return
		default:
		}

		result, err := w.redis.BLPop(ctx, popTimeout, config.WorkerKey.NotificationFanoutQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Error().Err(err).Msg("queue pop failed")
			time.Sleep(retryBackoff)
			continue
		}

		// BLPop returns [key, value].
		if len(result) != 2 {
			continue
		}
		w.process(result[1])
	}
}

func (w *NotificationWorker) process(payload string) {
	// Detached from the consumer context so a shutdown signal does not
	// abort a job already popped from the queue.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var job model.NotificationFanoutJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		w.logger.Error().Err(err).Str("payload", payload).Msg("dropping undecodable fanout job")
		return
	}

	studentIDs, err := w.studentRepo.ListIDsByBatch(ctx, job.BatchID.String())
	if err != nil {
		w.logger.Error().Err(err).Str("announcement_id", job.AnnouncementID.String()).Msg("roster lookup failed, requeueing")
		w.requeue(ctx, payload)
		return
	}
	if len(studentIDs) == 0 {
		w.logger.Debug().Str("announcement_id", job.AnnouncementID.String()).Msg("no enrolled students, nothing to fan out")
		return
	}

	if err := w.notificationRepo.CreateBatch(ctx, job.AnnouncementID, job.Title, job.Body, studentIDs); err != nil {
		w.logger.Error().Err(err).Str("announcement_id", job.AnnouncementID.String()).Msg("notification insert failed, requeueing")
		w.requeue(ctx, payload)
		return
	}

	w.publishLive(ctx, &job, studentIDs)
	w.logger.Info().
		Str("announcement_id", job.AnnouncementID.String()).
		Int("students", len(studentIDs)).
		Msg("announcement fanned out")
}

// publishLive pushes the notification onto each connected student's
// channel. Publish failures are logged only; the rows are already durable.
func (w *NotificationWorker) publishLive(ctx context.Context, job *model.NotificationFanoutJob, studentIDs []int) {
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}
	for _, studentID := range studentIDs {
		channel := config.CacheKey.NotificationChannel(studentID)
		if err := w.redis.Publish(ctx, channel, payload).Err(); err != nil {
			w.logger.Warn().Err(err).Int("student_id", studentID).Msg("live publish failed")
		}
	}
}

func (w *NotificationWorker) requeue(ctx context.Context, payload string) {
	if err := w.redis.RPush(ctx, config.WorkerKey.NotificationFanoutQueue, payload).Err(); err != nil {
		w.logger.Error().Err(err).Str("payload", payload).Msg("requeue failed, job lost")
	}
	time.Sleep(retryBackoff)
}
