package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskRecord is the asynq task type carrying one archive log entry.
// Defined here rather than in the jobs package so the worker handler can
// depend on audit without a cycle.
const TaskRecord = "audit:record"

// RecorderPort is what mutating services depend on.
type RecorderPort interface {
	Record(ctx context.Context, entry Entry) error
}

// Recorder writes archive log entries off the caller's critical path. When a
// queue client is configured entries are enqueued for the worker; otherwise,
// or when enqueueing fails, the entry is inserted synchronously. Either way
// the caller treats a returned error as a warning, never a failure.
type Recorder struct {
	queue  *asynq.Client
	repo   Repository
	logger *slog.Logger
}

// NewRecorder builds a Recorder. queue may be nil.
func NewRecorder(queue *asynq.Client, repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{queue: queue, repo: repo, logger: logger}
}

// Record persists the entry best-effort.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if r == nil || r.repo == nil {
		return errors.New("audit: recorder not configured")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if r.queue != nil {
		task, err := NewRecordTask(entry)
		if err == nil {
			if _, err = r.queue.Enqueue(task, asynq.MaxRetry(5)); err == nil {
				return nil
			}
		}
		if r.logger != nil {
			r.logger.Warn("audit enqueue failed, falling back to direct insert", slog.Any("error", err))
		}
	}
	return r.repo.Insert(ctx, entry)
}

// NewRecordTask wraps an entry into an asynq task.
func NewRecordTask(entry Entry) (*asynq.Task, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecord, body), nil
}

// NewRecordHandler returns the worker-side handler persisting queued entries.
func NewRecordHandler(repo Repository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var entry Entry
		if err := json.Unmarshal(t.Payload(), &entry); err != nil {
			return asynq.SkipRetry
		}
		return repo.Insert(ctx, entry)
	}
}
