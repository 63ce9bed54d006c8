package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeNegotiationExpire = "negotiation:expire"

// ExpiryPayload pins the task to the negotiation version it was scheduled for,
// any later offer makes the task stale.
type ExpiryPayload struct {
	NegotiationID string `json:"negotiationId"`
	Version       int    `json:"version"`
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type NegotiationExpiryScheduler struct {
	Client Enqueuer
	Queue  string
}

func NewNegotiationExpiryScheduler(client Enqueuer, queue string) *NegotiationExpiryScheduler {
	if queue == "" {
		queue = "default"
	}
	return &NegotiationExpiryScheduler{Client: client, Queue: queue}
}

func NewExpiryTask(payload ExpiryPayload, fireAt time.Time, queue string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNegotiationExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.Queue(queue),
		asynq.TaskID(fmt.Sprintf("%s:%d", payload.NegotiationID, payload.Version)),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func (s *NegotiationExpiryScheduler) ScheduleExpiry(ctx context.Context, negotiationID string, version int, at time.Time) error {
	task, opts, err := NewExpiryTask(ExpiryPayload{NegotiationID: negotiationID, Version: version}, at, s.Queue)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func ParseExpiryPayload(task *asynq.Task) (ExpiryPayload, error) {
	var p ExpiryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeNegotiationExpire, err)
	}
	if p.NegotiationID == "" {
		return p, fmt.Errorf("invalid %s payload: missing negotiation id", TypeNegotiationExpire)
	}
	return p, nil
}
