package worker

import (
	"context"
	"fmt"

	"carpool-service/src/internal/gateway/scheduler"
	"carpool-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

type NegotiationExpirer interface {
	ExpireIfIdle(ctx context.Context, negotiationID string, version int) error
}

type ExpiryHandler struct {
	Log     log.Log
	Expirer NegotiationExpirer
}

func NewExpiryHandler(expirer NegotiationExpirer, logger log.Log) *ExpiryHandler {
	return &ExpiryHandler{
		Log:     logger,
		Expirer: expirer,
	}
}

func (h *ExpiryHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(scheduler.TypeNegotiationExpire, h.ProcessTask)
}

// ProcessTask expires the negotiation named by the task. Malformed payloads
// are not retried; store failures are.
func (h *ExpiryHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := scheduler.ParseExpiryPayload(task)
	if err != nil {
		h.Log.Error("expiry-worker", err.Error(), "ProcessTask", string(task.Payload()))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.Expirer.ExpireIfIdle(ctx, payload.NegotiationID, payload.Version); err != nil {
		h.Log.Error("expiry-worker", fmt.Sprintf("failed to expire negotiation: %v", err), "ProcessTask", payload.NegotiationID)
		return err
	}
	return nil
}
