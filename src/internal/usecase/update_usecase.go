package usecase

import (
	"context"
	"time"

	"carpool-service/src/internal/model"
	"carpool-service/src/internal/model/converter"
	"carpool-service/src/internal/repository"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// DefaultCommitWindow bounds how long a write may stay uncommitted after
// stamping updated_at.
const DefaultCommitWindow = 30 * time.Second

type UpdateUseCase struct {
	Log                   log.Log
	Validate              *validator.Validate
	BookingRepository     repository.BookingStore
	NegotiationRepository repository.NegotiationStore
	CommitWindow          time.Duration
	Now                   func() time.Time
}

func NewUpdateUseCase(
	logger log.Log,
	validate *validator.Validate,
	bookingRepository repository.BookingStore,
	negotiationRepository repository.NegotiationStore,
	commitWindow time.Duration,
) *UpdateUseCase {
	if commitWindow <= 0 {
		commitWindow = DefaultCommitWindow
	}
	return &UpdateUseCase{
		Log:                   logger,
		Validate:              validate,
		BookingRepository:     bookingRepository,
		NegotiationRepository: negotiationRepository,
		CommitWindow:          commitWindow,
		Now:                   time.Now,
	}
}

// Since lists negotiations and bookings involving the caller that changed
// after request.Since. updated_at is stamped before the write commits, so the
// returned cursor trails the clock by CommitWindow: a row stamped earlier but
// committed after this poll is still picked up by the next one. Rows inside
// the window come back again; clients dedupe them by id and version.
func (c *UpdateUseCase) Since(ctx context.Context, request *model.UpdatesRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	serverTime := c.Now().Add(-c.CommitWindow)
	negotiations, err := c.NegotiationRepository.ListUpdatedSince(ctx, request.UserID, request.Since)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("update-usecase", err.Error(), "Since", request.UserID)
		return result
	}
	bookings, err := c.BookingRepository.ListUpdatedSince(ctx, request.UserID, request.Since)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("update-usecase", err.Error(), "Since", request.UserID)
		return result
	}

	result.Data = &model.UpdatesResponse{
		ServerTime:   serverTime,
		Negotiations: converter.NegotiationsToResponse(negotiations),
		Bookings:     converter.BookingsToResponse(bookings),
	}
	return result
}
