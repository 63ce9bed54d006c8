package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/model/converter"
	"carpool-service/src/internal/observability"
	"carpool-service/src/internal/repository"
	"carpool-service/src/pkg/commission"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultExpiryTimeout = 24 * time.Hour
	defaultSweepInterval = 5 * time.Minute
	sweepBatchSize       = 100
	reasonNoResponse     = "no response"
)

type NegotiationUseCase struct {
	Log                   log.Log
	Validate              *validator.Validate
	TripRepository        repository.TripStore
	NegotiationRepository repository.NegotiationStore
	Rates                 RateSource
	Scheduler             ExpiryScheduler
	Notifier              *ChangeNotifier
	ExpiryTimeout         time.Duration
	SweepInterval         time.Duration
	Now                   func() time.Time
}

func NewNegotiationUseCase(
	logger log.Log,
	validate *validator.Validate,
	tripRepository repository.TripStore,
	negotiationRepository repository.NegotiationStore,
	rates RateSource,
	scheduler ExpiryScheduler,
	notifier *ChangeNotifier,
	expiryTimeout time.Duration,
	sweepInterval time.Duration,
) *NegotiationUseCase {
	if expiryTimeout <= 0 {
		expiryTimeout = defaultExpiryTimeout
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	return &NegotiationUseCase{
		Log:                   logger,
		Validate:              validate,
		TripRepository:        tripRepository,
		NegotiationRepository: negotiationRepository,
		Rates:                 rates,
		Scheduler:             scheduler,
		Notifier:              notifier,
		ExpiryTimeout:         expiryTimeout,
		SweepInterval:         sweepInterval,
		Now:                   time.Now,
	}
}

func (c *NegotiationUseCase) Create(ctx context.Context, request *model.CreateNegotiationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		c.Log.Error("negotiation-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	seats := request.Seats
	if seats == 0 {
		seats = 1
	}
	var proposed *commission.Amount
	if request.ProposedPrice != nil {
		amount, err := commission.AmountFromFloat(*request.ProposedPrice)
		if err != nil {
			result.Error = toHTTPError(err)
			return result
		}
		proposed = &amount
	}

	trip, err := c.TripRepository.FindByID(ctx, request.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("negotiation-usecase", err.Error(), "Create", request.TripID)
		return result
	}

	now := c.Now()
	negotiation, err := entity.NewNegotiation(uuid.NewString(), uuid.NewString(), trip, request.PassengerID, seats, proposed, request.Message, now)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	if err := c.NegotiationRepository.Create(ctx, negotiation); err != nil {
		countConflict("negotiation", err)
		errObj := toHTTPError(err)
		if errors.Is(err, entity.ErrConflict) {
			errObj.Message = "you already have an open negotiation on this trip"
		}
		result.Error = errObj
		c.Log.Error("negotiation-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	c.scheduleExpiry(ctx, negotiation)
	observability.NegotiationTransitions.WithLabelValues(string(negotiation.Status)).Inc()
	c.Log.Info("negotiation-usecase", "negotiation opened", "Create", negotiation.ID)
	c.Notifier.NegotiationChanged(negotiation, model.EventNegotiationCreated)

	result.Data = converter.NegotiationToResponse(negotiation)
	return result
}

func (c *NegotiationUseCase) Get(ctx context.Context, request *model.GetNegotiationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	negotiation, _, errObj := c.loadParticipant(ctx, request.NegotiationID, request.UserID, "Get")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	result.Data = converter.NegotiationToResponse(negotiation)
	return result
}

func (c *NegotiationUseCase) List(ctx context.Context, request *model.ListNegotiationsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	filter := entity.NegotiationFilter{UserID: request.UserID}
	if request.TripID != "" {
		filter.TripID = &request.TripID
	}
	if request.Status != "" {
		status := entity.NegotiationStatus(request.Status)
		filter.Status = &status
	}
	negotiations, err := c.NegotiationRepository.List(ctx, filter)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("negotiation-usecase", err.Error(), "List", request.UserID)
		return result
	}

	result.Data = converter.NegotiationsToResponse(negotiations)
	return result
}

func (c *NegotiationUseCase) CounterOffer(ctx context.Context, request *model.CounterOfferRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}
	price, err := commission.AmountFromFloat(request.CounterPrice)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	negotiation, role, errObj := c.loadParticipant(ctx, request.NegotiationID, request.UserID, "CounterOffer")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	version := negotiation.Version
	if err := negotiation.CounterOffer(role, request.UserID, price, request.Message, uuid.NewString(), c.Now()); err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	if err := c.NegotiationRepository.Update(ctx, negotiation, version); err != nil {
		result.Error = c.writeFailed(err, "CounterOffer", negotiation.ID)
		return result
	}

	c.scheduleExpiry(ctx, negotiation)
	observability.NegotiationTransitions.WithLabelValues("counter_offer").Inc()
	c.Log.Info("negotiation-usecase", fmt.Sprintf("%s countered with %s", role, price), "CounterOffer", negotiation.ID)
	c.Notifier.NegotiationChanged(negotiation, model.EventNegotiationCountered)

	result.Data = converter.NegotiationToResponse(negotiation)
	return result
}

// Accept closes the negotiation and books the seats at the agreed price in a
// single transaction. The booking is confirmed since both parties agreed.
func (c *NegotiationUseCase) Accept(ctx context.Context, request *model.NegotiationReplyRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	negotiation, role, errObj := c.loadParticipant(ctx, request.NegotiationID, request.UserID, "Accept")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	trip, err := c.TripRepository.FindByID(ctx, negotiation.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("negotiation-usecase", err.Error(), "Accept", negotiation.TripID)
		return result
	}

	now := c.Now()
	version := negotiation.Version
	if err := negotiation.Accept(role, request.UserID, request.Message, uuid.NewString(), now); err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	rate, err := c.Rates.CurrentRate(ctx)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("negotiation-usecase", fmt.Sprintf("failed to read commission rate: %v", err), "Accept", "")
		return result
	}
	booking, err := entity.NewBooking(uuid.NewString(), trip, negotiation.PassengerID, negotiation.Seats, negotiation.CurrentOffer, rate, entity.BookingConfirmed, now)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	booking.NegotiationID = &negotiation.ID
	negotiation.BookingID = &booking.ID

	if err := c.NegotiationRepository.Settle(ctx, negotiation, version, booking); err != nil {
		result.Error = c.writeFailed(err, "Accept", negotiation.ID)
		return result
	}

	observability.NegotiationTransitions.WithLabelValues(string(negotiation.Status)).Inc()
	observability.BookingTransitions.WithLabelValues(string(booking.Status)).Inc()
	observability.CommissionCollected.Add(float64(booking.AppCommission))
	c.Log.Info("negotiation-usecase", fmt.Sprintf("accepted at %s, booking %s", negotiation.CurrentOffer, booking.ID), "Accept", negotiation.ID)
	c.Notifier.NegotiationChanged(negotiation, model.EventNegotiationAccepted)
	c.Notifier.BookingChanged(booking, trip.DriverID, model.EventBookingConfirmed)

	result.Data = &model.AcceptNegotiationResponse{
		Negotiation: converter.NegotiationToResponse(negotiation),
		Booking:     converter.BookingToResponse(booking),
	}
	return result
}

func (c *NegotiationUseCase) Reject(ctx context.Context, request *model.NegotiationReplyRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	negotiation, role, errObj := c.loadParticipant(ctx, request.NegotiationID, request.UserID, "Reject")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	version := negotiation.Version
	if err := negotiation.Reject(role, request.UserID, request.Message, uuid.NewString(), c.Now()); err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	if err := c.NegotiationRepository.Update(ctx, negotiation, version); err != nil {
		result.Error = c.writeFailed(err, "Reject", negotiation.ID)
		return result
	}

	observability.NegotiationTransitions.WithLabelValues(string(negotiation.Status)).Inc()
	c.Log.Info("negotiation-usecase", fmt.Sprintf("rejected by %s", role), "Reject", negotiation.ID)
	c.Notifier.NegotiationChanged(negotiation, model.EventNegotiationRejected)

	result.Data = converter.NegotiationToResponse(negotiation)
	return result
}

// ExpireIfIdle expires a negotiation that is still pending at the version an
// expiry task was scheduled for. Stale tasks are dropped silently.
func (c *NegotiationUseCase) ExpireIfIdle(ctx context.Context, negotiationID string, version int) error {
	negotiation, err := c.NegotiationRepository.FindByID(ctx, negotiationID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if negotiation.IsTerminal() || negotiation.Version != version {
		return nil
	}
	return c.expire(ctx, negotiation)
}

// SweepExpired expires every pending negotiation idle for longer than the
// timeout. It covers tasks lost by the queue.
func (c *NegotiationUseCase) SweepExpired(ctx context.Context) int {
	idleBefore := c.Now().Add(-c.ExpiryTimeout)
	negotiations, err := c.NegotiationRepository.ListIdlePending(ctx, idleBefore, sweepBatchSize)
	if err != nil {
		c.Log.Error("negotiation-usecase", fmt.Sprintf("error fetching idle negotiations: %v", err), "SweepExpired", "")
		return 0
	}

	expired := 0
	for i := range negotiations {
		if err := c.expire(ctx, &negotiations[i]); err != nil {
			c.Log.Error("negotiation-usecase", fmt.Sprintf("failed to expire negotiation: %v", err), "SweepExpired", negotiations[i].ID)
			continue
		}
		expired++
	}
	if expired > 0 {
		c.Log.Info("negotiation-usecase", fmt.Sprintf("expired %d idle negotiations", expired), "SweepExpired", "")
	}
	return expired
}

func (c *NegotiationUseCase) RunExpirySweeper(ctx context.Context) {
	ticker := time.NewTicker(c.SweepInterval)
	defer ticker.Stop()

	c.Log.Info("negotiation-usecase", fmt.Sprintf("expiry sweeper started, every %s", c.SweepInterval), "RunExpirySweeper", "")
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("negotiation-usecase", "expiry sweeper stopped", "RunExpirySweeper", "")
			return
		case <-ticker.C:
			c.SweepExpired(ctx)
		}
	}
}

func (c *NegotiationUseCase) expire(ctx context.Context, negotiation *entity.Negotiation) error {
	now := c.Now()
	if !negotiation.IdleSince(c.ExpiryTimeout, now) {
		return nil
	}
	version := negotiation.Version
	if err := negotiation.Expire(reasonNoResponse, uuid.NewString(), now); err != nil {
		return nil
	}
	if err := c.NegotiationRepository.Update(ctx, negotiation, version); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil
		}
		return err
	}

	observability.NegotiationTransitions.WithLabelValues(string(negotiation.Status)).Inc()
	c.Notifier.NegotiationChanged(negotiation, model.EventNegotiationExpired)
	return nil
}

func (c *NegotiationUseCase) scheduleExpiry(ctx context.Context, negotiation *entity.Negotiation) {
	if c.Scheduler == nil {
		return
	}
	at := negotiation.UpdatedAt.Add(c.ExpiryTimeout)
	if err := c.Scheduler.ScheduleExpiry(ctx, negotiation.ID, negotiation.Version, at); err != nil {
		c.Log.Error("negotiation-usecase", fmt.Sprintf("failed to schedule expiry: %v", err), "scheduleExpiry", negotiation.ID)
	}
}

func (c *NegotiationUseCase) writeFailed(err error, scope, negotiationID string) *httpError.CommonError {
	countConflict("negotiation", err)
	errObj := toHTTPError(err)
	if errors.Is(err, entity.ErrConflict) {
		errObj.Message = "this negotiation was just updated, please refresh"
	}
	c.Log.Error("negotiation-usecase", err.Error(), scope, negotiationID)
	return errObj
}

func (c *NegotiationUseCase) loadParticipant(ctx context.Context, negotiationID, userID, scope string) (*entity.Negotiation, entity.Party, *httpError.CommonError) {
	negotiation, err := c.NegotiationRepository.FindByID(ctx, negotiationID)
	if err != nil {
		c.Log.Error("negotiation-usecase", err.Error(), scope, negotiationID)
		return nil, "", toHTTPError(err)
	}
	role, err := negotiation.RoleOf(userID)
	if err != nil {
		return nil, "", toHTTPError(err)
	}
	return negotiation, role, nil
}
