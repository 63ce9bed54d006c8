package usecase

import (
	"context"
	"fmt"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	"carpool-service/src/internal/model/converter"
	"carpool-service/src/internal/observability"
	"carpool-service/src/internal/repository"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type BookingUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	TripRepository    repository.TripStore
	BookingRepository repository.BookingStore
	Rates             RateSource
	Config            *viper.Viper
	Notifier          *ChangeNotifier
	Now               func() time.Time
}

func NewBookingUseCase(
	logger log.Log,
	validate *validator.Validate,
	tripRepository repository.TripStore,
	bookingRepository repository.BookingStore,
	rates RateSource,
	cfg *viper.Viper,
	notifier *ChangeNotifier,
) *BookingUseCase {
	return &BookingUseCase{
		Log:               logger,
		Validate:          validate,
		TripRepository:    tripRepository,
		BookingRepository: bookingRepository,
		Rates:             rates,
		Config:            cfg,
		Notifier:          notifier,
		Now:               time.Now,
	}
}

// Create books seats at the listed price. The commission rate in effect now
// is frozen on the booking.
func (c *BookingUseCase) Create(ctx context.Context, request *model.CreateBookingRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		c.Log.Error("booking-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	trip, err := c.TripRepository.FindByID(ctx, request.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "Create", request.TripID)
		return result
	}

	rate, err := c.Rates.CurrentRate(ctx)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", fmt.Sprintf("failed to read commission rate: %v", err), "Create", "")
		return result
	}

	now := c.Now()
	booking, err := entity.NewBooking(uuid.NewString(), trip, request.PassengerID, request.Seats, trip.PriceFor(request.Seats), rate, entity.BookingPending, now)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	if err := c.BookingRepository.Reserve(ctx, booking); err != nil {
		countConflict("booking", err)
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	observability.BookingTransitions.WithLabelValues(string(booking.Status)).Inc()
	c.Log.Info("booking-usecase", "booking created", "Create", booking.ID)
	c.Notifier.BookingChanged(booking, trip.DriverID, model.EventBookingCreated)

	result.Data = converter.BookingToResponse(booking)
	return result
}

func (c *BookingUseCase) Get(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	booking, _, errObj := c.loadParticipant(ctx, request.BookingID, request.UserID, "Get")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	result.Data = converter.BookingToResponse(booking)
	return result
}

func (c *BookingUseCase) List(ctx context.Context, request *model.ListBookingsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	filter := entity.BookingFilter{PassengerID: &request.PassengerID}
	if request.Status != "" {
		status := entity.BookingStatus(request.Status)
		filter.Status = &status
	}
	bookings, err := c.BookingRepository.List(ctx, filter)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "List", request.PassengerID)
		return result
	}

	result.Data = converter.BookingsToResponse(bookings)
	return result
}

func (c *BookingUseCase) ListByTrip(ctx context.Context, request *model.ListTripBookingsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	trip, err := c.TripRepository.FindByID(ctx, request.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	if !trip.OwnedBy(request.UserID) {
		errObj := httpError.NewForbidden()
		errObj.Message = "only the driver can list the bookings of this trip"
		result.Error = errObj
		return result
	}

	bookings, err := c.BookingRepository.List(ctx, entity.BookingFilter{TripID: &trip.ID})
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "ListByTrip", trip.ID)
		return result
	}

	result.Data = converter.BookingsToResponse(bookings)
	return result
}

func (c *BookingUseCase) Confirm(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	booking, trip, errObj := c.loadParticipant(ctx, request.BookingID, request.UserID, "Confirm")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if !trip.OwnedBy(request.UserID) {
		errObj := httpError.NewForbidden()
		errObj.Message = "only the driver can confirm a booking"
		result.Error = errObj
		return result
	}

	version := booking.Version
	if err := booking.Confirm(c.Now()); err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	if err := c.BookingRepository.Confirm(ctx, booking, version); err != nil {
		countConflict("booking", err)
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "Confirm", booking.ID)
		return result
	}

	observability.BookingTransitions.WithLabelValues(string(booking.Status)).Inc()
	observability.CommissionCollected.Add(float64(booking.AppCommission))
	c.Log.Info("booking-usecase", "booking confirmed", "Confirm", booking.ID)
	c.Notifier.BookingChanged(booking, trip.DriverID, model.EventBookingConfirmed)

	result.Data = converter.BookingToResponse(booking)
	return result
}

// Cancel is open to the passenger and to the driver of the trip, until departure.
func (c *BookingUseCase) Cancel(ctx context.Context, request *model.CancelBookingRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	booking, trip, errObj := c.loadParticipant(ctx, request.BookingID, request.UserID, "Cancel")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	if !booking.IsActive() {
		errObj := httpError.NewInvalidState()
		errObj.Message = fmt.Sprintf("booking is already %s", booking.Status)
		result.Error = errObj
		return result
	}

	now := c.Now()
	if trip.HasDeparted(now) {
		errObj := httpError.NewInvalidState()
		errObj.Message = "bookings cannot be cancelled after departure"
		result.Error = errObj
		return result
	}
	if c.requireCancelLocation() && request.UserID == booking.PassengerID &&
		booking.Status == entity.BookingConfirmed && (request.Latitude == nil || request.Longitude == nil) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "location is required to cancel a confirmed booking"
		result.Error = errObj
		return result
	}

	version := booking.Version
	if err := booking.Cancel(request.UserID, request.Reason, request.Latitude, request.Longitude, now); err != nil {
		result.Error = toHTTPError(err)
		return result
	}
	if err := c.BookingRepository.Cancel(ctx, booking, version); err != nil {
		countConflict("booking", err)
		result.Error = toHTTPError(err)
		c.Log.Error("booking-usecase", err.Error(), "Cancel", booking.ID)
		return result
	}

	observability.BookingTransitions.WithLabelValues(string(booking.Status)).Inc()
	c.Log.Info("booking-usecase", "booking cancelled", "Cancel", booking.ID)
	c.Notifier.BookingChanged(booking, trip.DriverID, model.EventBookingCancelled)

	result.Data = converter.BookingToResponse(booking)
	return result
}

func (c *BookingUseCase) requireCancelLocation() bool {
	return c.Config != nil && c.Config.GetBool("booking.require_cancel_location")
}

// loadParticipant returns the booking and its trip when userID is the
// passenger or the driver.
func (c *BookingUseCase) loadParticipant(ctx context.Context, bookingID, userID, scope string) (*entity.Booking, *entity.Trip, *httpError.CommonError) {
	booking, err := c.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), scope, bookingID)
		return nil, nil, toHTTPError(err)
	}
	trip, err := c.TripRepository.FindByID(ctx, booking.TripID)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), scope, booking.TripID)
		return nil, nil, toHTTPError(err)
	}
	if booking.PassengerID != userID && !trip.OwnedBy(userID) {
		errObj := httpError.NewForbidden()
		errObj.Message = "you are not part of this booking"
		return nil, nil, errObj
	}
	return booking, trip, nil
}
