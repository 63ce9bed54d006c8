package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
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
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"googlemaps.github.io/maps"
)

const (
	reasonTripCancelled = "trip cancelled by driver"
	reasonTripCompleted = "trip completed"
)

type TripUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	TripRepository repository.TripStore
	Config         *viper.Viper
	Redis          redis.UniversalClient
	Routes         RouteFinder
	Notifier       *ChangeNotifier
	Now            func() time.Time
}

func NewTripUseCase(
	logger log.Log,
	validate *validator.Validate,
	tripRepository repository.TripStore,
	cfg *viper.Viper,
	redisClient redis.UniversalClient,
	routes RouteFinder,
	notifier *ChangeNotifier,
) *TripUseCase {
	return &TripUseCase{
		Log:            logger,
		Validate:       validate,
		TripRepository: tripRepository,
		Config:         cfg,
		Redis:          redisClient,
		Routes:         routes,
		Notifier:       notifier,
		Now:            time.Now,
	}
}

func (c *TripUseCase) Create(ctx context.Context, request *model.CreateTripRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		c.Log.Error("trip-usecase", err.Error(), "Create", utils.ConvertString(request))
		return result
	}

	now := c.Now()
	if !request.DepartureTime.After(now) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "departure time must be in the future"
		result.Error = errObj
		return result
	}
	price, err := commission.AmountFromFloat(request.Price)
	if err != nil || price <= 0 {
		errObj := httpError.NewBadRequest()
		errObj.Message = "price must be a positive amount"
		result.Error = errObj
		return result
	}

	trip := &entity.Trip{
		ID:                 uuid.NewString(),
		DriverID:           request.DriverID,
		DepartureCity:      request.Departure.City,
		DepartureAddress:   request.Departure.Address,
		DepartureLat:       request.Departure.Latitude,
		DepartureLng:       request.Departure.Longitude,
		DestinationCity:    request.Destination.City,
		DestinationAddress: request.Destination.Address,
		DestinationLat:     request.Destination.Latitude,
		DestinationLng:     request.Destination.Longitude,
		DepartureTime:      request.DepartureTime.UTC(),
		SeatCapacity:       request.AvailableSeats,
		AvailableSeats:     request.AvailableSeats,
		Price:              price,
		PriceType:          entity.PriceType(request.PriceType),
		Status:             entity.TripActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := c.TripRepository.Create(ctx, trip); err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("trip-usecase", fmt.Sprintf("failed to create trip: %v", err), "Create", request.DriverID)
		return result
	}

	observability.TripTransitions.WithLabelValues(string(trip.Status)).Inc()
	c.Log.Info("trip-usecase", "trip created", "Create", trip.ID)
	c.Notifier.TripChanged(trip, model.EventTripCreated)

	result.Data = converter.TripToResponse(trip)
	return result
}

func (c *TripUseCase) Get(ctx context.Context, request *model.TripActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	trip, err := c.TripRepository.FindByID(ctx, request.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("trip-usecase", err.Error(), "Get", request.TripID)
		return result
	}

	result.Data = converter.TripToResponse(trip)
	return result
}

func (c *TripUseCase) ListMine(ctx context.Context, request *model.ListTripsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	filter := entity.TripFilter{DriverID: &request.DriverID}
	if request.Status != "" {
		status := entity.TripStatus(request.Status)
		filter.Status = &status
	}
	trips, err := c.TripRepository.List(ctx, filter)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("trip-usecase", err.Error(), "ListMine", request.DriverID)
		return result
	}

	result.Data = converter.TripsToResponse(trips)
	return result
}

func (c *TripUseCase) Cancel(ctx context.Context, request *model.TripActionRequest) utils.Result {
	return c.close(ctx, request, "Cancel")
}

func (c *TripUseCase) Complete(ctx context.Context, request *model.TripActionRequest) utils.Result {
	return c.close(ctx, request, "Complete")
}

// close moves an active trip to cancelled or completed and settles the
// bookings and negotiations still attached to it.
func (c *TripUseCase) close(ctx context.Context, request *model.TripActionRequest, scope string) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	trip, err := c.TripRepository.FindByID(ctx, request.TripID)
	if err != nil {
		result.Error = toHTTPError(err)
		c.Log.Error("trip-usecase", err.Error(), scope, request.TripID)
		return result
	}
	if !trip.OwnedBy(request.UserID) {
		errObj := httpError.NewForbidden()
		errObj.Message = "only the driver can change this trip"
		result.Error = errObj
		return result
	}

	now := c.Now()
	version := trip.Version
	reason, eventType := reasonTripCancelled, model.EventTripCancelled
	if scope == "Complete" {
		reason, eventType = reasonTripCompleted, model.EventTripCompleted
		err = trip.Complete(now)
	} else {
		err = trip.Cancel(now)
	}
	if err != nil {
		result.Error = toHTTPError(err)
		return result
	}

	closeout, err := c.TripRepository.CloseTrip(ctx, trip, version, reason, now)
	if err != nil {
		countConflict("trip", err)
		result.Error = toHTTPError(err)
		c.Log.Error("trip-usecase", err.Error(), scope, request.TripID)
		return result
	}

	observability.TripTransitions.WithLabelValues(string(trip.Status)).Inc()
	c.Log.Info("trip-usecase", fmt.Sprintf("trip %s, %d bookings and %d negotiations settled", trip.Status, len(closeout.Bookings), len(closeout.Negotiations)), scope, trip.ID)

	c.Notifier.TripChanged(trip, eventType)
	for i := range closeout.Bookings {
		b := &closeout.Bookings[i]
		observability.BookingTransitions.WithLabelValues(string(b.Status)).Inc()
		bookingEvent := model.EventBookingCancelled
		if b.Status == entity.BookingCompleted {
			bookingEvent = model.EventBookingCompleted
		}
		c.Notifier.BookingChanged(b, trip.DriverID, bookingEvent)
	}
	for i := range closeout.Negotiations {
		observability.NegotiationTransitions.WithLabelValues(string(entity.NegotiationExpired)).Inc()
		c.Notifier.NegotiationChanged(&closeout.Negotiations[i], model.EventNegotiationExpired)
	}

	result.Data = converter.TripToResponse(trip)
	return result
}

// SuggestPrice prices a route from its driving distance. Results are cached
// per origin/destination pair for an hour.
func (c *TripUseCase) SuggestPrice(ctx context.Context, request *model.PriceSuggestionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		result.Error = validationError(err)
		return result
	}

	key := fmt.Sprintf("TRIP:PRICE:%.4f,%.4f:%.4f,%.4f",
		request.Origin.Latitude, request.Origin.Longitude, request.Destination.Latitude, request.Destination.Longitude)

	if cached, err := c.Redis.Get(ctx, key).Result(); err == nil {
		var summary model.RouteSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			result.Data = &summary
			return result
		}
	} else if !errors.Is(err, redis.Nil) {
		c.Log.Error("trip-usecase", err.Error(), "SuggestPrice", key)
	}

	if c.Routes == nil {
		errObj := httpError.NewServiceUnavailable()
		errObj.Message = "price suggestion is not configured"
		result.Error = errObj
		return result
	}

	summary, err := c.getRouteSuggestions(ctx, request.Origin, request.Destination)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no route found: %v", err)
		result.Error = errObj
		c.Log.Error("trip-usecase", errObj.Message, "SuggestPrice", utils.ConvertString(request))
		return result
	}
	summary.Route.Origin = request.Origin
	summary.Route.Destination = request.Destination

	payload, err := json.Marshal(summary)
	if err == nil {
		if err := c.Redis.Set(ctx, key, payload, 60*time.Minute).Err(); err != nil {
			c.Log.Error("trip-usecase", err.Error(), "SuggestPrice", key)
		}
	}

	result.Data = summary
	return result
}

func (c *TripUseCase) getRouteSuggestions(ctx context.Context, origin, destination model.LocationRequest) (*model.RouteSummary, error) {
	req := &maps.DirectionsRequest{
		Origin:       fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		Destination:  fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
	}

	routes, _, err := c.Routes.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("error making directions request: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes found")
	}

	pricePerKm := c.Config.GetFloat64("pricing.price_per_km")
	minPrice, maxPrice := math.MaxFloat64, -math.MaxFloat64
	var bestRouteKm, bestRoutePrice, bestRouteMinutes float64

	for _, route := range routes {
		var meters, seconds float64
		for _, leg := range route.Legs {
			meters += float64(leg.Distance.Meters)
			seconds += leg.Duration.Seconds()
		}

		km := meters / 1000.0
		price := roundPrice(km * pricePerKm)
		minPrice = math.Min(minPrice, price)
		maxPrice = math.Max(maxPrice, price)

		if bestRouteKm == 0 || price < bestRoutePrice {
			bestRouteKm = km
			bestRoutePrice = price
			bestRouteMinutes = seconds / 60
		}
	}

	minutes := int(math.Ceil(bestRouteMinutes))
	return &model.RouteSummary{
		MinPrice:          minPrice,
		MaxPrice:          maxPrice,
		BestRouteKm:       math.Round(bestRouteKm*10) / 10,
		BestRoutePrice:    bestRoutePrice,
		BestRouteDuration: utils.FormatDuration(minutes),
		Duration:          minutes,
	}, nil
}

func roundPrice(v float64) float64 {
	amount, err := commission.AmountFromFloat(v)
	if err != nil {
		return 0
	}
	return amount.Float64()
}
