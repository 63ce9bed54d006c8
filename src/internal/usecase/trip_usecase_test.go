package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/model"
	repoMocks "carpool-service/src/internal/repository/mocks"
	"carpool-service/src/internal/usecase/mocks"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"

	"github.com/go-redis/redismock/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

const priceKey = "TRIP:PRICE:36.7538,3.0588:35.6971,-0.6308"

func newTripUseCase(t *testing.T, pusher Pusher) (*TripUseCase, *repoMocks.TripStore, redismock.ClientMock, *mocks.RouteFinder) {
	trips := repoMocks.NewTripStore(t)
	routes := mocks.NewRouteFinder(t)
	db, redisMock := redismock.NewClientMock()

	cfg := viper.New()
	cfg.Set("pricing.price_per_km", 5.0)

	notifier := NewChangeNotifier(log.Discard(), nil, pusher)
	notifier.Now = fixedNow
	uc := NewTripUseCase(log.Discard(), testValidator(), trips, cfg, db, routes, notifier)
	uc.Now = fixedNow
	return uc, trips, redisMock, routes
}

func createTripRequest() *model.CreateTripRequest {
	return &model.CreateTripRequest{
		DriverID:       driverID,
		Departure:      model.PlaceRequest{City: "Alger", LocationRequest: model.LocationRequest{Latitude: 36.7538, Longitude: 3.0588}},
		Destination:    model.PlaceRequest{City: "Oran", LocationRequest: model.LocationRequest{Latitude: 35.6971, Longitude: -0.6308}},
		DepartureTime:  testNow.Add(6 * time.Hour),
		AvailableSeats: 3,
		Price:          1000,
		PriceType:      "negotiable",
	}
}

func TestCreateTrip(t *testing.T) {
	uc, trips, _, _ := newTripUseCase(t, nil)
	var stored *entity.Trip
	trips.On("Create", mock.Anything, mock.AnythingOfType("*entity.Trip")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Trip) }).
		Return(nil)

	result := uc.Create(context.Background(), createTripRequest())
	require.NoError(t, result.Error)

	resp := result.Data.(*model.TripResponse)
	assert.Equal(t, 3, resp.SeatCapacity)
	assert.Equal(t, 3, resp.AvailableSeats)
	assert.Equal(t, 1000.0, resp.Price)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "Oran", resp.Destination.City)
	assert.Equal(t, entity.PriceNegotiable, stored.PriceType)
}

func TestCreateTripRejectsBadInput(t *testing.T) {
	cases := map[string]func(r *model.CreateTripRequest){
		"departure in the past": func(r *model.CreateTripRequest) { r.DepartureTime = testNow.Add(-time.Minute) },
		"no seats":              func(r *model.CreateTripRequest) { r.AvailableSeats = 0 },
		"unknown price type":    func(r *model.CreateTripRequest) { r.PriceType = "auction" },
		"zero price":            func(r *model.CreateTripRequest) { r.Price = 0 },
		"price above cap":       func(r *model.CreateTripRequest) { r.Price = 5e16 },
		"missing city":          func(r *model.CreateTripRequest) { r.Destination.City = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			uc, trips, _, _ := newTripUseCase(t, nil)
			request := createTripRequest()
			mutate(request)

			requireReason(t, uc.Create(context.Background(), request), httpError.ReasonInvalidArgument)
			trips.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCompleteTripSettlesAttachedWork(t *testing.T) {
	pusher := mocks.NewPusher(t)
	uc, trips, _, _ := newTripUseCase(t, pusher)
	trip := testTrip(entity.PriceNegotiable)
	trips.On("FindByID", mock.Anything, tripID).Return(trip, nil)

	completed := *pendingBooking(1)
	completed.Status = entity.BookingCompleted
	dropped := *pendingBooking(1)
	dropped.ID = "booking-2"
	dropped.PassengerID = "passenger-2"
	dropped.Status = entity.BookingCancelled
	expired := *pendingNegotiation(80000, entity.PartyPassenger)
	expired.Status = entity.NegotiationExpired

	trips.On("CloseTrip", mock.Anything, trip, 0, reasonTripCompleted, testNow).
		Return(&entity.TripCloseout{Bookings: []entity.Booking{completed, dropped}, Negotiations: []entity.Negotiation{expired}}, nil)

	pusher.On("Push", []string{driverID}, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.EventTripCompleted && n.Status == "completed"
	})).Once()
	pusher.On("Push", []string{driverID, passengerID}, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.EventBookingCompleted
	})).Once()
	pusher.On("Push", []string{driverID, "passenger-2"}, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.EventBookingCancelled
	})).Once()
	pusher.On("Push", []string{driverID, passengerID}, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.EventNegotiationExpired && n.EntityID == negotiationID
	})).Once()

	result := uc.Complete(context.Background(), &model.TripActionRequest{UserID: driverID, TripID: tripID})
	require.NoError(t, result.Error)
	assert.Equal(t, entity.TripCompleted, trip.Status)
}

func TestCancelTripByOtherUserForbidden(t *testing.T) {
	uc, trips, _, _ := newTripUseCase(t, nil)
	trips.On("FindByID", mock.Anything, tripID).Return(testTrip(entity.PriceFixed), nil)

	result := uc.Cancel(context.Background(), &model.TripActionRequest{UserID: passengerID, TripID: tripID})
	requireReason(t, result, httpError.ReasonForbidden)
	trips.AssertNotCalled(t, "CloseTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelClosedTripIsInvalidState(t *testing.T) {
	uc, trips, _, _ := newTripUseCase(t, nil)
	trip := testTrip(entity.PriceFixed)
	trip.Status = entity.TripCancelled
	trips.On("FindByID", mock.Anything, tripID).Return(trip, nil)

	result := uc.Cancel(context.Background(), &model.TripActionRequest{UserID: driverID, TripID: tripID})
	requireReason(t, result, httpError.ReasonInvalidState)
}

func TestCancelTripLostRace(t *testing.T) {
	uc, trips, _, _ := newTripUseCase(t, nil)
	trip := testTrip(entity.PriceFixed)
	trips.On("FindByID", mock.Anything, tripID).Return(trip, nil)
	trips.On("CloseTrip", mock.Anything, trip, 0, reasonTripCancelled, testNow).Return(nil, fmt.Errorf("close trip: %w", entity.ErrConflict))

	result := uc.Cancel(context.Background(), &model.TripActionRequest{UserID: driverID, TripID: tripID})
	requireReason(t, result, httpError.ReasonConflictingState)
}

func priceRequest() *model.PriceSuggestionRequest {
	return &model.PriceSuggestionRequest{
		UserID:      driverID,
		Origin:      model.LocationRequest{Latitude: 36.7538, Longitude: 3.0588},
		Destination: model.LocationRequest{Latitude: 35.6971, Longitude: -0.6308},
	}
}

func drivingRoute(meters int, d time.Duration) maps.Route {
	return maps.Route{Legs: []*maps.Leg{{Distance: maps.Distance{Meters: meters}, Duration: d}}}
}

func TestSuggestPriceFromRoutes(t *testing.T) {
	uc, _, redisMock, routes := newTripUseCase(t, nil)
	redisMock.ExpectGet(priceKey).RedisNil()
	redisMock.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) < 2 || actual[1] != priceKey {
			return fmt.Errorf("unexpected set %v", actual)
		}
		return nil
	}).ExpectSet(priceKey, "", 60*time.Minute).SetVal("OK")

	routes.On("Directions", mock.Anything, mock.MatchedBy(func(r *maps.DirectionsRequest) bool {
		return r.Mode == maps.TravelModeDriving && r.Alternatives
	})).Return([]maps.Route{
		drivingRoute(450000, 4*time.Hour+30*time.Minute),
		drivingRoute(430000, 4*time.Hour),
	}, nil, nil)

	result := uc.SuggestPrice(context.Background(), priceRequest())
	require.NoError(t, result.Error)

	summary := result.Data.(*model.RouteSummary)
	assert.Equal(t, 2150.0, summary.MinPrice)
	assert.Equal(t, 2250.0, summary.MaxPrice)
	assert.Equal(t, 430.0, summary.BestRouteKm)
	assert.Equal(t, 2150.0, summary.BestRoutePrice)
	assert.Equal(t, 240, summary.Duration)
	assert.Equal(t, 36.7538, summary.Route.Origin.Latitude)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSuggestPriceServedFromCache(t *testing.T) {
	uc, _, redisMock, routes := newTripUseCase(t, nil)
	cached, err := json.Marshal(model.RouteSummary{MinPrice: 100, MaxPrice: 120, Duration: 30})
	require.NoError(t, err)
	redisMock.ExpectGet(priceKey).SetVal(string(cached))

	result := uc.SuggestPrice(context.Background(), priceRequest())
	require.NoError(t, result.Error)
	assert.Equal(t, 100.0, result.Data.(*model.RouteSummary).MinPrice)
	routes.AssertNotCalled(t, "Directions", mock.Anything, mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSuggestPriceWithoutRoutes(t *testing.T) {
	uc, _, redisMock, routes := newTripUseCase(t, nil)
	redisMock.ExpectGet(priceKey).RedisNil()
	routes.On("Directions", mock.Anything, mock.Anything).Return(nil, nil, errors.New("ZERO_RESULTS"))

	result := uc.SuggestPrice(context.Background(), priceRequest())
	requireReason(t, result, httpError.ReasonNotFound)
}

func TestSuggestPriceUnconfigured(t *testing.T) {
	uc, _, redisMock, _ := newTripUseCase(t, nil)
	uc.Routes = nil
	redisMock.ExpectGet(priceKey).RedisNil()

	result := uc.SuggestPrice(context.Background(), priceRequest())
	requireReason(t, result, httpError.ReasonNetwork)
}
