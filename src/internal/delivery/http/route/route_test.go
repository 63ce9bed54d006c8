package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carpool-service/src/internal/delivery/http"
	"carpool-service/src/internal/delivery/http/middleware"
	"carpool-service/src/internal/entity"
	"carpool-service/src/internal/repository"
	repoMocks "carpool-service/src/internal/repository/mocks"
	"carpool-service/src/internal/usecase"
	"carpool-service/src/pkg/commission"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	tripID     = "6f1c1d3e-8a51-4c61-9d5c-3f6e2b7a9c01"
	bookingID  = "0b7e4a52-3c1f-4d2e-8f6a-1a2b3c4d5e6f"
)

type testApp struct {
	app      *fiber.App
	redis    redismock.ClientMock
	trips    *repoMocks.TripStore
	bookings *repoMocks.BookingStore
}

func newTestApp(t *testing.T) *testApp {
	cfg := viper.New()
	cfg.Set("jwt.secret", testSecret)
	logger := log.Discard()
	validate := validator.New()
	db, redisMock := redismock.NewClientMock()

	trips := repoMocks.NewTripStore(t)
	bookings := repoMocks.NewBookingStore(t)
	negotiations := repoMocks.NewNegotiationStore(t)
	settings := repoMocks.NewSettingStore(t)
	notifier := usecase.NewChangeNotifier(logger, nil, nil)

	commissionUseCase := usecase.NewCommissionUseCase(logger, validate, settings, repository.NewRedisCommissionCache(db, 0), commission.Rate(160000), notifier)
	tripUseCase := usecase.NewTripUseCase(logger, validate, trips, cfg, db, nil, notifier)
	bookingUseCase := usecase.NewBookingUseCase(logger, validate, trips, bookings, commissionUseCase, cfg, notifier)
	negotiationUseCase := usecase.NewNegotiationUseCase(logger, validate, trips, negotiations, commissionUseCase, nil, notifier, time.Hour, time.Minute)
	updateUseCase := usecase.NewUpdateUseCase(logger, validate, bookings, negotiations, 0)

	app := fiber.New()
	routeConfig := RouteConfig{
		App:                   app,
		TripController:        http.NewTripController(tripUseCase, logger),
		NegotiationController: http.NewNegotiationController(negotiationUseCase, logger),
		BookingController:     http.NewBookingController(bookingUseCase, logger),
		CommissionController:  http.NewCommissionController(commissionUseCase, logger),
		UpdateController:      http.NewUpdateController(updateUseCase, logger),
		AuthMiddleware:        middleware.VerifyBearer(cfg),
		IdempotencyMiddleware: middleware.NewIdempotency(db, time.Hour, 0, logger),
	}
	routeConfig.Setup()

	return &testApp{app: app, redis: redisMock, trips: trips, bookings: bookings}
}

func bearer(t *testing.T, userID, role string) string {
	raw, err := token.Sign(token.Metadata{UserID: userID, Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + raw
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealthIsPublic(t *testing.T) {
	ta := newTestApp(t)
	resp, err := ta.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	ta := newTestApp(t)
	resp, err := ta.app.Test(httptest.NewRequest(fiber.MethodGet, "/bookings", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNAUTHORIZED", body["reason"])
}

func TestForgedTokenIsUnauthorized(t *testing.T) {
	ta := newTestApp(t)
	raw, err := token.Sign(token.Metadata{UserID: "u-1"}, "another-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/bookings", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestQuoteEnvelope(t *testing.T) {
	ta := newTestApp(t)
	ta.redis.ExpectGet(repository.CommissionRateKey).SetVal("160000")

	req := httptest.NewRequest(fiber.MethodGet, "/commission/quote?price=1000", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "passenger-1", ""))
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 160.0, data["commission"])
	assert.Equal(t, 840.0, data["driverAmount"])
}

func TestUpdateRateNeedsAdminRole(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPut, "/admin/commission-rate", strings.NewReader(`{"rate":0.2}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "driver-1", ""))
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode(t, resp.Body)["reason"])
}

func TestUpdatesRequiresRFC3339(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/updates?since=yesterday", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "passenger-1", ""))
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ARGUMENT", decode(t, resp.Body)["reason"])
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/trips", strings.NewReader(`{"price":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "driver-1", ""))
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// send issues an authenticated POST with an idempotency key and buffers the reply.
func (ta *testApp) send(t *testing.T, path, userID, idemKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(fiber.MethodPost, path, nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, userID, ""))
	req.Header.Set(middleware.HeaderIdempotencyKey, idemKey)
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	_, err = io.Copy(rec.Body, resp.Body)
	require.NoError(t, err)
	return rec
}

// captureStore expects the final response to be written under key and
// records the payload.
func (ta *testApp) captureStore(key string, stored *string) {
	ta.redis.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) < 3 || actual[0] != "set" || actual[1] != key {
			return fmt.Errorf("unexpected command %v", actual)
		}
		switch v := actual[2].(type) {
		case []byte:
			*stored = string(v)
		case string:
			*stored = v
		}
		return nil
	}).ExpectSet(key, "", time.Hour).SetVal("OK")
}

func pendingBooking(id string) *entity.Booking {
	return &entity.Booking{ID: id, TripID: tripID, PassengerID: "passenger-1", Seats: 1, TotalPrice: 100000, Status: entity.BookingPending}
}

func activeTrip() *entity.Trip {
	return &entity.Trip{ID: tripID, DriverID: "driver-1", SeatCapacity: 2, AvailableSeats: 1, Status: entity.TripActive, DepartureTime: time.Now().Add(time.Hour)}
}

func TestConfirmRetryIsReplayed(t *testing.T) {
	ta := newTestApp(t)
	path := "/bookings/" + bookingID + "/confirm"
	key := middleware.IdempotencyKey("driver-1", fiber.MethodPost, path, "retry-1")

	booking := pendingBooking(bookingID)
	ta.bookings.On("FindByID", mock.Anything, bookingID).Return(booking, nil).Once()
	ta.trips.On("FindByID", mock.Anything, tripID).Return(activeTrip(), nil).Once()
	ta.bookings.On("Confirm", mock.Anything, booking, 0).Return(nil).Once()

	var stored string
	ta.redis.ExpectSetNX(key, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(true)
	ta.captureStore(key, &stored)

	first := ta.send(t, path, "driver-1", "retry-1")
	require.Equal(t, fiber.StatusOK, first.Code)
	require.NotEmpty(t, stored)

	ta.redis.ExpectSetNX(key, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(false)
	ta.redis.ExpectGet(key).SetVal(stored)
	second := ta.send(t, path, "driver-1", "retry-1")
	assert.Equal(t, fiber.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.NoError(t, ta.redis.ExpectationsWereMet())
}

func TestIdempotencyKeyIsScopedToEndpoint(t *testing.T) {
	ta := newTestApp(t)
	otherID := "9c2d7e61-5b4a-4f3e-a1d2-c3b4a5968776"
	confirmPath := "/bookings/" + bookingID + "/confirm"
	cancelPath := "/bookings/" + otherID + "/cancel"
	confirmKey := middleware.IdempotencyKey("driver-1", fiber.MethodPost, confirmPath, "k1")
	cancelKey := middleware.IdempotencyKey("driver-1", fiber.MethodPost, cancelPath, "k1")
	require.NotEqual(t, confirmKey, cancelKey)

	confirmed := pendingBooking(bookingID)
	cancelled := pendingBooking(otherID)
	ta.bookings.On("FindByID", mock.Anything, bookingID).Return(confirmed, nil).Once()
	ta.bookings.On("FindByID", mock.Anything, otherID).Return(cancelled, nil).Once()
	ta.trips.On("FindByID", mock.Anything, tripID).Return(activeTrip(), nil).Twice()
	ta.bookings.On("Confirm", mock.Anything, confirmed, 0).Return(nil).Once()
	ta.bookings.On("Cancel", mock.Anything, cancelled, 0).Return(nil).Once()

	var confirmBody, cancelBody string
	ta.redis.ExpectSetNX(confirmKey, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(true)
	ta.captureStore(confirmKey, &confirmBody)
	ta.redis.ExpectSetNX(cancelKey, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(true)
	ta.captureStore(cancelKey, &cancelBody)

	require.Equal(t, fiber.StatusOK, ta.send(t, confirmPath, "driver-1", "k1").Code)
	rec := ta.send(t, cancelPath, "driver-1", "k1")
	require.Equal(t, fiber.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Idempotent-Replayed"))

	data := decode(t, rec.Body)["data"].(map[string]interface{})
	assert.Equal(t, otherID, data["id"])
	assert.Equal(t, "cancelled", data["status"])
	assert.Equal(t, entity.BookingCancelled, cancelled.Status)
	assert.NoError(t, ta.redis.ExpectationsWereMet())
}

func TestOverlappingRetryDoesNotRunTwice(t *testing.T) {
	ta := newTestApp(t)
	path := "/bookings/" + bookingID + "/confirm"
	key := middleware.IdempotencyKey("driver-1", fiber.MethodPost, path, "retry-2")

	// The first attempt still holds the key; the stores must not be touched.
	ta.redis.ExpectSetNX(key, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(false)
	ta.redis.ExpectGet(key).SetVal("IN_FLIGHT")

	rec := ta.send(t, path, "driver-1", "retry-2")
	assert.Equal(t, fiber.StatusConflict, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(fiber.HeaderRetryAfter))
	assert.Equal(t, "CONFLICTING_STATE", decode(t, rec.Body)["reason"])
	assert.NoError(t, ta.redis.ExpectationsWereMet())
}

func TestServerFailureReleasesIdempotencyKey(t *testing.T) {
	ta := newTestApp(t)
	path := "/bookings/" + bookingID + "/confirm"
	key := middleware.IdempotencyKey("driver-1", fiber.MethodPost, path, "retry-3")

	booking := pendingBooking(bookingID)
	ta.bookings.On("FindByID", mock.Anything, bookingID).Return(booking, nil).Once()
	ta.trips.On("FindByID", mock.Anything, tripID).Return(activeTrip(), nil).Once()
	ta.bookings.On("Confirm", mock.Anything, booking, 0).Return(errors.New("db down")).Once()

	ta.redis.ExpectSetNX(key, "IN_FLIGHT", middleware.DefaultInFlightTTL).SetVal(true)
	ta.redis.ExpectDel(key).SetVal(1)

	rec := ta.send(t, path, "driver-1", "retry-3")
	assert.Equal(t, fiber.StatusInternalServerError, rec.Code)
	assert.NoError(t, ta.redis.ExpectationsWereMet())
}
