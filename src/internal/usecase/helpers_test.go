package usecase

import (
	"testing"
	"time"

	"carpool-service/src/internal/entity"
	httpError "carpool-service/src/pkg/http-error"
	"carpool-service/src/pkg/log"
	"carpool-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

const (
	tripID        = "6f1c1d3e-8a51-4c61-9d5c-3f6e2b7a9c01"
	bookingID     = "0b7e4a52-3c1f-4d2e-8f6a-1a2b3c4d5e6f"
	negotiationID = "c3d9e8f7-6a5b-4c3d-2e1f-0a9b8c7d6e5f"
	driverID      = "driver-1"
	passengerID   = "passenger-1"
)

var testNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testValidator() *validator.Validate {
	return validator.New()
}

func quietNotifier() *ChangeNotifier {
	n := NewChangeNotifier(log.Discard(), nil, nil)
	n.Now = fixedNow
	return n
}

// testTrip is 1000.00 per seat with two seats, leaving tomorrow.
func testTrip(priceType entity.PriceType) *entity.Trip {
	return &entity.Trip{
		ID:              tripID,
		DriverID:        driverID,
		DepartureCity:   "Alger",
		DestinationCity: "Oran",
		DepartureTime:   testNow.Add(24 * time.Hour),
		SeatCapacity:    2,
		AvailableSeats:  2,
		Price:           100000,
		PriceType:       priceType,
		Status:          entity.TripActive,
		CreatedAt:       testNow.Add(-time.Hour),
		UpdatedAt:       testNow.Add(-time.Hour),
	}
}

func requireReason(t *testing.T, result utils.Result, reason string) *httpError.CommonError {
	t.Helper()
	require.Error(t, result.Error)
	ce, ok := httpError.As(result.Error)
	require.True(t, ok, "expected a CommonError, got %T", result.Error)
	require.Equal(t, reason, ce.Reason, ce.Message)
	return ce
}
