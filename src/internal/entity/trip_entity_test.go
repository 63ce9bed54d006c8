package entity

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestTrip(seats int, priceType PriceType) *Trip {
	return &Trip{
		ID:              "trip-1",
		DriverID:        "driver-1",
		DepartureCity:   "Alger",
		DestinationCity: "Oran",
		DepartureTime:   testNow.Add(48 * time.Hour),
		SeatCapacity:    seats,
		AvailableSeats:  seats,
		Price:           100000,
		PriceType:       priceType,
		Status:          TripActive,
	}
}

func TestTripReserveAndRelease(t *testing.T) {
	trip := newTestTrip(2, PriceFixed)

	require.NoError(t, trip.Reserve(2, testNow))
	assert.Equal(t, 0, trip.AvailableSeats)

	assert.ErrorIs(t, trip.Reserve(1, testNow), ErrInsufficientSeats)

	require.NoError(t, trip.Release(2))
	assert.Equal(t, 2, trip.AvailableSeats)

	assert.ErrorIs(t, trip.Release(1), ErrInvalidArgument)
}

func TestTripReserveRejectsInactiveOrDeparted(t *testing.T) {
	trip := newTestTrip(3, PriceFixed)
	assert.ErrorIs(t, trip.Reserve(0, testNow), ErrInvalidArgument)
	assert.ErrorIs(t, trip.Reserve(1, trip.DepartureTime), ErrInvalidState)

	require.NoError(t, trip.Cancel(testNow))
	assert.ErrorIs(t, trip.Reserve(1, testNow), ErrInvalidState)
}

func TestTripTerminalTransitions(t *testing.T) {
	trip := newTestTrip(3, PriceFixed)
	require.NoError(t, trip.Complete(testNow))
	assert.Equal(t, TripCompleted, trip.Status)
	assert.ErrorIs(t, trip.Cancel(testNow), ErrInvalidState)
	assert.ErrorIs(t, trip.Complete(testNow), ErrInvalidState)
}

// availableSeats + seats held by active bookings always equals capacity.
func TestSeatInventoryInvariantUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		capacity := 1 + rng.Intn(8)
		trip := newTestTrip(capacity, PriceFixed)
		var active []*Booking

		for step := 0; step < 50; step++ {
			if len(active) > 0 && rng.Intn(3) == 0 {
				i := rng.Intn(len(active))
				b := active[i]
				require.NoError(t, b.Cancel("passenger-x", "", nil, nil, testNow))
				require.NoError(t, trip.Release(b.Seats))
				active = append(active[:i], active[i+1:]...)
			} else {
				seats := 1 + rng.Intn(3)
				b, err := NewBooking("b", trip, "passenger-x", seats, trip.PriceFor(seats), 160000, BookingPending, testNow)
				if err != nil {
					require.ErrorIs(t, err, ErrInsufficientSeats)
					continue
				}
				require.NoError(t, trip.Reserve(seats, testNow))
				active = append(active, b)
			}

			held := 0
			for _, b := range active {
				held += b.Seats
			}
			require.Equal(t, capacity, trip.AvailableSeats+held)
			require.GreaterOrEqual(t, trip.AvailableSeats, 0)
		}
	}
}
