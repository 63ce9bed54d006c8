package entity

import (
	"fmt"
	"time"

	"carpool-service/src/pkg/commission"
)

type TripStatus string

const (
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

type PriceType string

const (
	PriceFixed      PriceType = "fixed"
	PriceNegotiable PriceType = "negotiable"
)

type Trip struct {
	ID                 string            `db:"id" gorm:"primaryKey;type:char(36)"`
	DriverID           string            `db:"driver_id" gorm:"type:varchar(64);not null;index"`
	DepartureCity      string            `db:"departure_city" gorm:"type:varchar(100);not null;index:idx_trip_route"`
	DepartureAddress   string            `db:"departure_address" gorm:"type:varchar(255)"`
	DepartureLat       float64           `db:"departure_lat"`
	DepartureLng       float64           `db:"departure_lng"`
	DestinationCity    string            `db:"destination_city" gorm:"type:varchar(100);not null;index:idx_trip_route"`
	DestinationAddress string            `db:"destination_address" gorm:"type:varchar(255)"`
	DestinationLat     float64           `db:"destination_lat"`
	DestinationLng     float64           `db:"destination_lng"`
	DepartureTime      time.Time         `db:"departure_time" gorm:"not null;index"`
	SeatCapacity       int               `db:"seat_capacity" gorm:"not null"`
	AvailableSeats     int               `db:"available_seats" gorm:"not null"`
	Price              commission.Amount `db:"price" gorm:"type:bigint;not null"`
	PriceType          PriceType         `db:"price_type" gorm:"type:varchar(16);not null"`
	Status             TripStatus        `db:"status" gorm:"type:varchar(16);not null;index"`
	Version            int               `db:"version" gorm:"not null;default:0"`
	CreatedAt          time.Time         `db:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at"`
}

func (Trip) TableName() string {
	return "trips"
}

func (t *Trip) OwnedBy(userID string) bool {
	return t.DriverID == userID
}

func (t *Trip) IsNegotiable() bool {
	return t.PriceType == PriceNegotiable
}

func (t *Trip) HasDeparted(now time.Time) bool {
	return !now.Before(t.DepartureTime)
}

// CanReserve reports whether seats may be held on this trip right now.
func (t *Trip) CanReserve(seats int, now time.Time) error {
	if seats < 1 {
		return fmt.Errorf("%w: seats must be at least 1", ErrInvalidArgument)
	}
	if t.Status != TripActive {
		return fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	if t.HasDeparted(now) {
		return fmt.Errorf("%w: trip has already departed", ErrInvalidState)
	}
	if t.AvailableSeats < seats {
		return fmt.Errorf("%w: %d requested, %d available", ErrInsufficientSeats, seats, t.AvailableSeats)
	}
	return nil
}

// Reserve holds seats. The repository performs the same check atomically in SQL.
func (t *Trip) Reserve(seats int, now time.Time) error {
	if err := t.CanReserve(seats, now); err != nil {
		return err
	}
	t.AvailableSeats -= seats
	return nil
}

// Release returns seats to the inventory.
func (t *Trip) Release(seats int) error {
	if seats < 1 || t.AvailableSeats+seats > t.SeatCapacity {
		return fmt.Errorf("%w: cannot release %d seats (%d/%d available)", ErrInvalidArgument, seats, t.AvailableSeats, t.SeatCapacity)
	}
	t.AvailableSeats += seats
	return nil
}

// PriceFor is the listed total for a number of seats.
func (t *Trip) PriceFor(seats int) commission.Amount {
	return t.Price * commission.Amount(seats)
}

func (t *Trip) Cancel(now time.Time) error {
	if t.Status != TripActive {
		return fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	t.Status = TripCancelled
	t.UpdatedAt = now
	return nil
}

func (t *Trip) Complete(now time.Time) error {
	if t.Status != TripActive {
		return fmt.Errorf("%w: trip is %s", ErrInvalidState, t.Status)
	}
	t.Status = TripCompleted
	t.UpdatedAt = now
	return nil
}
