package entity

import (
	"fmt"
	"time"

	"carpool-service/src/pkg/commission"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID              string            `db:"id" gorm:"primaryKey;type:char(36)"`
	TripID          string            `db:"trip_id" gorm:"type:char(36);not null;index"`
	PassengerID     string            `db:"passenger_id" gorm:"type:varchar(64);not null;index"`
	NegotiationID   *string           `db:"negotiation_id" gorm:"type:char(36);uniqueIndex"`
	Seats           int               `db:"seats" gorm:"not null"`
	TotalPrice      commission.Amount `db:"total_price" gorm:"type:bigint;not null"`
	AppCommission   commission.Amount `db:"app_commission" gorm:"type:bigint;not null"`
	DriverAmount    commission.Amount `db:"driver_amount" gorm:"type:bigint;not null"`
	CommissionRate  commission.Rate   `db:"commission_rate_ppm" gorm:"column:commission_rate_ppm;not null"`
	Status          BookingStatus     `db:"status" gorm:"type:varchar(16);not null;index"`
	CancelledBy     string            `db:"cancelled_by" gorm:"type:varchar(64);not null;default:''"`
	CancelReason    string            `db:"cancel_reason" gorm:"type:varchar(500);not null;default:''"`
	CancelLatitude  *float64          `db:"cancel_latitude"`
	CancelLongitude *float64          `db:"cancel_longitude"`
	Version         int               `db:"version" gorm:"not null;default:0"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" gorm:"index"`
	ConfirmedAt     *time.Time        `db:"confirmed_at"`
	CompletedAt     *time.Time        `db:"completed_at"`
	CancelledAt     *time.Time        `db:"cancelled_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// NewBooking prices a reservation. The split is computed once here and frozen.
func NewBooking(id string, trip *Trip, passengerID string, seats int, total commission.Amount, rate commission.Rate, status BookingStatus, now time.Time) (*Booking, error) {
	if passengerID == trip.DriverID {
		return nil, fmt.Errorf("%w: drivers cannot book their own trip", ErrForbidden)
	}
	if err := trip.CanReserve(seats, now); err != nil {
		return nil, err
	}
	split, err := commission.Split(total, rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	b := &Booking{
		ID:             id,
		TripID:         trip.ID,
		PassengerID:    passengerID,
		Seats:          seats,
		TotalPrice:     split.Total,
		AppCommission:  split.Commission,
		DriverAmount:   split.DriverAmount,
		CommissionRate: rate,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == BookingConfirmed {
		b.ConfirmedAt = &now
	}
	return b, nil
}

// IsActive reports whether the booking still holds seats.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != BookingPending {
		return fmt.Errorf("%w: booking is %s", ErrInvalidState, b.Status)
	}
	b.Status = BookingConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Cancel(by, reason string, lat, lng *float64, now time.Time) error {
	if !b.IsActive() {
		return fmt.Errorf("%w: booking is %s", ErrInvalidState, b.Status)
	}
	b.Status = BookingCancelled
	b.CancelledBy = by
	b.CancelReason = reason
	b.CancelLatitude = lat
	b.CancelLongitude = lng
	b.CancelledAt = &now
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != BookingConfirmed {
		return fmt.Errorf("%w: booking is %s", ErrInvalidState, b.Status)
	}
	b.Status = BookingCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	return nil
}
