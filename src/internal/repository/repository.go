package repository

import (
	"context"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/commission"
)

type TripStore interface {
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id string) (*entity.Trip, error)
	List(ctx context.Context, filter entity.TripFilter) ([]entity.Trip, error)
	CloseTrip(ctx context.Context, trip *entity.Trip, version int, reason string, now time.Time) (*entity.TripCloseout, error)
}

type BookingStore interface {
	Reserve(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	List(ctx context.Context, filter entity.BookingFilter) ([]entity.Booking, error)
	Confirm(ctx context.Context, booking *entity.Booking, version int) error
	Cancel(ctx context.Context, booking *entity.Booking, version int) error
	ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Booking, error)
}

type NegotiationStore interface {
	Create(ctx context.Context, negotiation *entity.Negotiation) error
	FindByID(ctx context.Context, id string) (*entity.Negotiation, error)
	List(ctx context.Context, filter entity.NegotiationFilter) ([]entity.Negotiation, error)
	Update(ctx context.Context, negotiation *entity.Negotiation, version int) error
	Settle(ctx context.Context, negotiation *entity.Negotiation, version int, booking *entity.Booking) error
	ListIdlePending(ctx context.Context, idleBefore time.Time, limit int) ([]entity.Negotiation, error)
	ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Negotiation, error)
}

type SettingStore interface {
	GetCommissionRate(ctx context.Context) (commission.Rate, bool, error)
	SaveCommissionRate(ctx context.Context, rate commission.Rate, updatedBy string, now time.Time) error
}

type CommissionCache interface {
	Get(ctx context.Context) (commission.Rate, bool, error)
	Set(ctx context.Context, rate commission.Rate) error
	Fill(ctx context.Context, rate commission.Rate) error
	Invalidate(ctx context.Context) error
}
