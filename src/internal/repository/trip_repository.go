package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const tripColumns = `id, driver_id, departure_city, departure_address, departure_lat, departure_lng,
	destination_city, destination_address, destination_lat, destination_lng, departure_time,
	seat_capacity, available_seats, price, price_type, status, version, created_at, updated_at`

type TripRepository struct {
	DB mysql.DBInterface
}

func NewTripRepository(db mysql.DBInterface) *TripRepository {
	return &TripRepository{
		DB: db,
	}
}

func (r *TripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES (:id, :driver_id, :departure_city, :departure_address, :departure_lat, :departure_lng,
			:destination_city, :destination_address, :destination_lat, :destination_lng, :departure_time,
			:seat_capacity, :available_seats, :price, :price_type, :status, :version, :created_at, :updated_at)
	`
	_, err = db.NamedExecContext(ctx, query, trip)
	return wrapErr("insert trip", err)
}

func (r *TripRepository) FindByID(ctx context.Context, id string) (*entity.Trip, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var trip entity.Trip
	err = db.GetContext(ctx, &trip, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	if err != nil {
		return nil, wrapErr("find trip", err)
	}
	return &trip, nil
}

func (r *TripRepository) List(ctx context.Context, filter entity.TripFilter) ([]entity.Trip, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.DriverID != nil {
		where = append(where, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + tripColumns + ` FROM trips`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY departure_time DESC"

	trips := []entity.Trip{}
	if err := db.SelectContext(ctx, &trips, query, args...); err != nil {
		return nil, wrapErr("list trips", err)
	}
	return trips, nil
}

// CloseTrip persists a trip that left the active state and settles everything
// still attached to it. Confirmed bookings complete when the trip completes;
// every other active booking is cancelled and its seats returned. Pending
// negotiations expire either way.
func (r *TripRepository) CloseTrip(ctx context.Context, trip *entity.Trip, version int, reason string, now time.Time) (*entity.TripCloseout, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND status = ?
	`, trip.Status, now, trip.ID, version, entity.TripActive)
	if err != nil {
		return nil, wrapErr("close trip", err)
	}
	if err := affectedOne(res, "close trip"); err != nil {
		return nil, err
	}

	closeout := &entity.TripCloseout{}

	bookings := []entity.Booking{}
	err = tx.SelectContext(ctx, &bookings, `SELECT `+bookingColumns+` FROM bookings
		WHERE trip_id = ? AND status IN (?, ?) FOR UPDATE`,
		trip.ID, entity.BookingPending, entity.BookingConfirmed)
	if err != nil {
		return nil, wrapErr("lock trip bookings", err)
	}

	released := 0
	for i := range bookings {
		b := &bookings[i]
		from := b.Version
		if trip.Status == entity.TripCompleted && b.Status == entity.BookingConfirmed {
			err = b.Complete(now)
		} else {
			err = b.Cancel(trip.DriverID, reason, nil, nil, now)
			released += b.Seats
		}
		if err != nil {
			return nil, err
		}
		if err := updateBooking(ctx, tx, b, from); err != nil {
			return nil, err
		}
		b.Version = from + 1
	}
	closeout.Bookings = bookings

	if released > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE trips SET available_seats = LEAST(seat_capacity, available_seats + ?) WHERE id = ?
		`, released, trip.ID)
		if err != nil {
			return nil, wrapErr("release seats", err)
		}
		trip.AvailableSeats += released
		if trip.AvailableSeats > trip.SeatCapacity {
			trip.AvailableSeats = trip.SeatCapacity
		}
	}

	negotiations := []entity.Negotiation{}
	err = tx.SelectContext(ctx, &negotiations, `SELECT `+negotiationColumns+` FROM negotiations
		WHERE trip_id = ? AND status = ? FOR UPDATE`, trip.ID, entity.NegotiationPending)
	if err != nil {
		return nil, wrapErr("lock trip negotiations", err)
	}
	for i := range negotiations {
		n := &negotiations[i]
		from := n.Version
		if err := n.Expire(reason, uuid.NewString(), now); err != nil {
			return nil, err
		}
		if err := updateNegotiation(ctx, tx, n, from); err != nil {
			return nil, err
		}
		n.Version = from + 1
	}
	closeout.Negotiations = negotiations

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit close trip: %w", err)
	}
	trip.Version = version + 1
	return closeout, nil
}

// reserveSeats takes seats from an active, not yet departed trip. It tells a
// missing trip, a closed trip and a full trip apart.
func reserveSeats(ctx context.Context, tx *sqlx.Tx, tripID string, seats int, now time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = available_seats - ?, updated_at = ?
		WHERE id = ? AND status = ? AND departure_time > ? AND available_seats >= ?
	`, seats, now, tripID, entity.TripActive, now, seats)
	if err != nil {
		return wrapErr("reserve seats", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var trip entity.Trip
	if err := tx.GetContext(ctx, &trip, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, tripID); err != nil {
		return wrapErr("reserve seats", err)
	}
	if err := trip.CanReserve(seats, now); err != nil {
		return err
	}
	return fmt.Errorf("reserve seats: %w", entity.ErrConflict)
}

func releaseSeats(ctx context.Context, tx *sqlx.Tx, tripID string, seats int, now time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE trips
		SET available_seats = available_seats + ?, updated_at = ?
		WHERE id = ? AND available_seats + ? <= seat_capacity
	`, seats, now, tripID, seats)
	if err != nil {
		return wrapErr("release seats", err)
	}
	return affectedOne(res, "release seats")
}
