package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, trip_id, passenger_id, negotiation_id, seats, total_price, app_commission,
	driver_amount, commission_rate_ppm, status, cancelled_by, cancel_reason, cancel_latitude,
	cancel_longitude, version, created_at, updated_at, confirmed_at, completed_at, cancelled_at`

type BookingRepository struct {
	DB mysql.DBInterface
}

func NewBookingRepository(db mysql.DBInterface) *BookingRepository {
	return &BookingRepository{
		DB: db,
	}
}

// Reserve inserts a booking and takes its seats in one transaction. A passenger
// holds at most one active booking per trip.
func (r *BookingRepository) Reserve(ctx context.Context, booking *entity.Booking) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := reserveSeats(ctx, tx, booking.TripID, booking.Seats, booking.CreatedAt); err != nil {
		return err
	}

	if err := ensureNoActiveBooking(ctx, tx, booking.TripID, booking.PassengerID); err != nil {
		return err
	}
	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reserve: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var booking entity.Booking
	err = db.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	if err != nil {
		return nil, wrapErr("find booking", err)
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter entity.BookingFilter) ([]entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.PassengerID != nil {
		where = append(where, "passenger_id = ?")
		args = append(args, *filter.PassengerID)
	}
	if filter.TripID != nil {
		where = append(where, "trip_id = ?")
		args = append(args, *filter.TripID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	bookings := []entity.Booking{}
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, wrapErr("list bookings", err)
	}
	return bookings, nil
}

func (r *BookingRepository) Confirm(ctx context.Context, booking *entity.Booking, version int) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}
	if err := updateBooking(ctx, db, booking, version); err != nil {
		return err
	}
	booking.Version = version + 1
	return nil
}

// Cancel persists a cancelled booking and returns its seats to the trip.
func (r *BookingRepository) Cancel(ctx context.Context, booking *entity.Booking, version int) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateBooking(ctx, tx, booking, version); err != nil {
		return err
	}
	if err := releaseSeats(ctx, tx, booking.TripID, booking.Seats, booking.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel: %w", err)
	}
	booking.Version = version + 1
	return nil
}

// ListUpdatedSince returns bookings the user holds or that sit on the user's trips.
func (r *BookingRepository) ListUpdatedSince(ctx context.Context, userID string, since time.Time) ([]entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + prefixColumns("b", bookingColumns) + `
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE (b.passenger_id = ? OR t.driver_id = ?) AND b.updated_at > ?
		ORDER BY b.updated_at ASC
	`
	bookings := []entity.Booking{}
	if err := db.SelectContext(ctx, &bookings, query, userID, userID, since); err != nil {
		return nil, wrapErr("list updated bookings", err)
	}
	return bookings, nil
}

// ensureNoActiveBooking locks the passenger's active bookings on the trip and
// fails when there is one.
func ensureNoActiveBooking(ctx context.Context, tx *sqlx.Tx, tripID, passengerID string) error {
	var active int
	err := tx.GetContext(ctx, &active, `
		SELECT COUNT(*) FROM bookings
		WHERE trip_id = ? AND passenger_id = ? AND status IN (?, ?)
		FOR UPDATE
	`, tripID, passengerID, entity.BookingPending, entity.BookingConfirmed)
	if err != nil {
		return wrapErr("check active booking", err)
	}
	if active > 0 {
		return entity.ErrActiveBooking
	}
	return nil
}

func insertBooking(ctx context.Context, tx *sqlx.Tx, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (:id, :trip_id, :passenger_id, :negotiation_id, :seats, :total_price, :app_commission,
			:driver_amount, :commission_rate_ppm, :status, :cancelled_by, :cancel_reason, :cancel_latitude,
			:cancel_longitude, :version, :created_at, :updated_at, :confirmed_at, :completed_at, :cancelled_at)
	`
	_, err := tx.NamedExecContext(ctx, query, booking)
	return wrapErr("insert booking", err)
}

// updateBooking writes the mutable booking state guarded by the version the
// caller read.
func updateBooking(ctx context.Context, exec sqlx.ExecerContext, booking *entity.Booking, version int) error {
	res, err := exec.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, cancelled_by = ?, cancel_reason = ?, cancel_latitude = ?, cancel_longitude = ?,
			confirmed_at = ?, completed_at = ?, cancelled_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, booking.Status, booking.CancelledBy, booking.CancelReason, booking.CancelLatitude, booking.CancelLongitude,
		booking.ConfirmedAt, booking.CompletedAt, booking.CancelledAt, booking.UpdatedAt, booking.ID, version)
	if err != nil {
		return wrapErr("update booking", err)
	}
	return affectedOne(res, "update booking")
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
