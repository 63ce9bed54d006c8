package repository

import (
	"context"
	"testing"
	"time"

	"carpool-service/src/internal/entity"
	"carpool-service/src/pkg/commission"
	"carpool-service/src/pkg/databases/mysql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (mysql.DBInterface, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mysql.NewConnection(sqlx.NewDb(db, "sqlmock")), mock
}

var tripColumnNames = []string{
	"id", "driver_id", "departure_city", "departure_address", "departure_lat", "departure_lng",
	"destination_city", "destination_address", "destination_lat", "destination_lng", "departure_time",
	"seat_capacity", "available_seats", "price", "price_type", "status", "version", "created_at", "updated_at",
}

func tripRow(available int, status entity.TripStatus) *sqlmock.Rows {
	return sqlmock.NewRows(tripColumnNames).AddRow(
		"trip-1", "driver-1", "Alger", "", 36.75, 3.05,
		"Oran", "", 35.69, -0.63, testNow.Add(24*time.Hour),
		2, available, 100000, "fixed", string(status), 3, testNow, testNow,
	)
}

func testBooking(seats int) *entity.Booking {
	return &entity.Booking{
		ID:             "booking-1",
		TripID:         "trip-1",
		PassengerID:    "passenger-1",
		Seats:          seats,
		TotalPrice:     commission.Amount(100000 * seats),
		AppCommission:  commission.Amount(16000 * seats),
		DriverAmount:   commission.Amount(84000 * seats),
		CommissionRate: 160000,
		Status:         entity.BookingPending,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func TestTripFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	mock.ExpectQuery("FROM trips WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(tripColumnNames))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripFindByIDScansRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	mock.ExpectQuery("FROM trips WHERE id = ?").WillReturnRows(tripRow(2, entity.TripActive))

	trip, err := repo.FindByID(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Equal(t, commission.Amount(100000), trip.Price)
	assert.Equal(t, entity.TripActive, trip.Status)
	assert.Equal(t, 3, trip.Version)
}

func TestBookingReserveCommitsSeatsAndInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET available_seats = available_seats - ?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Reserve(context.Background(), testBooking(2)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingReserveInsufficientSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET available_seats = available_seats - ?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM trips WHERE id = ?").WillReturnRows(tripRow(0, entity.TripActive))
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), testBooking(1))
	assert.ErrorIs(t, err, entity.ErrInsufficientSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingReserveOnCancelledTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM trips WHERE id = ?").WillReturnRows(tripRow(2, entity.TripCancelled))
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), testBooking(1))
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestBookingReserveRejectsSecondActiveBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), testBooking(1))
	assert.ErrorIs(t, err, entity.ErrActiveBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingConfirmVersionConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	b := testBooking(1)
	require.NoError(t, b.Confirm(testNow))

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), b, 4)
	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.Equal(t, 0, b.Version)
}

func TestBookingCancelReleasesSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	b := testBooking(2)
	require.NoError(t, b.Cancel("passenger-1", "plans changed", nil, nil, testNow))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE trips SET available_seats = available_seats \\+ ?").
		WithArgs(2, testNow, "trip-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), b, 0))
	assert.Equal(t, 1, b.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNegotiationCreateRejectsSecondPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNegotiationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM negotiations").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Negotiation{ID: "n-1", TripID: "trip-1", PassengerID: "passenger-1"})
	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNegotiationSettleRollsBackWhenSeatsGone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNegotiationRepository(db)

	n := &entity.Negotiation{
		ID:           "n-1",
		TripID:       "trip-1",
		PassengerID:  "passenger-1",
		DriverID:     "driver-1",
		Seats:        1,
		CurrentOffer: 90000,
		LastOfferBy:  entity.PartyDriver,
		Status:       entity.NegotiationPending,
		Version:      2,
	}
	require.NoError(t, n.Accept(entity.PartyPassenger, "passenger-1", "", "msg-1", testNow))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE negotiations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO negotiation_messages").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE trips").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM trips WHERE id = ?").WillReturnRows(tripRow(0, entity.TripActive))
	mock.ExpectRollback()

	err := repo.Settle(context.Background(), n, 2, testBooking(1))
	assert.ErrorIs(t, err, entity.ErrInsufficientSeats)
	assert.Equal(t, 2, n.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNegotiationSettleRejectsSecondActiveBooking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNegotiationRepository(db)

	n := &entity.Negotiation{
		ID:           "n-1",
		TripID:       "trip-1",
		PassengerID:  "passenger-1",
		DriverID:     "driver-1",
		Seats:        1,
		CurrentOffer: 90000,
		LastOfferBy:  entity.PartyDriver,
		Status:       entity.NegotiationPending,
		Version:      2,
	}
	require.NoError(t, n.Accept(entity.PartyPassenger, "passenger-1", "", "msg-1", testNow))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE negotiations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO negotiation_messages").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE trips").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Settle(context.Background(), n, 2, testBooking(1))
	assert.ErrorIs(t, err, entity.ErrActiveBooking)
	assert.Equal(t, 2, n.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNegotiationUpdateVersionConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNegotiationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE negotiations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &entity.Negotiation{ID: "n-1"}, 5)
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestSettingCommissionRateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingRepository(db)

	mock.ExpectQuery("SELECT setting_value FROM settings").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}))

	_, found, err := repo.GetCommissionRate(context.Background())
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectQuery("SELECT setting_value FROM settings").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("120000"))

	rate, found, err := repo.GetCommissionRate(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, commission.Rate(120000), rate)
}

func TestWrapErrMapsLockFailuresToConflict(t *testing.T) {
	err := wrapErr("insert", &driver.MySQLError{Number: mysqlDeadlock, Message: "deadlock"})
	assert.ErrorIs(t, err, entity.ErrConflict)

	err = wrapErr("insert", &driver.MySQLError{Number: 1146, Message: "no table"})
	assert.NotErrorIs(t, err, entity.ErrConflict)
	assert.Nil(t, wrapErr("noop", nil))
}

func TestRedisCommissionCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCommissionCache(client, 10*time.Minute)
	ctx := context.Background()

	mock.ExpectGet(CommissionRateKey).RedisNil()
	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectSet(CommissionRateKey, "160000", 10*time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, 160000))

	mock.ExpectSetNX(CommissionRateKey, "150000", 10*time.Minute).SetVal(false)
	require.NoError(t, cache.Fill(ctx, 150000))

	mock.ExpectGet(CommissionRateKey).SetVal("160000")
	rate, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, commission.Rate(160000), rate)

	mock.ExpectDel(CommissionRateKey).SetVal(1)
	require.NoError(t, cache.Invalidate(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
