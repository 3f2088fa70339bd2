package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"mobile-detailing-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking() *domain.Booking {
	return &domain.Booking{
		Reference:       "DT-7K3QX9",
		CustomerID:      "cust-1",
		ClientRequestID: "req-1",
		Lines: []domain.BookingLine{
			{ServiceID: "svc-1", ServiceName: "Full Valet", PricePence: 5000},
			{ServiceID: "svc-2", ServiceName: "Engine Bay", PricePence: 2500},
		},
		Vehicle:              domain.Vehicle{Make: "Ford", Model: "Focus", SizeID: "size-m"},
		Address:              domain.Address{Line1: "1 High St", City: "Leeds", Postcode: "LS1 4AP"},
		ScheduledDate:        "2026-03-12",
		TimeSlotID:           "slot-1",
		ServiceSubtotalPence: 7500,
		TravelDistanceMiles:  20,
		TravelSurchargePence: 125,
		TotalPence:           7625,
	}
}

var bookingRowColumns = []string{"id", "reference", "customer_id", "client_request_id",
	"vehicle_make", "vehicle_model", "vehicle_year", "vehicle_color", "vehicle_size_id", "vehicle_registration",
	"address_line1", "address_line2", "address_city", "address_county", "address_postcode",
	"scheduled_date", "time_slot_id", "customer_notes",
	"service_subtotal_pence", "travel_distance_miles", "travel_surcharge_pence", "total_pence",
	"status", "created_on", "updated_on"}

func addBookingRow(rows *sqlmock.Rows, id, reference string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, reference, "cust-1", "req-1",
		"Ford", "Focus", 2019, "Blue", "size-m", "AB12CDE",
		"1 High St", "", "Leeds", "", "LS1 4AP",
		"2026-03-12", "slot-1", "",
		7500, 20.0, 125, 7625,
		"CONFIRMED", now, now)
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		b := newTestBooking()
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE time_slots SET booked_count = booked_count \+ 1 WHERE id = \$1 AND booked_count < capacity`).
			WithArgs("slot-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO booking_lines").
			WithArgs(sqlmock.AnyArg(), 0, "svc-1", "Full Valet", int32(5000)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO booking_lines").
			WithArgs(sqlmock.AnyArg(), 1, "svc-2", "Engine Bay", int32(2500)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.Create(ctx, b)
		assert.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot full", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE time_slots").WithArgs("slot-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.Create(ctx, newTestBooking())
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate client request", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE time_slots").WithArgs("slot-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err = repo.Create(ctx, newTestBooking())
		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE reference = \$1`).
			WithArgs("DT-7K3QX9").
			WillReturnRows(addBookingRow(sqlmock.NewRows(bookingRowColumns), "b-1", "DT-7K3QX9"))
		mock.ExpectQuery("FROM booking_lines WHERE booking_id = ANY").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"booking_id", "service_id", "service_name", "price_pence"}).
				AddRow("b-1", "svc-1", "Full Valet", 5000).
				AddRow("b-1", "svc-2", "Engine Bay", 2500))

		b, err := repo.GetByReference(ctx, "DT-7K3QX9")
		require.NoError(t, err)
		assert.Equal(t, "b-1", b.ID)
		assert.Equal(t, int32(2019), b.Vehicle.Year)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.Len(t, b.Lines, 2)
		assert.Equal(t, int32(7625), b.TotalPence)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE reference = \$1`).
			WithArgs("DT-NOPE").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByReference(ctx, "DT-NOPE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM bookings WHERE status = \$1`).
		WithArgs("CONFIRMED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rows := sqlmock.NewRows(bookingRowColumns)
	addBookingRow(rows, "b-1", "DT-AAAAAA")
	addBookingRow(rows, "b-2", "DT-BBBBBB")
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE status = \$1 ORDER BY (.+) LIMIT \$2 OFFSET \$3`).
		WithArgs("CONFIRMED", int32(2), int32(0)).
		WillReturnRows(rows)
	mock.ExpectQuery("FROM booking_lines").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "service_id", "service_name", "price_pence"}).
			AddRow("b-2", "svc-1", "Full Valet", 5000))

	bookings, total, err := repo.List(context.Background(), domain.BookingStatusConfirmed, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(3), total)
	require.Len(t, bookings, 2)
	assert.Empty(t, bookings[0].Lines)
	assert.Len(t, bookings[1].Lines, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancel releases slot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status, time_slot_id FROM bookings WHERE reference = \$1 FOR UPDATE`).
			WithArgs("DT-7K3QX9").
			WillReturnRows(sqlmock.NewRows([]string{"status", "time_slot_id"}).AddRow("CONFIRMED", "slot-1"))
		mock.ExpectExec(`UPDATE time_slots SET booked_count = booked_count - 1`).
			WithArgs("slot-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET status = \$1`).
			WithArgs("CANCELLED", sqlmock.AnyArg(), "DT-7K3QX9").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.UpdateStatus(ctx, "DT-7K3QX9", domain.BookingStatusCancelled)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reinstate into full slot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status, time_slot_id FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"status", "time_slot_id"}).AddRow("CANCELLED", "slot-1"))
		mock.ExpectExec(`UPDATE time_slots SET booked_count = booked_count \+ 1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.UpdateStatus(ctx, "DT-7K3QX9", domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown reference", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status, time_slot_id FROM bookings").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err = repo.UpdateStatus(ctx, "DT-NOPE", domain.BookingStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_MarkCompletedBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewBookingRepository(db)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_on = \$2 WHERE status = \$3 AND scheduled_date < \$4`).
		WithArgs("COMPLETED", sqlmock.AnyArg(), "CONFIRMED", "2026-03-10").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.MarkCompletedBefore(context.Background(), "2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
