package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const bookingColumns = `id, reference, customer_id, COALESCE(client_request_id, ''),
	vehicle_make, vehicle_model, COALESCE(vehicle_year, 0), COALESCE(vehicle_color, ''), vehicle_size_id, COALESCE(vehicle_registration, ''),
	address_line1, COALESCE(address_line2, ''), address_city, COALESCE(address_county, ''), address_postcode,
	to_char(scheduled_date, 'YYYY-MM-DD'), time_slot_id, COALESCE(customer_notes, ''),
	service_subtotal_pence, travel_distance_miles, travel_surcharge_pence, total_pence,
	status, created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.ClientRequestID,
		&b.Vehicle.Make, &b.Vehicle.Model, &b.Vehicle.Year, &b.Vehicle.Color, &b.Vehicle.SizeID, &b.Vehicle.Registration,
		&b.Address.Line1, &b.Address.Line2, &b.Address.City, &b.Address.County, &b.Address.Postcode,
		&b.ScheduledDate, &b.TimeSlotID, &b.CustomerNotes,
		&b.ServiceSubtotalPence, &b.TravelDistanceMiles, &b.TravelSurchargePence, &b.TotalPence,
		&b.Status, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "reference", b.Reference, "slotID", b.TimeSlotID, "clientRequestID", b.ClientRequestID)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedOn = now
	b.UpdatedOn = now
	if b.Status == "" {
		b.Status = domain.BookingStatusConfirmed
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err)
		return err
	}
	defer tx.Rollback()

	logger.DatabaseCall("UPDATE", "table", "time_slots", "slotID", b.TimeSlotID)
	res, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET booked_count = booked_count + 1 WHERE id = $1 AND booked_count < capacity`,
		b.TimeSlotID)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err, "reason", "reserve slot")
		return err
	}
	reserved, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if reserved == 0 {
		logger.ExitMethodWithError("bookingRepository.Create", domain.ErrSlotUnavailable, "slotID", b.TimeSlotID)
		return domain.ErrSlotUnavailable
	}

	query := `INSERT INTO bookings (id, reference, customer_id, client_request_id,
	          vehicle_make, vehicle_model, vehicle_year, vehicle_color, vehicle_size_id, vehicle_registration,
	          address_line1, address_line2, address_city, address_county, address_postcode,
	          scheduled_date, time_slot_id, customer_notes,
	          service_subtotal_pence, travel_distance_miles, travel_surcharge_pence, total_pence,
	          status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	logger.DatabaseCall("INSERT", "table", "bookings", "reference", b.Reference)
	_, err = tx.ExecContext(ctx, query, b.ID, b.Reference, b.CustomerID, nullString(b.ClientRequestID),
		b.Vehicle.Make, b.Vehicle.Model, b.Vehicle.Year, b.Vehicle.Color, b.Vehicle.SizeID, b.Vehicle.Registration,
		b.Address.Line1, b.Address.Line2, b.Address.City, b.Address.County, b.Address.Postcode,
		b.ScheduledDate, b.TimeSlotID, b.CustomerNotes,
		b.ServiceSubtotalPence, b.TravelDistanceMiles, b.TravelSurchargePence, b.TotalPence,
		b.Status, b.CreatedOn, b.UpdatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrDuplicateRequest
		}
		logger.ExitMethodWithError("bookingRepository.Create", err, "reference", b.Reference)
		return err
	}

	for i, l := range b.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO booking_lines (booking_id, position, service_id, service_name, price_pence) VALUES ($1, $2, $3, $4, $5)`,
			b.ID, i, l.ServiceID, l.ServiceName, l.PricePence)
		if err != nil {
			logger.ExitMethodWithError("bookingRepository.Create", err, "reason", "insert line")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err, "reason", "commit")
		return err
	}

	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID, "reference", b.Reference)
	return nil
}

func (r *bookingRepository) getOne(ctx context.Context, where string, arg any) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where, arg))
	if err != nil {
		return nil, notFound(err)
	}
	out := []domain.Booking{*b}
	if err := r.loadLines(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, `reference = $1`, reference)
}

func (r *bookingRepository) GetByClientRequestID(ctx context.Context, clientRequestID string) (*domain.Booking, error) {
	return r.getOne(ctx, `client_request_id = $1`, clientRequestID)
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY scheduled_date DESC, created_on DESC`, customerID)
}

func (r *bookingRepository) ListByDate(ctx context.Context, date string, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE scheduled_date = $1 AND status = $2 ORDER BY created_on`, date, status)
}

func (r *bookingRepository) List(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	logger.EnterMethod("bookingRepository.List", "status", status, "page", page, "pageSize", pageSize)

	where := ""
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings`+where, args...).Scan(&count); err != nil {
		logger.ExitMethodWithError("bookingRepository.List", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY scheduled_date DESC, created_on DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	bookings, err := r.list(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.List", err)
		return nil, 0, err
	}

	logger.ExitMethod("bookingRepository.List", "count", len(bookings), "total", count)
	return bookings, count, nil
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// loadLines fills in the service lines of the given bookings with one query.
func (r *bookingRepository) loadLines(ctx context.Context, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]string, len(bookings))
	index := make(map[string]int, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
		index[bookings[i].ID] = i
		bookings[i].Lines = []domain.BookingLine{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT booking_id, service_id, service_name, price_pence FROM booking_lines WHERE booking_id = ANY($1) ORDER BY booking_id, position`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID string
		var l domain.BookingLine
		if err := rows.Scan(&bookingID, &l.ServiceID, &l.ServiceName, &l.PricePence); err != nil {
			return err
		}
		if i, ok := index[bookingID]; ok {
			bookings[i].Lines = append(bookings[i].Lines, l)
		}
	}
	return rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) error {
	logger.EnterMethod("bookingRepository.UpdateStatus", "reference", reference, "status", status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current domain.BookingStatus
	var slotID string
	err = tx.QueryRowContext(ctx, `SELECT status, time_slot_id FROM bookings WHERE reference = $1 FOR UPDATE`, reference).
		Scan(&current, &slotID)
	if err != nil {
		err = notFound(err)
		logger.ExitMethodWithError("bookingRepository.UpdateStatus", err, "reference", reference)
		return err
	}
	if current == status {
		logger.ExitMethod("bookingRepository.UpdateStatus", "reference", reference, "changed", false)
		return nil
	}

	switch {
	case status == domain.BookingStatusCancelled:
		_, err = tx.ExecContext(ctx, `UPDATE time_slots SET booked_count = booked_count - 1 WHERE id = $1 AND booked_count > 0`, slotID)
		if err != nil {
			return err
		}
	case current == domain.BookingStatusCancelled:
		res, err := tx.ExecContext(ctx, `UPDATE time_slots SET booked_count = booked_count + 1 WHERE id = $1 AND booked_count < capacity`, slotID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrSlotUnavailable
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE bookings SET status = $1, updated_on = $2 WHERE reference = $3`, status, time.Now().UTC(), reference)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.UpdateStatus", err, "reference", reference)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("bookingRepository.UpdateStatus", "reference", reference, "from", current, "to", status)
	return nil
}

// MarkCompletedBefore completes confirmed bookings scheduled before date and returns how many changed.
func (r *bookingRepository) MarkCompletedBefore(ctx context.Context, date string) (int64, error) {
	logger.DatabaseCall("UPDATE", "table", "bookings", "before", date)
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_on = $2 WHERE status = $3 AND scheduled_date < $4`,
		domain.BookingStatusCompleted, time.Now().UTC(), domain.BookingStatusConfirmed, date)
	if err != nil {
		logger.DatabaseResult("UPDATE", err, "table", "bookings")
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", err, "table", "bookings", "rows", n)
	return n, err
}
