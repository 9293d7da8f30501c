package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lendaround-backend/internal/domain"
	"lendaround-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// cancellation_reason is nullable and only written on cancellation.
const bookingColumns = `id, item_id, borrower_id, lender_id, start_date, end_date, total_days, total_amount_cents, deposit_cents, status, payment_status, COALESCE(cancellation_reason, ''), cancelled_at, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.ItemID, &b.BorrowerID, &b.LenderID, &b.StartDate, &b.EndDate,
		&b.TotalDays, &b.TotalAmountCents, &b.DepositCents, &b.Status, &b.PaymentStatus,
		&b.CancellationReason, &b.CancelledAt, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (item_id, borrower_id, lender_id, start_date, end_date, total_days, total_amount_cents, deposit_cents, status, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		b.ItemID, b.BorrowerID, b.LenderID, b.StartDate, b.EndDate,
		b.TotalDays, b.TotalAmountCents, b.DepositCents, b.Status, b.PaymentStatus,
		now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("booking %d", id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, payment_status=$2, cancellation_reason=$3, cancelled_at=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, b.Status, b.PaymentStatus, b.CancellationReason, b.CancelledAt, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) ListByItem(ctx context.Context, itemID int32, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id = $1`
	args := []interface{}{itemID}
	if len(statuses) > 0 {
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(strs))
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListByBorrower(ctx context.Context, borrowerID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "borrower_id", borrowerID, status, page, pageSize)
}

func (r *bookingRepository) ListByLender(ctx context.Context, lenderID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.listByParty(ctx, "lender_id", lenderID, status, page, pageSize)
}

func (r *bookingRepository) listByParty(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`

	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}
