package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"onetracker/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PgRepository is the Postgres-backed booking repository.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.BusinessName,
		&b.WorkEmail,
		&b.ContactNumber,
		&b.BookingDatetime,
		&b.Message,
		&b.Timezone,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.BookingDatetime = b.BookingDatetime.UTC()
	return &b, nil
}

// Create re-checks the slot inside the insert transaction so two concurrent
// requests cannot both claim the same datetime; the unique index on
// booking_datetime backstops the re-check.
func (r *PgRepository) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE booking_datetime = $1
		)
	`, b.BookingDatetime).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if exists {
		return nil, ErrSlotTaken
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO bookings (id, name, business_name, work_email, contact_number, booking_datetime, message, timezone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING id, name, business_name, work_email, contact_number, booking_datetime, message, timezone, created_at
	`, b.ID, b.Name, b.BusinessName, b.WorkEmail, b.ContactNumber, b.BookingDatetime, b.Message, b.Timezone)

	created, err := scanBooking(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, business_name, work_email, contact_number, booking_datetime, message, timezone, created_at
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, business_name, work_email, contact_number, booking_datetime, message, timezone, created_at
		FROM bookings
		ORDER BY booking_datetime DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *PgRepository) ListPage(ctx context.Context, offset, limit int) ([]models.Booking, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, business_name, work_email, contact_number, booking_datetime, message, timezone, created_at
		FROM bookings
		ORDER BY booking_datetime DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PgRepository) BookedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT booking_datetime FROM bookings
		WHERE booking_datetime >= $1 AND booking_datetime < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t.UTC())
	}
	return result, rows.Err()
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	var result []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
