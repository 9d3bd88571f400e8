package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/constructai/demobooking/internal/entity"
)

const bookingColumns = `
	id, contact_id, demo_start, duration_minutes, status, contact_method,
	notes, meeting_link, notification_sent, reminder_sent, rescheduled_from, created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// isUniqueViolation: класс 23505, нарушение уникального индекса.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func scanBooking(row interface{ Scan(...interface{}) error }) (*entity.Booking, error) {
	var b entity.Booking
	var notes, link sql.NullString
	var reschedFrom sql.NullInt64
	err := row.Scan(
		&b.ID,
		&b.ContactID,
		&b.DemoStart,
		&b.DurationMinutes,
		&b.Status,
		&b.ContactMethod,
		&notes,
		&link,
		&b.NotificationSent,
		&b.ReminderSent,
		&reschedFrom,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Notes = notes.String
	b.MeetingLink = link.String
	if reschedFrom.Valid {
		b.RescheduledFrom = &reschedFrom.Int64
	}
	return &b, nil
}

// CreateScheduled inserts a new active booking within a transaction.
// The partial unique index on demo_start is the authoritative guard:
// a concurrent insert for the same slot loses with a unique violation.
func (r *bookingRepository) CreateScheduled(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `
		INSERT INTO demo_bookings (
			contact_id, demo_start, duration_minutes, status, contact_method,
			notes, notification_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, false, $7, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		booking.ContactID,
		booking.DemoStart,
		booking.DurationMinutes,
		entity.BookingStatusScheduled,
		booking.ContactMethod,
		booking.Notes,
		now,
	).Scan(&booking.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrSlotConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	query = `UPDATE contacts SET demo_scheduled = true, demo_date = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, booking.DemoStart, booking.ContactID); err != nil {
		return fmt.Errorf("failed to update contact demo flags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return entity.ErrSlotConflict
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Status = entity.BookingStatusScheduled
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM demo_bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) GetWithContact(ctx context.Context, id int64) (*entity.Booking, *entity.Contact, error) {
	query := `
		SELECT
			b.id, b.contact_id, b.demo_start, b.duration_minutes, b.status,
			b.contact_method, b.notes, b.meeting_link, b.notification_sent,
			b.reminder_sent, b.rescheduled_from, b.created_at, b.updated_at,
			c.id, c.email, c.contact_name, c.company_name, c.phone,
			c.demo_scheduled, c.demo_date, c.demo_completed, c.created_at
		FROM demo_bookings b
		JOIN contacts c ON c.id = b.contact_id
		WHERE b.id = $1
	`

	var b entity.Booking
	var c entity.Contact
	var notes, link, phone sql.NullString
	var reschedFrom sql.NullInt64
	var demoDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ContactID, &b.DemoStart, &b.DurationMinutes, &b.Status,
		&b.ContactMethod, &notes, &link, &b.NotificationSent,
		&b.ReminderSent, &reschedFrom, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Email, &c.ContactName, &c.CompanyName, &phone,
		&c.DemoScheduled, &demoDate, &c.DemoCompleted, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get booking with contact: %w", err)
	}
	b.Notes = notes.String
	b.MeetingLink = link.String
	if reschedFrom.Valid {
		b.RescheduledFrom = &reschedFrom.Int64
	}
	c.Phone = phone.String
	if demoDate.Valid {
		c.DemoDate = &demoDate.Time
	}
	return &b, &c, nil
}

// UpdateStatus performs an optimistic transition: the row is updated only
// if it is still in the expected status. Zero rows affected means either
// the booking is gone or another writer changed the status first.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from, to entity.BookingStatus, notes string) (*entity.Booking, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE demo_bookings
		SET status = $1,
		    notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
		    updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + bookingColumns

	b, err := scanBooking(tx.QueryRowContext(ctx, query, to, notes, time.Now(), id, from))
	if err == sql.ErrNoRows {
		// Либо бронирования нет, либо статус успели сменить.
		var current entity.BookingStatus
		checkErr := tx.QueryRowContext(ctx, `SELECT status FROM demo_bookings WHERE id = $1`, id).Scan(&current)
		if checkErr == sql.ErrNoRows {
			return nil, entity.ErrBookingNotFound
		}
		if checkErr != nil {
			return nil, fmt.Errorf("failed to check booking status: %w", checkErr)
		}
		return nil, fmt.Errorf("%w: booking is %s, expected %s", entity.ErrInvalidTransition, current, from)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	if to == entity.BookingStatusCompleted {
		query = `UPDATE contacts SET demo_completed = true WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, b.ContactID); err != nil {
			return nil, fmt.Errorf("failed to update contact demo flags: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return b, nil
}

// Reschedule marks the old booking rescheduled and inserts the replacement
// in one transaction: either both rows land or neither does.
func (r *bookingRepository) Reschedule(ctx context.Context, id int64, newStart time.Time) (*entity.Booking, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + bookingColumns + ` FROM demo_bookings WHERE id = $1 FOR UPDATE`
	old, err := scanBooking(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}

	if !old.Status.IsActive() {
		return nil, fmt.Errorf("%w: cannot reschedule a %s booking", entity.ErrInvalidTransition, old.Status)
	}

	now := time.Now()
	query = `UPDATE demo_bookings SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, entity.BookingStatusRescheduled, now, id); err != nil {
		return nil, fmt.Errorf("failed to mark booking rescheduled: %w", err)
	}

	query = `
		INSERT INTO demo_bookings (
			contact_id, demo_start, duration_minutes, status, contact_method,
			notes, notification_sent, rescheduled_from, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8, $8)
		RETURNING ` + bookingColumns

	replacement, err := scanBooking(tx.QueryRowContext(ctx, query,
		old.ContactID,
		newStart,
		old.DurationMinutes,
		entity.BookingStatusScheduled,
		old.ContactMethod,
		old.Notes,
		old.ID,
		now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to insert replacement booking: %w", err)
	}

	query = `UPDATE contacts SET demo_date = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, newStart, old.ContactID); err != nil {
		return nil, fmt.Errorf("failed to update contact demo date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return replacement, nil
}

func (r *bookingRepository) SetMeetingLink(ctx context.Context, id int64, link string) error {
	query := `UPDATE demo_bookings SET meeting_link = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, link, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set meeting link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) MarkNotificationSent(ctx context.Context, id int64) error {
	query := `UPDATE demo_bookings SET notification_sent = true, updated_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, int64, error) {
	where := ""
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += " AND b.status = $" + strconv.Itoa(len(args))
	}
	if filter.ContactEmail != "" {
		args = append(args, filter.ContactEmail)
		where += " AND c.email = $" + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM demo_bookings b
		JOIN contacts c ON c.id = b.contact_id
		WHERE 1=1` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	query := `
		SELECT b.id, b.contact_id, b.demo_start, b.duration_minutes, b.status,
		       b.contact_method, b.notes, b.meeting_link, b.notification_sent,
		       b.reminder_sent, b.rescheduled_from, b.created_at, b.updated_at
		FROM demo_bookings b
		JOIN contacts c ON c.id = b.contact_id
		WHERE 1=1` + where + `
		ORDER BY b.demo_start DESC
		LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// GetActiveInRange возвращает активные бронирования с началом в [from, to).
// Один ограниченный запрос на всё окно листинга слотов.
func (r *bookingRepository) GetActiveInRange(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM demo_bookings
		WHERE status IN ($1, $2) AND demo_start >= $3 AND demo_start < $4
		ORDER BY demo_start
	`
	rows, err := r.db.QueryContext(ctx, query,
		entity.BookingStatusScheduled, entity.BookingStatusConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) GetUnnotified(ctx context.Context, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM demo_bookings
		WHERE status IN ($1, $2) AND notification_sent = false
		ORDER BY created_at
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query,
		entity.BookingStatusScheduled, entity.BookingStatusConfirmed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unnotified bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) GetActiveStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return r.GetActiveInRange(ctx, from, to)
}

// GetNeedingReminder возвращает активные бронирования без отправленного
// напоминания, начинающиеся в [from, to).
func (r *bookingRepository) GetNeedingReminder(ctx context.Context, from, to time.Time, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM demo_bookings
		WHERE status IN ($1, $2) AND reminder_sent = false
		  AND demo_start >= $3 AND demo_start < $4
		ORDER BY demo_start
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query,
		entity.BookingStatusScheduled, entity.BookingStatusConfirmed, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings needing reminder: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, id int64) error {
	query := `UPDATE demo_bookings SET reminder_sent = true, updated_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) GetStats(ctx context.Context, now time.Time) (*entity.BookingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'rescheduled'),
			COUNT(*) FILTER (WHERE status IN ('scheduled', 'confirmed') AND demo_start > $1),
			COUNT(*) FILTER (WHERE demo_start <= $1),
			COALESCE(MIN(created_at), $1)
		FROM demo_bookings
	`

	var stats entity.BookingStats
	var first time.Time
	err := r.db.QueryRowContext(ctx, query, now).Scan(
		&stats.Total,
		&stats.Scheduled,
		&stats.Confirmed,
		&stats.Completed,
		&stats.Cancelled,
		&stats.Rescheduled,
		&stats.Upcoming,
		&stats.Past,
		&first,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	days := now.Sub(first).Hours() / 24
	if days < 1 {
		days = 1
	}
	stats.PerDay = float64(stats.Total) / days
	return &stats, nil
}

func collectBookings(rows *sql.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}
