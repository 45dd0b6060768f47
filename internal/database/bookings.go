package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

// CreateBookingTx checks seat availability, freezes the price and decrements
// seats in a single transaction. The seat check and the decrement must not be
// separated, otherwise two concurrent bookings can both pass the check.
func (db *DB) CreateBookingTx(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var availableSeats int
	var priceModifier, tourPrice float64
	var tourID int64
	query := `SELECT td.tour_id, td.available_seats, td.price_modifier, t.price
              FROM tour_dates td
              JOIN tours t ON t.id = td.tour_id
              WHERE td.id = ?`
	err = tx.QueryRowContext(ctx, query, booking.TourDateID).Scan(
		&tourID, &availableSeats, &priceModifier, &tourPrice,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check availability in tx: %w", err)
	}

	if availableSeats < booking.Participants {
		return &InsufficientSeatsError{Remaining: availableSeats}
	}

	booking.TourID = tourID
	booking.TotalPrice = tourPrice * priceModifier * float64(booking.Participants)
	if booking.BookingStatus == "" {
		booking.BookingStatus = models.BookingStatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusPending
	}

	now := time.Now()
	queryInsert := `INSERT INTO bookings (
                user_id, tour_id, tour_date_id, participants, total_price,
                booking_status, payment_status, special_requests, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.UserID,
		booking.TourID,
		booking.TourDateID,
		booking.Participants,
		booking.TotalPrice,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.SpecialRequests,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	queryUpdate := `UPDATE tour_dates SET available_seats = available_seats - ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryUpdate, booking.Participants, booking.TourDateID); err != nil {
		return fmt.Errorf("failed to decrement seats: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, user_id, tour_id, tour_date_id, participants, total_price,
                     booking_status, payment_status, special_requests, created_at, updated_at
              FROM bookings WHERE id = ?`

	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.TourID, &b.TourDateID, &b.Participants, &b.TotalPrice,
		&b.BookingStatus, &b.PaymentStatus, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return &b, nil
}

const bookingDetailQuery = `
    SELECT b.id, b.user_id, b.tour_id, b.tour_date_id, b.participants, b.total_price,
           b.booking_status, b.payment_status, b.special_requests, b.created_at, b.updated_at,
           t.name, d.name, td.departure_date, t.price,
           u.name, u.email
    FROM bookings b
    JOIN tours t ON t.id = b.tour_id
    JOIN destinations d ON d.id = t.destination_id
    JOIN tour_dates td ON td.id = b.tour_date_id
    JOIN users u ON u.id = b.user_id`

func (db *DB) GetBookingDetail(ctx context.Context, id int64) (*models.BookingDetail, error) {
	details, err := db.queryBookingDetails(ctx, bookingDetailQuery+` WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}

func (db *DB) ListUserBookings(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	return db.queryBookingDetails(ctx, query, userID)
}

func (db *DB) ListAllBookings(ctx context.Context) ([]models.BookingDetail, error) {
	query := bookingDetailQuery + ` ORDER BY b.created_at DESC`
	return db.queryBookingDetails(ctx, query)
}

func (db *DB) queryBookingDetails(ctx context.Context, query string, args ...interface{}) ([]models.BookingDetail, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.BookingDetail
	for rows.Next() {
		var b models.BookingDetail
		var departure time.Time
		err := rows.Scan(
			&b.ID, &b.UserID, &b.TourID, &b.TourDateID, &b.Participants, &b.TotalPrice,
			&b.BookingStatus, &b.PaymentStatus, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt,
			&b.TourName, &b.DestinationName, &departure, &b.TourPrice,
			&b.UserName, &b.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.DepartureDate = departure.Format(models.DateFormat)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// BookingPatch carries the updatable booking fields. Nil means leave as is.
type BookingPatch struct {
	SpecialRequests *string
	BookingStatus   *string
	PaymentStatus   *string
}

// UpdateBookingTx applies a patch. A status change into or out of cancelled
// restores or re-takes the seats so the seat pool stays consistent.
func (db *DB) UpdateBookingTx(ctx context.Context, id int64, patch BookingPatch) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status string
	var participants int
	var tourDateID int64
	query := `SELECT booking_status, participants, tour_date_id FROM bookings WHERE id = ?`
	err = tx.QueryRowContext(ctx, query, id).Scan(&status, &participants, &tourDateID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query booking in tx: %w", err)
	}

	if patch.BookingStatus != nil && *patch.BookingStatus != status {
		wasCancelled := status == models.BookingStatusCancelled
		willCancel := *patch.BookingStatus == models.BookingStatusCancelled

		if willCancel && !wasCancelled {
			if err := adjustSeats(ctx, tx, tourDateID, participants); err != nil {
				return err
			}
		}
		if wasCancelled && !willCancel {
			if err := adjustSeats(ctx, tx, tourDateID, -participants); err != nil {
				return err
			}
		}
	}

	set := `updated_at = ?`
	args := []interface{}{time.Now()}
	if patch.SpecialRequests != nil {
		set += `, special_requests = ?`
		args = append(args, *patch.SpecialRequests)
	}
	if patch.BookingStatus != nil {
		set += `, booking_status = ?`
		args = append(args, *patch.BookingStatus)
	}
	if patch.PaymentStatus != nil {
		set += `, payment_status = ?`
		args = append(args, *patch.PaymentStatus)
	}
	args = append(args, id)

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET `+set+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return tx.Commit()
}

// CancelBookingTx marks the booking cancelled and restores its seats to the
// departure, exactly once.
func (db *DB) CancelBookingTx(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var status string
	var participants int
	var tourDateID int64
	query := `SELECT booking_status, participants, tour_date_id FROM bookings WHERE id = ?`
	err = tx.QueryRowContext(ctx, query, id).Scan(&status, &participants, &tourDateID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query booking in tx: %w", err)
	}

	if status == models.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	queryUpdate := `UPDATE bookings SET booking_status = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryUpdate, models.BookingStatusCancelled, time.Now(), id); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := adjustSeats(ctx, tx, tourDateID, participants); err != nil {
		return err
	}

	return tx.Commit()
}

// adjustSeats adds delta seats to a departure. A negative delta re-takes seats
// and fails with InsufficientSeatsError when not enough remain.
func adjustSeats(ctx context.Context, tx *sql.Tx, tourDateID int64, delta int) error {
	if delta < 0 {
		var available int
		err := tx.QueryRowContext(ctx, `SELECT available_seats FROM tour_dates WHERE id = ?`, tourDateID).Scan(&available)
		if err != nil {
			return fmt.Errorf("failed to check seats in tx: %w", err)
		}
		if available < -delta {
			return &InsufficientSeatsError{Remaining: available}
		}
	}

	query := `UPDATE tour_dates SET available_seats = available_seats + ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, delta, tourDateID); err != nil {
		return fmt.Errorf("failed to adjust seats: %w", err)
	}
	return nil
}
