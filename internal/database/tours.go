package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

func (db *DB) CreateTour(ctx context.Context, tour *models.Tour) error {
	query := `INSERT INTO tours (name, description, destination_id, duration_days, price,
                                 image_url, included_services, itinerary, max_participants, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		tour.Name,
		tour.Description,
		tour.DestinationID,
		tour.DurationDays,
		tour.Price,
		tour.ImageURL,
		models.EncodeList(tour.IncludedServices),
		models.EncodeList(tour.Itinerary),
		tour.MaxParticipants,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	tour.ID = id
	tour.CreatedAt = now

	return nil
}

const tourColumns = `id, name, description, destination_id, duration_days, price,
                     image_url, included_services, itinerary, max_participants, created_at`

func (db *DB) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`

	var t models.Tour
	var services, itinerary string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.DestinationID, &t.DurationDays, &t.Price,
		&t.ImageURL, &services, &itinerary, &t.MaxParticipants, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tour: %w", err)
	}
	t.IncludedServices = models.DecodeList(services)
	t.Itinerary = models.DecodeList(itinerary)
	return &t, nil
}

// ListTours returns all tours, optionally filtered by destination.
func (db *DB) ListTours(ctx context.Context, destinationID int64) ([]models.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours`
	var args []interface{}
	if destinationID > 0 {
		query += ` WHERE destination_id = ?`
		args = append(args, destinationID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	defer rows.Close()

	var tours []models.Tour
	for rows.Next() {
		var t models.Tour
		var services, itinerary string
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.DestinationID, &t.DurationDays, &t.Price,
			&t.ImageURL, &services, &itinerary, &t.MaxParticipants, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		t.IncludedServices = models.DecodeList(services)
		t.Itinerary = models.DecodeList(itinerary)
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func (db *DB) UpdateTour(ctx context.Context, tour *models.Tour) error {
	query := `UPDATE tours
              SET name = ?, description = ?, destination_id = ?, duration_days = ?, price = ?,
                  image_url = ?, included_services = ?, itinerary = ?, max_participants = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		tour.Name,
		tour.Description,
		tour.DestinationID,
		tour.DurationDays,
		tour.Price,
		tour.ImageURL,
		models.EncodeList(tour.IncludedServices),
		models.EncodeList(tour.Itinerary),
		tour.MaxParticipants,
		tour.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tour: %w", err)
	}
	return requireRowAffected(result)
}

// DeleteTour refuses while any booking references the tour. Departure dates
// cascade away with the tour.
func (db *DB) DeleteTour(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var bookingCount int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE tour_id = ?`, id).Scan(&bookingCount)
	if err != nil {
		return fmt.Errorf("failed to count bookings for tour: %w", err)
	}
	if bookingCount > 0 {
		return ErrTourHasBookings
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if err := requireRowAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}

func (db *DB) CreateTourDate(ctx context.Context, td *models.TourDate) error {
	query := `INSERT INTO tour_dates (tour_id, departure_date, available_seats, price_modifier, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		td.TourID, td.DepartureDate, td.AvailableSeats, td.PriceModifier, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create tour date: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	td.ID = id
	td.CreatedAt = now

	return nil
}

func (db *DB) GetTourDate(ctx context.Context, id int64) (*models.TourDate, error) {
	query := `SELECT id, tour_id, departure_date, available_seats, price_modifier, created_at
              FROM tour_dates WHERE id = ?`

	var td models.TourDate
	err := db.QueryRowContext(ctx, query, id).Scan(
		&td.ID, &td.TourID, &td.DepartureDate, &td.AvailableSeats, &td.PriceModifier, &td.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tour date: %w", err)
	}
	return &td, nil
}

func (db *DB) ListTourDates(ctx context.Context, tourID int64) ([]models.TourDate, error) {
	query := `SELECT id, tour_id, departure_date, available_seats, price_modifier, created_at
              FROM tour_dates WHERE tour_id = ? ORDER BY departure_date ASC`
	rows, err := db.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tour dates: %w", err)
	}
	defer rows.Close()

	var dates []models.TourDate
	for rows.Next() {
		var td models.TourDate
		err := rows.Scan(
			&td.ID, &td.TourID, &td.DepartureDate, &td.AvailableSeats, &td.PriceModifier, &td.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour date: %w", err)
		}
		dates = append(dates, td)
	}
	return dates, rows.Err()
}
