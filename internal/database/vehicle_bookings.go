package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

// countApprovedOverlaps counts approved bookings for the vehicle whose closed
// date range [from, to] intersects the given one. excludeID skips one booking,
// pass 0 to check them all.
func countApprovedOverlaps(ctx context.Context, tx *sql.Tx, vehicleID int64, from, to time.Time, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM vehicle_bookings
              WHERE vehicle_id = ? AND status = ? AND id != ?
                AND from_date <= ? AND to_date >= ?`
	var count int
	err := tx.QueryRowContext(ctx, query,
		vehicleID, models.VehicleStatusApproved, excludeID,
		to.Format(models.DateFormat), from.Format(models.DateFormat),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// CreateVehicleBookingTx inserts a pending request after checking that no
// approved booking already holds any of the requested days. Pending requests
// may overlap each other; approval decides between them.
func (db *DB) CreateVehicleBookingTx(ctx context.Context, b *models.VehicleBooking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE id = ?`, b.VehicleID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check vehicle: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	overlaps, err := countApprovedOverlaps(ctx, tx, b.VehicleID, b.FromDate, b.ToDate, 0)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return ErrVehicleUnavailable
	}

	b.Status = models.VehicleStatusPending
	now := time.Now()
	query := `INSERT INTO vehicle_bookings (
                user_id, vehicle_id, from_date, to_date, time, status,
                from_place, to_place, travel_details, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		b.UserID,
		b.VehicleID,
		b.FromDate.Format(models.DateFormat),
		b.ToDate.Format(models.DateFormat),
		b.Time,
		b.Status,
		b.FromPlace,
		b.ToPlace,
		b.TravelDetails,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now

	return tx.Commit()
}

// ApproveVehicleBookingTx re-validates the overlap before flipping the status
// to approved. Between request and approval another booking may have been
// approved for the same days; the first approval wins.
func (db *DB) ApproveVehicleBookingTx(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var vehicleID int64
	var fromStr, toStr string
	query := `SELECT vehicle_id, from_date, to_date FROM vehicle_bookings WHERE id = ?`
	err = tx.QueryRowContext(ctx, query, id).Scan(&vehicleID, &fromStr, &toStr)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query vehicle booking in tx: %w", err)
	}

	from, err := time.Parse(models.DateFormat, fromStr)
	if err != nil {
		return fmt.Errorf("failed to parse from_date: %w", err)
	}
	to, err := time.Parse(models.DateFormat, toStr)
	if err != nil {
		return fmt.Errorf("failed to parse to_date: %w", err)
	}

	overlaps, err := countApprovedOverlaps(ctx, tx, vehicleID, from, to, id)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return ErrVehicleUnavailable
	}

	queryUpdate := `UPDATE vehicle_bookings SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, queryUpdate, models.VehicleStatusApproved, time.Now(), id); err != nil {
		return fmt.Errorf("failed to approve vehicle booking: %w", err)
	}

	return tx.Commit()
}

// SetVehicleBookingStatus covers the non-approval transitions: rejected and
// cancelled. Approval goes through ApproveVehicleBookingTx.
func (db *DB) SetVehicleBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE vehicle_bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set vehicle booking status: %w", err)
	}
	return requireRowAffected(result)
}

// RescheduleVehicleBooking changes the dates and time of a request and drops
// it back to pending, so a manager has to look at it again.
func (db *DB) RescheduleVehicleBooking(ctx context.Context, id int64, from, to time.Time, timeOfDay string) error {
	query := `UPDATE vehicle_bookings
              SET from_date = ?, to_date = ?, time = ?, status = ?, updated_at = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		from.Format(models.DateFormat),
		to.Format(models.DateFormat),
		timeOfDay,
		models.VehicleStatusPending,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to reschedule vehicle booking: %w", err)
	}
	return requireRowAffected(result)
}

func (db *DB) GetVehicleBooking(ctx context.Context, id int64) (*models.VehicleBooking, error) {
	query := `SELECT id, user_id, vehicle_id, from_date, to_date, time, status,
                     from_place, to_place, travel_details, created_at, updated_at
              FROM vehicle_bookings WHERE id = ?`

	var b models.VehicleBooking
	var fromStr, toStr string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.VehicleID, &fromStr, &toStr, &b.Time, &b.Status,
		&b.FromPlace, &b.ToPlace, &b.TravelDetails, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle booking: %w", err)
	}
	if b.FromDate, err = time.Parse(models.DateFormat, fromStr); err != nil {
		return nil, fmt.Errorf("failed to parse from_date: %w", err)
	}
	if b.ToDate, err = time.Parse(models.DateFormat, toStr); err != nil {
		return nil, fmt.Errorf("failed to parse to_date: %w", err)
	}
	return &b, nil
}

const vehicleBookingDetailQuery = `
    SELECT vb.id, vb.user_id, vb.vehicle_id, vb.from_date, vb.to_date, vb.time, vb.status,
           vb.from_place, vb.to_place, vb.travel_details, vb.created_at, vb.updated_at,
           v.name, v.type, u.name, u.email
    FROM vehicle_bookings vb
    JOIN vehicles v ON v.id = vb.vehicle_id
    JOIN users u ON u.id = vb.user_id`

func (db *DB) ListUserVehicleBookings(ctx context.Context, userID int64) ([]models.VehicleBookingDetail, error) {
	query := vehicleBookingDetailQuery + ` WHERE vb.user_id = ? ORDER BY vb.created_at DESC`
	return db.queryVehicleBookingDetails(ctx, query, userID)
}

func (db *DB) ListAllVehicleBookings(ctx context.Context) ([]models.VehicleBookingDetail, error) {
	query := vehicleBookingDetailQuery + ` ORDER BY vb.created_at DESC`
	return db.queryVehicleBookingDetails(ctx, query)
}

func (db *DB) queryVehicleBookingDetails(ctx context.Context, query string, args ...interface{}) ([]models.VehicleBookingDetail, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.VehicleBookingDetail
	for rows.Next() {
		var b models.VehicleBookingDetail
		var fromStr, toStr string
		err := rows.Scan(
			&b.ID, &b.UserID, &b.VehicleID, &fromStr, &toStr, &b.Time, &b.Status,
			&b.FromPlace, &b.ToPlace, &b.TravelDetails, &b.CreatedAt, &b.UpdatedAt,
			&b.VehicleName, &b.VehicleType, &b.UserName, &b.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle booking: %w", err)
		}
		if b.FromDate, err = time.Parse(models.DateFormat, fromStr); err != nil {
			return nil, fmt.Errorf("failed to parse from_date: %w", err)
		}
		if b.ToDate, err = time.Parse(models.DateFormat, toStr); err != nil {
			return nil, fmt.Errorf("failed to parse to_date: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListApprovedVehicleRanges returns the approved date ranges for a vehicle,
// for the availability calendar.
func (db *DB) ListApprovedVehicleRanges(ctx context.Context, vehicleID int64) ([]models.DateRange, error) {
	query := `SELECT from_date, to_date FROM vehicle_bookings
              WHERE vehicle_id = ? AND status = ?
              ORDER BY from_date ASC`
	rows, err := db.QueryContext(ctx, query, vehicleID, models.VehicleStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved ranges: %w", err)
	}
	defer rows.Close()

	var ranges []models.DateRange
	for rows.Next() {
		var fromStr, toStr string
		if err := rows.Scan(&fromStr, &toStr); err != nil {
			return nil, fmt.Errorf("failed to scan approved range: %w", err)
		}
		from, err := time.Parse(models.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse from_date: %w", err)
		}
		to, err := time.Parse(models.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse to_date: %w", err)
		}
		ranges = append(ranges, models.DateRange{From: from, To: to})
	}
	return ranges, rows.Err()
}
