package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

func (db *DB) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	query := `INSERT INTO vehicles (name, type, description, image_url, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, v.Name, v.Type, v.Description, v.ImageURL, now)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	v.ID = id
	v.CreatedAt = now

	return nil
}

func (db *DB) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT id, name, type, description, image_url, created_at
              FROM vehicles WHERE id = ?`

	var v models.Vehicle
	err := db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Type, &v.Description, &v.ImageURL, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle: %w", err)
	}
	return &v, nil
}

// ListVehicles returns all vehicles, optionally filtered by type.
func (db *DB) ListVehicles(ctx context.Context, vehicleType string) ([]models.Vehicle, error) {
	query := `SELECT id, name, type, description, image_url, created_at FROM vehicles`
	var args []interface{}
	if vehicleType != "" {
		query += ` WHERE type = ?`
		args = append(args, vehicleType)
	}
	query += ` ORDER BY name ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		err := rows.Scan(&v.ID, &v.Name, &v.Type, &v.Description, &v.ImageURL, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (db *DB) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	query := `UPDATE vehicles SET name = ?, type = ?, description = ?, image_url = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, v.Name, v.Type, v.Description, v.ImageURL, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return requireRowAffected(result)
}

// DeleteVehicle removes the vehicle and, via the schema, its bookings.
func (db *DB) DeleteVehicle(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return requireRowAffected(result)
}
