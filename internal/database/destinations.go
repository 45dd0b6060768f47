package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

func (db *DB) CreateDestination(ctx context.Context, d *models.Destination) error {
	query := `INSERT INTO destinations (name, description, image_url, country, state, city, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		d.Name, d.Description, d.ImageURL, d.Country, d.State, d.City, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now

	return nil
}

func (db *DB) GetDestination(ctx context.Context, id int64) (*models.Destination, error) {
	query := `SELECT id, name, description, image_url, country, state, city, created_at
              FROM destinations WHERE id = ?`

	var d models.Destination
	err := db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.Country, &d.State, &d.City, &d.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query destination: %w", err)
	}
	return &d, nil
}

func (db *DB) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	query := `SELECT id, name, description, image_url, country, state, city, created_at
              FROM destinations ORDER BY name ASC`
	return db.queryDestinations(ctx, query)
}

// SearchDestinations matches the term against name, country, state and city,
// case-insensitively.
func (db *DB) SearchDestinations(ctx context.Context, term string) ([]models.Destination, error) {
	query := `SELECT id, name, description, image_url, country, state, city, created_at
              FROM destinations
              WHERE name LIKE ? OR country LIKE ? OR state LIKE ? OR city LIKE ?
              ORDER BY name ASC`
	pattern := "%" + term + "%"
	return db.queryDestinations(ctx, query, pattern, pattern, pattern, pattern)
}

func (db *DB) queryDestinations(ctx context.Context, query string, args ...interface{}) ([]models.Destination, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	var destinations []models.Destination
	for rows.Next() {
		var d models.Destination
		err := rows.Scan(
			&d.ID, &d.Name, &d.Description, &d.ImageURL, &d.Country, &d.State, &d.City, &d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (db *DB) UpdateDestination(ctx context.Context, d *models.Destination) error {
	query := `UPDATE destinations
              SET name = ?, description = ?, image_url = ?, country = ?, state = ?, city = ?
              WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		d.Name, d.Description, d.ImageURL, d.Country, d.State, d.City, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update destination: %w", err)
	}
	return requireRowAffected(result)
}

// DeleteDestination refuses while any tour still references the destination.
func (db *DB) DeleteDestination(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var tourCount int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tours WHERE destination_id = ?`, id).Scan(&tourCount)
	if err != nil {
		return fmt.Errorf("failed to count tours for destination: %w", err)
	}
	if tourCount > 0 {
		return ErrDestinationHasTours
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete destination: %w", err)
	}
	if err := requireRowAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}
