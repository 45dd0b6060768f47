package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/models"
)

// CreateReview inserts a review after verifying the author holds a confirmed
// booking for the tour. One review per user per tour.
func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var confirmed int
	query := `SELECT COUNT(*) FROM bookings
              WHERE user_id = ? AND tour_id = ? AND booking_status = ?`
	err = tx.QueryRowContext(ctx, query, review.UserID, review.TourID, models.BookingStatusConfirmed).Scan(&confirmed)
	if err != nil {
		return fmt.Errorf("failed to check confirmed booking: %w", err)
	}
	if confirmed == 0 {
		return ErrReviewNotAllowed
	}

	now := time.Now()
	queryInsert := `INSERT INTO reviews (user_id, tour_id, rating, comment, created_at, updated_at)
                    VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert,
		review.UserID, review.TourID, review.Rating, review.Comment, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	review.ID = id
	review.CreatedAt = now
	review.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	query := `SELECT id, user_id, tour_id, rating, comment, created_at, updated_at
              FROM reviews WHERE id = ?`

	var r models.Review
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.UserID, &r.TourID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	return &r, nil
}

func (db *DB) ListTourReviews(ctx context.Context, tourID int64) ([]models.ReviewDetail, error) {
	query := `SELECT r.id, r.user_id, r.tour_id, r.rating, r.comment, r.created_at, r.updated_at, u.name
              FROM reviews r
              JOIN users u ON u.id = r.user_id
              WHERE r.tour_id = ?
              ORDER BY r.created_at DESC`
	rows, err := db.QueryContext(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.ReviewDetail
	for rows.Next() {
		var r models.ReviewDetail
		err := rows.Scan(
			&r.ID, &r.UserID, &r.TourID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt, &r.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (db *DB) UpdateReview(ctx context.Context, review *models.Review) error {
	query := `UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, review.Rating, review.Comment, time.Now(), review.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireRowAffected(result)
}

func (db *DB) DeleteReview(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRowAffected(result)
}

// TourRating returns the average rating and review count for a tour. A tour
// with no reviews averages zero.
func (db *DB) TourRating(ctx context.Context, tourID int64) (float64, int, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE tour_id = ?`
	var avg float64
	var count int
	if err := db.QueryRowContext(ctx, query, tourID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to query tour rating: %w", err)
	}
	return avg, count, nil
}
