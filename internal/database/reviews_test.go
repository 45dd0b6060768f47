package database

import (
	"context"
	"testing"

	"travelbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmBooking(t *testing.T, db *DB, bookingID int64) {
	t.Helper()
	status := models.BookingStatusConfirmed
	require.NoError(t, db.UpdateBookingTx(context.Background(), bookingID, BookingPatch{BookingStatus: &status}))
}

func TestCreateReviewRequiresConfirmedBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	tourDate := createTestTourDate(t, db, tour.ID, 10, 1.0)

	review := &models.Review{UserID: user.ID, TourID: tour.ID, Rating: 5, Comment: "great"}

	// No booking at all.
	err := db.CreateReview(ctx, review)
	assert.ErrorIs(t, err, ErrReviewNotAllowed)

	// Pending booking is not enough.
	booking := &models.Booking{UserID: user.ID, TourDateID: tourDate.ID, Participants: 1}
	require.NoError(t, db.CreateBookingTx(ctx, booking))
	err = db.CreateReview(ctx, review)
	assert.ErrorIs(t, err, ErrReviewNotAllowed)

	confirmBooking(t, db, booking.ID)
	require.NoError(t, db.CreateReview(ctx, review))
	require.NotZero(t, review.ID)
}

func TestCreateReviewOncePerTour(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	tourDate := createTestTourDate(t, db, tour.ID, 10, 1.0)

	booking := &models.Booking{UserID: user.ID, TourDateID: tourDate.ID, Participants: 1}
	require.NoError(t, db.CreateBookingTx(ctx, booking))
	confirmBooking(t, db, booking.ID)

	first := &models.Review{UserID: user.ID, TourID: tour.ID, Rating: 4}
	require.NoError(t, db.CreateReview(ctx, first))

	second := &models.Review{UserID: user.ID, TourID: tour.ID, Rating: 2}
	err := db.CreateReview(ctx, second)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewUpdateDeleteAndRating(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	tourDate := createTestTourDate(t, db, tour.ID, 10, 1.0)

	for _, u := range []*models.User{alice, bob} {
		booking := &models.Booking{UserID: u.ID, TourDateID: tourDate.ID, Participants: 1}
		require.NoError(t, db.CreateBookingTx(ctx, booking))
		confirmBooking(t, db, booking.ID)
	}

	r1 := &models.Review{UserID: alice.ID, TourID: tour.ID, Rating: 5, Comment: "amazing"}
	require.NoError(t, db.CreateReview(ctx, r1))
	r2 := &models.Review{UserID: bob.ID, TourID: tour.ID, Rating: 3}
	require.NoError(t, db.CreateReview(ctx, r2))

	avg, count, err := db.TourRating(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 2, count)

	r1.Rating = 1
	require.NoError(t, db.UpdateReview(ctx, r1))

	avg, _, err = db.TourRating(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, avg)

	reviews, err := db.ListTourReviews(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.NotEmpty(t, reviews[0].UserName)

	require.NoError(t, db.DeleteReview(ctx, r2.ID))
	_, count, err = db.TourRating(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
