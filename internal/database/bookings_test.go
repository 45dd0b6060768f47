package database

import (
	"context"
	"testing"

	"travelbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingTx(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 10, 1.5)

	booking := &models.Booking{
		UserID:       user.ID,
		TourDateID:   date.ID,
		Participants: 4,
	}
	require.NoError(t, db.CreateBookingTx(ctx, booking))
	require.NotZero(t, booking.ID)

	// Price frozen at tour price * modifier * participants.
	assert.Equal(t, 600.0, booking.TotalPrice)
	assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)
	assert.Equal(t, tour.ID, booking.TourID)

	got, err := db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.AvailableSeats)
}

func TestCreateBookingTxInsufficientSeats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 3, 1.0)

	booking := &models.Booking{UserID: user.ID, TourDateID: date.ID, Participants: 5}
	err := db.CreateBookingTx(ctx, booking)

	var seatsErr *InsufficientSeatsError
	require.ErrorAs(t, err, &seatsErr)
	assert.Equal(t, 3, seatsErr.Remaining)

	// Nothing was written.
	got, err := db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AvailableSeats)
}

func TestCreateBookingTxUnknownDate(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "alice@example.com", false)
	booking := &models.Booking{UserID: user.ID, TourDateID: 9999, Participants: 1}
	err := db.CreateBookingTx(context.Background(), booking)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBookingTx(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 10, 1.0)

	booking := &models.Booking{UserID: user.ID, TourDateID: date.ID, Participants: 4}
	require.NoError(t, db.CreateBookingTx(ctx, booking))

	require.NoError(t, db.CancelBookingTx(ctx, booking.ID))

	// Seats restored, status flipped.
	got, err := db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableSeats)

	cancelled, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.BookingStatus)

	// Second cancel must not restore seats again.
	err = db.CancelBookingTx(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	got, err = db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableSeats)
}

func TestUpdateBookingTxStatusSeatAccounting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 10, 1.0)

	booking := &models.Booking{UserID: user.ID, TourDateID: date.ID, Participants: 4}
	require.NoError(t, db.CreateBookingTx(ctx, booking))

	confirmed := models.BookingStatusConfirmed
	require.NoError(t, db.UpdateBookingTx(ctx, booking.ID, BookingPatch{BookingStatus: &confirmed}))

	got, err := db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.AvailableSeats, "pending to confirmed must not touch seats")

	cancelled := models.BookingStatusCancelled
	require.NoError(t, db.UpdateBookingTx(ctx, booking.ID, BookingPatch{BookingStatus: &cancelled}))

	got, err = db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableSeats, "cancelling via update restores seats")

	// Reinstating takes the seats back.
	require.NoError(t, db.UpdateBookingTx(ctx, booking.ID, BookingPatch{BookingStatus: &confirmed}))

	got, err = db.GetTourDate(ctx, date.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.AvailableSeats)
}

func TestUpdateBookingTxFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 10, 1.0)

	booking := &models.Booking{UserID: user.ID, TourDateID: date.ID, Participants: 2}
	require.NoError(t, db.CreateBookingTx(ctx, booking))

	requests := "window seats"
	paid := models.PaymentStatusPaid
	require.NoError(t, db.UpdateBookingTx(ctx, booking.ID, BookingPatch{
		SpecialRequests: &requests,
		PaymentStatus:   &paid,
	}))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "window seats", got.SpecialRequests)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, models.BookingStatusPending, got.BookingStatus)

	err = db.UpdateBookingTx(ctx, 9999, BookingPatch{SpecialRequests: &requests})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBookingDetails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	dest := createTestDestination(t, db)
	tour := createTestTour(t, db, dest.ID, 100)
	date := createTestTourDate(t, db, tour.ID, 10, 1.0)

	for _, userID := range []int64{alice.ID, bob.ID} {
		b := &models.Booking{UserID: userID, TourDateID: date.ID, Participants: 1}
		require.NoError(t, db.CreateBookingTx(ctx, b))
	}

	mine, err := db.ListUserBookings(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Beach Escape", mine[0].TourName)
	assert.Equal(t, "Goa", mine[0].DestinationName)
	assert.NotEmpty(t, mine[0].DepartureDate)

	all, err := db.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
