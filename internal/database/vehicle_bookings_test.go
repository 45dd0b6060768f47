package database

import (
	"context"
	"testing"
	"time"

	"travelbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestVehicle(t *testing.T, db *DB) *models.Vehicle {
	t.Helper()
	v := &models.Vehicle{Name: "Tempo Traveller", Type: "van"}
	require.NoError(t, db.CreateVehicle(context.Background(), v))
	return v
}

func date(s string) time.Time {
	d, err := time.Parse(models.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newVehicleBooking(userID, vehicleID int64, from, to string) *models.VehicleBooking {
	return &models.VehicleBooking{
		UserID:    userID,
		VehicleID: vehicleID,
		FromDate:  date(from),
		ToDate:    date(to),
		FromPlace: "Airport",
		ToPlace:   "Hotel",
	}
}

func TestCreateVehicleBookingTx(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", false)
	vehicle := createTestVehicle(t, db)

	b := newVehicleBooking(user.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, b))
	require.NotZero(t, b.ID)
	assert.Equal(t, models.VehicleStatusPending, b.Status)

	got, err := db.GetVehicleBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.FromDate.Equal(date("2026-09-10")))
	assert.True(t, got.ToDate.Equal(date("2026-09-12")))
}

func TestCreateVehicleBookingUnknownVehicle(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "alice@example.com", false)
	b := newVehicleBooking(user.ID, 9999, "2026-09-10", "2026-09-12")
	err := db.CreateVehicleBookingTx(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingRequestsMayOverlap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	vehicle := createTestVehicle(t, db)

	first := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, first))

	// Same days, still pending, so the request goes through.
	second := newVehicleBooking(bob.ID, vehicle.ID, "2026-09-11", "2026-09-13")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, second))
}

func TestCreateRejectedAgainstApproved(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	vehicle := createTestVehicle(t, db)

	approved := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, approved))
	require.NoError(t, db.ApproveVehicleBookingTx(ctx, approved.ID))

	cases := []struct {
		name     string
		from, to string
		wantErr  bool
	}{
		{"identical", "2026-09-10", "2026-09-12", true},
		{"contained", "2026-09-11", "2026-09-11", true},
		{"overlaps end", "2026-09-12", "2026-09-14", true},
		{"overlaps start", "2026-09-08", "2026-09-10", true},
		{"adjacent before", "2026-09-08", "2026-09-09", false},
		{"adjacent after", "2026-09-13", "2026-09-15", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newVehicleBooking(bob.ID, vehicle.ID, tc.from, tc.to)
			err := db.CreateVehicleBookingTx(ctx, b)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrVehicleUnavailable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApproveRevalidatesOverlap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	vehicle := createTestVehicle(t, db)

	first := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, first))

	second := newVehicleBooking(bob.ID, vehicle.ID, "2026-09-11", "2026-09-13")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, second))

	// First approval wins; the second now collides.
	require.NoError(t, db.ApproveVehicleBookingTx(ctx, first.ID))
	err := db.ApproveVehicleBookingTx(ctx, second.ID)
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	got, err := db.GetVehicleBooking(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusPending, got.Status)
}

func TestApproveIgnoresOwnRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	vehicle := createTestVehicle(t, db)

	b := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, b))
	require.NoError(t, db.ApproveVehicleBookingTx(ctx, b.ID))

	// Approving an already approved booking stays idempotent.
	assert.NoError(t, db.ApproveVehicleBookingTx(ctx, b.ID))
}

func TestRescheduleResetsToPending(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	vehicle := createTestVehicle(t, db)

	b := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, b))
	require.NoError(t, db.ApproveVehicleBookingTx(ctx, b.ID))

	err := db.RescheduleVehicleBooking(ctx, b.ID, date("2026-09-20"), date("2026-09-21"), "10:00")
	require.NoError(t, err)

	got, err := db.GetVehicleBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusPending, got.Status)
	assert.True(t, got.FromDate.Equal(date("2026-09-20")))
	assert.Equal(t, "10:00", got.Time)
}

func TestListApprovedVehicleRanges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	vehicle := createTestVehicle(t, db)

	approved := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-12")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, approved))
	require.NoError(t, db.ApproveVehicleBookingTx(ctx, approved.ID))

	pending := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-20", "2026-09-22")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, pending))

	ranges, err := db.ListApprovedVehicleRanges(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, ranges, 1, "pending requests stay off the calendar")
	assert.Equal(t, []string{"2026-09-10", "2026-09-11", "2026-09-12"}, ranges[0].Dates())
}

func TestVehicleBookingDetails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	bob := createTestUser(t, db, "bob@example.com", false)
	vehicle := createTestVehicle(t, db)

	require.NoError(t, db.CreateVehicleBookingTx(ctx, newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-10")))
	require.NoError(t, db.CreateVehicleBookingTx(ctx, newVehicleBooking(bob.ID, vehicle.ID, "2026-09-11", "2026-09-11")))

	mine, err := db.ListUserVehicleBookings(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Tempo Traveller", mine[0].VehicleName)

	all, err := db.ListAllVehicleBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteVehicleCascadesBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", false)
	vehicle := createTestVehicle(t, db)

	b := newVehicleBooking(alice.ID, vehicle.ID, "2026-09-10", "2026-09-10")
	require.NoError(t, db.CreateVehicleBookingTx(ctx, b))

	require.NoError(t, db.DeleteVehicle(ctx, vehicle.ID))

	_, err := db.GetVehicleBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
