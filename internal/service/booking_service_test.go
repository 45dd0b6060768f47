package service

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"travelbook/internal/database"
	"travelbook/internal/events"
	"travelbook/internal/models"
	"travelbook/internal/worker"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) CreateBookingTx(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookingStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingStore) GetBookingDetail(ctx context.Context, id int64) (*models.BookingDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDetail), args.Error(1)
}
func (m *mockBookingStore) ListUserBookings(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingDetail), args.Error(1)
}
func (m *mockBookingStore) ListAllBookings(ctx context.Context) ([]models.BookingDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingDetail), args.Error(1)
}
func (m *mockBookingStore) UpdateBookingTx(ctx context.Context, id int64, patch database.BookingPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}
func (m *mockBookingStore) CancelBookingTx(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSheets struct {
	mock.Mock
}

func (m *mockSheets) EnqueueTask(ctx context.Context, task worker.SheetTask) error {
	return m.Called(ctx, task).Error(0)
}

func bookingDetail(id, userID int64, status string) *models.BookingDetail {
	return &models.BookingDetail{
		Booking: models.Booking{
			ID:            id,
			UserID:        userID,
			TourID:        1,
			TourDateID:    1,
			Participants:  2,
			TotalPrice:    200,
			BookingStatus: status,
			PaymentStatus: models.PaymentStatusPending,
		},
		TourName:        "Beach Escape",
		DestinationName: "Goa",
		DepartureDate:   "2026-10-01",
		UserName:        "Alice",
		UserEmail:       "alice@example.com",
	}
}

func TestBookingService(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	newService := func() (*BookingService, *mockBookingStore, *mockEventBus, *mockSheets) {
		store := new(mockBookingStore)
		bus := new(mockEventBus)
		sheets := new(mockSheets)
		return NewBookingService(store, bus, sheets, "", &logger), store, bus, sheets
	}

	t.Run("Create", func(t *testing.T) {
		svc, store, bus, sheets := newService()

		store.On("CreateBookingTx", ctx, mock.AnythingOfType("*models.Booking")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Booking).ID = 7
		}).Return(nil).Once()
		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusPending), nil).Once()
		bus.On("PublishJSON", events.EventBookingCreated, mock.Anything).Return(nil).Once()
		sheets.On("EnqueueTask", ctx, mock.MatchedBy(func(task worker.SheetTask) bool {
			return task.Type == worker.TaskUpsert && task.BookingID == 7
		})).Return(nil).Once()

		booking, err := svc.Create(ctx, 1, 1, 2, "window seat")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), booking.ID)
		store.AssertExpectations(t)
		bus.AssertExpectations(t)
		sheets.AssertExpectations(t)
	})

	t.Run("CreateValidation", func(t *testing.T) {
		svc, _, _, _ := newService()

		var vErr *ValidationError
		_, err := svc.Create(ctx, 1, 0, 2, "")
		assert.ErrorAs(t, err, &vErr)

		_, err = svc.Create(ctx, 1, 1, 0, "")
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("CreateInsufficientSeats", func(t *testing.T) {
		svc, store, _, _ := newService()

		seatErr := &database.InsufficientSeatsError{Remaining: 1}
		store.On("CreateBookingTx", ctx, mock.AnythingOfType("*models.Booking")).Return(seatErr).Once()

		_, err := svc.Create(ctx, 1, 1, 4, "")
		var got *database.InsufficientSeatsError
		assert.ErrorAs(t, err, &got)
		assert.Equal(t, 1, got.Remaining)
	})

	t.Run("GetForbidden", func(t *testing.T) {
		svc, store, _, _ := newService()

		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusPending), nil).Once()

		_, err := svc.Get(ctx, 2, false, 7)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("GetAsAdmin", func(t *testing.T) {
		svc, store, _, _ := newService()

		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusPending), nil).Once()

		detail, err := svc.Get(ctx, 99, true, 7)
		assert.NoError(t, err)
		assert.Equal(t, "Beach Escape", detail.TourName)
	})

	t.Run("UpdateOwnerIgnoresStatus", func(t *testing.T) {
		svc, store, bus, sheets := newService()

		confirmed := models.BookingStatusConfirmed
		requests := "vegetarian meals"

		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusPending).Booking, nil).Once()
		store.On("UpdateBookingTx", ctx, int64(7), database.BookingPatch{SpecialRequests: &requests}).Return(nil).Once()
		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusPending), nil).Once()
		sheets.On("EnqueueTask", ctx, mock.MatchedBy(func(task worker.SheetTask) bool {
			return task.Type == worker.TaskUpsert
		})).Return(nil).Once()

		err := svc.Update(ctx, 1, false, 7, UpdateRequest{SpecialRequests: &requests, BookingStatus: &confirmed})
		assert.NoError(t, err)
		store.AssertExpectations(t)
		bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
	})

	t.Run("UpdateAdminConfirms", func(t *testing.T) {
		svc, store, bus, sheets := newService()

		confirmed := models.BookingStatusConfirmed
		patch := database.BookingPatch{BookingStatus: &confirmed}

		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusPending).Booking, nil).Once()
		store.On("UpdateBookingTx", ctx, int64(7), patch).Return(nil).Once()
		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusConfirmed), nil).Once()
		bus.On("PublishJSON", events.EventBookingConfirmed, mock.Anything).Return(nil).Once()
		sheets.On("EnqueueTask", ctx, mock.MatchedBy(func(task worker.SheetTask) bool {
			return task.Type == worker.TaskUpdateStatus && task.Status == models.BookingStatusConfirmed
		})).Return(nil).Once()

		err := svc.Update(ctx, 99, true, 7, UpdateRequest{BookingStatus: &confirmed})
		assert.NoError(t, err)
		store.AssertExpectations(t)
		bus.AssertExpectations(t)
		sheets.AssertExpectations(t)
	})

	t.Run("UpdateInvalidStatus", func(t *testing.T) {
		svc, store, _, _ := newService()

		bogus := "teleported"
		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusPending).Booking, nil).Once()

		var vErr *ValidationError
		err := svc.Update(ctx, 99, true, 7, UpdateRequest{BookingStatus: &bogus})
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("UpdateEmptyPatch", func(t *testing.T) {
		svc, store, _, _ := newService()

		confirmed := models.BookingStatusConfirmed
		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusPending).Booking, nil).Once()

		// Owner sending only a status field ends up with an empty patch.
		var vErr *ValidationError
		err := svc.Update(ctx, 1, false, 7, UpdateRequest{BookingStatus: &confirmed})
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Cancel", func(t *testing.T) {
		svc, store, bus, sheets := newService()

		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusConfirmed).Booking, nil).Once()
		store.On("CancelBookingTx", ctx, int64(7)).Return(nil).Once()
		store.On("GetBookingDetail", ctx, int64(7)).Return(bookingDetail(7, 1, models.BookingStatusCancelled), nil).Once()
		bus.On("PublishJSON", events.EventBookingCancelled, mock.Anything).Return(nil).Once()
		sheets.On("EnqueueTask", ctx, mock.MatchedBy(func(task worker.SheetTask) bool {
			return task.Type == worker.TaskUpdateStatus && task.Status == models.BookingStatusCancelled
		})).Return(nil).Once()

		err := svc.Cancel(ctx, 1, false, 7)
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("CancelForbidden", func(t *testing.T) {
		svc, store, _, _ := newService()

		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusPending).Booking, nil).Once()

		err := svc.Cancel(ctx, 2, false, 7)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ExportArchivesWorkbook", func(t *testing.T) {
		store := new(mockBookingStore)
		dir := t.TempDir()
		svc := NewBookingService(store, nil, nil, dir, &logger)

		store.On("ListAllBookings", ctx).Return([]models.BookingDetail{
			*bookingDetail(7, 1, models.BookingStatusConfirmed),
		}, nil).Once()

		data, err := svc.Export(ctx)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)

		entries, err := os.ReadDir(dir)
		assert.NoError(t, err)
		if assert.Len(t, entries, 1) {
			assert.True(t, strings.HasPrefix(entries[0].Name(), "bookings_export_"))
			assert.True(t, strings.HasSuffix(entries[0].Name(), ".xlsx"))
		}
	})

	t.Run("CancelAlreadyCancelled", func(t *testing.T) {
		svc, store, _, _ := newService()

		store.On("GetBooking", ctx, int64(7)).Return(&bookingDetail(7, 1, models.BookingStatusCancelled).Booking, nil).Once()
		store.On("CancelBookingTx", ctx, int64(7)).Return(database.ErrAlreadyCancelled).Once()

		err := svc.Cancel(ctx, 1, false, 7)
		assert.ErrorIs(t, err, database.ErrAlreadyCancelled)
	})
}
