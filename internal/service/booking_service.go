package service

import (
	"context"

	"travelbook/internal/database"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/metrics"
	"travelbook/internal/models"
	"travelbook/internal/worker"

	"github.com/rs/zerolog"
)

// SheetsEnqueuer schedules spreadsheet sync work. Nil-safe at call sites so
// the feature stays optional.
type SheetsEnqueuer interface {
	EnqueueTask(ctx context.Context, task worker.SheetTask) error
}

type BookingService struct {
	store     domain.BookingStore
	eventBus  domain.EventPublisher
	sheets    SheetsEnqueuer
	exportDir string
	logger    *zerolog.Logger
}

// NewBookingService wires the booking workflow. exportDir is where xlsx
// exports are archived; empty disables the on-disk copy.
func NewBookingService(store domain.BookingStore, eventBus domain.EventPublisher, sheets SheetsEnqueuer, exportDir string, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:     store,
		eventBus:  eventBus,
		sheets:    sheets,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Create books seats on a departure. The total price is frozen inside the
// same transaction that decrements the seats.
func (s *BookingService) Create(ctx context.Context, userID, tourDateID int64, participants int, specialRequests string) (*models.Booking, error) {
	if tourDateID <= 0 {
		return nil, invalid("tour_date_id is required")
	}
	if participants <= 0 {
		return nil, invalid("number_of_participants must be positive")
	}

	booking := &models.Booking{
		UserID:          userID,
		TourDateID:      tourDateID,
		Participants:    participants,
		SpecialRequests: specialRequests,
	}
	if err := s.store.CreateBookingTx(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBooking("tour")
	s.logger.Info().Int64("booking_id", booking.ID).Int64("user_id", userID).Msg("tour booking created")

	s.afterChange(ctx, booking.ID, events.EventBookingCreated, worker.TaskUpsert, "")
	return booking, nil
}

// Get returns a booking to its owner or an admin.
func (s *BookingService) Get(ctx context.Context, actorID int64, isAdmin bool, bookingID int64) (*models.BookingDetail, error) {
	detail, err := s.store.GetBookingDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != actorID && !isAdmin {
		return nil, ErrForbidden
	}
	return detail, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	return s.store.ListUserBookings(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]models.BookingDetail, error) {
	return s.store.ListAllBookings(ctx)
}

// UpdateRequest carries the updatable booking fields. Owners may change the
// special requests; the status fields take effect only for admins.
type UpdateRequest struct {
	SpecialRequests *string
	BookingStatus   *string
	PaymentStatus   *string
}

var validBookingStatuses = map[string]bool{
	models.BookingStatusPending:   true,
	models.BookingStatusConfirmed: true,
	models.BookingStatusCancelled: true,
}

var validPaymentStatuses = map[string]bool{
	models.PaymentStatusPending:  true,
	models.PaymentStatusPaid:     true,
	models.PaymentStatusRefunded: true,
}

func (s *BookingService) Update(ctx context.Context, actorID int64, isAdmin bool, bookingID int64, req UpdateRequest) error {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != actorID && !isAdmin {
		return ErrForbidden
	}

	patch := database.BookingPatch{SpecialRequests: req.SpecialRequests}

	// Status fields are admin only; for everyone else they are ignored, not
	// rejected.
	if isAdmin {
		if req.BookingStatus != nil && !validBookingStatuses[*req.BookingStatus] {
			return invalid("invalid booking_status")
		}
		if req.PaymentStatus != nil && !validPaymentStatuses[*req.PaymentStatus] {
			return invalid("invalid payment_status")
		}
		patch.BookingStatus = req.BookingStatus
		patch.PaymentStatus = req.PaymentStatus
	}

	if patch.SpecialRequests == nil && patch.BookingStatus == nil && patch.PaymentStatus == nil {
		return invalid("no updatable fields provided")
	}

	if err := s.store.UpdateBookingTx(ctx, bookingID, patch); err != nil {
		return err
	}

	if patch.BookingStatus != nil && *patch.BookingStatus != booking.BookingStatus {
		switch *patch.BookingStatus {
		case models.BookingStatusConfirmed:
			s.afterChange(ctx, bookingID, events.EventBookingConfirmed, worker.TaskUpdateStatus, models.BookingStatusConfirmed)
		case models.BookingStatusCancelled:
			s.afterChange(ctx, bookingID, events.EventBookingCancelled, worker.TaskUpdateStatus, models.BookingStatusCancelled)
		default:
			s.afterChange(ctx, bookingID, "", worker.TaskUpsert, "")
		}
	} else {
		s.afterChange(ctx, bookingID, "", worker.TaskUpsert, "")
	}
	return nil
}

// Cancel flips the booking to cancelled and returns the seats. Owner or
// admin only; cancelling twice fails.
func (s *BookingService) Cancel(ctx context.Context, actorID int64, isAdmin bool, bookingID int64) error {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != actorID && !isAdmin {
		return ErrForbidden
	}

	if err := s.store.CancelBookingTx(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info().Int64("booking_id", bookingID).Msg("tour booking cancelled")
	s.afterChange(ctx, bookingID, events.EventBookingCancelled, worker.TaskUpdateStatus, models.BookingStatusCancelled)
	return nil
}

// afterChange publishes the lifecycle event and schedules the spreadsheet
// sync. Both are best effort; the booking itself is already committed.
func (s *BookingService) afterChange(ctx context.Context, bookingID int64, eventType, taskType, status string) {
	detail, err := s.store.GetBookingDetail(ctx, bookingID)
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("failed to load booking for post-processing")
		return
	}

	if eventType != "" && s.eventBus != nil {
		payload := events.BookingEventPayload{
			BookingID:    detail.ID,
			UserID:       detail.UserID,
			UserName:     detail.UserName,
			TourID:       detail.TourID,
			TourName:     detail.TourName,
			Departure:    detail.DepartureDate,
			Participants: detail.Participants,
			TotalPrice:   detail.TotalPrice,
			Status:       detail.BookingStatus,
		}
		if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
			s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish booking event")
		}
	}

	if s.sheets != nil {
		task := worker.SheetTask{Type: taskType, BookingID: detail.ID, Booking: detail, Status: status}
		if err := s.sheets.EnqueueTask(ctx, task); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", detail.ID).Msg("failed to enqueue sheets sync")
		}
	}
}
