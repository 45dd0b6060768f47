package service

import (
	"context"
	"sort"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/metrics"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

type VehicleService struct {
	store    domain.VehicleStore
	cache    domain.CalendarCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewVehicleService(store domain.VehicleStore, cache domain.CalendarCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *VehicleService {
	return &VehicleService{
		store:    store,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *VehicleService) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.Name == "" {
		return invalid("vehicle name is required")
	}
	if v.Type == "" {
		return invalid("vehicle type is required")
	}
	return s.store.CreateVehicle(ctx, v)
}

func (s *VehicleService) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.store.GetVehicle(ctx, id)
}

func (s *VehicleService) ListVehicles(ctx context.Context, vehicleType string) ([]models.Vehicle, error) {
	return s.store.ListVehicles(ctx, vehicleType)
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	if v.Name == "" || v.Type == "" {
		return invalid("vehicle name and type are required")
	}
	return s.store.UpdateVehicle(ctx, v)
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.store.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.invalidateCalendar(ctx, id)
	return nil
}

// BookingRequest is a new vehicle booking. ToDate falls back to FromDate for
// single-day trips; Time is kept only for those.
type BookingRequest struct {
	VehicleID     int64
	FromDate      time.Time
	ToDate        time.Time
	Time          string
	FromPlace     string
	ToPlace       string
	TravelDetails string
}

func (s *VehicleService) Request(ctx context.Context, userID int64, req BookingRequest) (*models.VehicleBooking, error) {
	if req.VehicleID <= 0 {
		return nil, invalid("vehicle_id is required")
	}
	if req.FromDate.IsZero() {
		return nil, invalid("from_date is required")
	}
	if req.FromPlace == "" || req.ToPlace == "" {
		return nil, invalid("from_place and to_place are required")
	}

	if req.ToDate.IsZero() {
		req.ToDate = req.FromDate
	}
	if req.ToDate.Before(req.FromDate) {
		return nil, invalid("to_date must not be before from_date")
	}
	if !req.FromDate.Equal(req.ToDate) {
		req.Time = ""
	}

	booking := &models.VehicleBooking{
		UserID:        userID,
		VehicleID:     req.VehicleID,
		FromDate:      req.FromDate,
		ToDate:        req.ToDate,
		Time:          req.Time,
		FromPlace:     req.FromPlace,
		ToPlace:       req.ToPlace,
		TravelDetails: req.TravelDetails,
	}
	if err := s.store.CreateVehicleBookingTx(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBooking("vehicle")
	s.logger.Info().Int64("booking_id", booking.ID).Int64("vehicle_id", booking.VehicleID).Msg("vehicle booking requested")

	s.invalidateCalendar(ctx, booking.VehicleID)
	s.publishVehicleEvent(ctx, events.EventVehicleRequested, booking.ID)
	return booking, nil
}

func (s *VehicleService) List(ctx context.Context, actorID int64, isAdmin bool) ([]models.VehicleBookingDetail, error) {
	if isAdmin {
		return s.store.ListAllVehicleBookings(ctx)
	}
	return s.store.ListUserVehicleBookings(ctx, actorID)
}

// BookingPatch is a vehicle booking update. Admins may change the status and
// reschedule; owners may reschedule (which drops the request back to pending)
// or cancel.
type BookingPatch struct {
	Status   *string
	FromDate *time.Time
	ToDate   *time.Time
	Time     *string
}

func (s *VehicleService) Update(ctx context.Context, actorID int64, isAdmin bool, bookingID int64, patch BookingPatch) error {
	booking, err := s.store.GetVehicleBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	isOwner := booking.UserID == actorID
	if !isOwner && !isAdmin {
		return ErrForbidden
	}

	if patch.Status == nil && patch.FromDate == nil && patch.ToDate == nil && patch.Time == nil {
		return invalid("no updatable fields provided")
	}

	if patch.FromDate != nil || patch.ToDate != nil || patch.Time != nil {
		if err := s.reschedule(ctx, booking, patch); err != nil {
			return err
		}
	}

	if patch.Status != nil {
		if err := s.transition(ctx, booking, *patch.Status, isAdmin); err != nil {
			return err
		}
	}

	s.invalidateCalendar(ctx, booking.VehicleID)
	return nil
}

func (s *VehicleService) reschedule(ctx context.Context, booking *models.VehicleBooking, patch BookingPatch) error {
	from := booking.FromDate
	to := booking.ToDate
	timeOfDay := booking.Time

	if patch.FromDate != nil {
		from = *patch.FromDate
	}
	if patch.ToDate != nil {
		to = *patch.ToDate
	}
	if patch.Time != nil {
		timeOfDay = *patch.Time
	}

	if to.Before(from) {
		return invalid("to_date must not be before from_date")
	}
	if !from.Equal(to) {
		timeOfDay = ""
	}

	// Any date change voids a previous decision, the request goes back to
	// the managers.
	if err := s.store.RescheduleVehicleBooking(ctx, booking.ID, from, to, timeOfDay); err != nil {
		return err
	}

	s.logger.Info().Int64("booking_id", booking.ID).Msg("vehicle booking rescheduled, back to pending")
	return nil
}

func (s *VehicleService) transition(ctx context.Context, booking *models.VehicleBooking, status string, isAdmin bool) error {
	switch status {
	case models.VehicleStatusApproved:
		if !isAdmin {
			return ErrForbidden
		}
		if err := s.store.ApproveVehicleBookingTx(ctx, booking.ID); err != nil {
			return err
		}
		s.publishVehicleEvent(ctx, events.EventVehicleApproved, booking.ID)
	case models.VehicleStatusRejected:
		if !isAdmin {
			return ErrForbidden
		}
		if err := s.store.SetVehicleBookingStatus(ctx, booking.ID, status); err != nil {
			return err
		}
		s.publishVehicleEvent(ctx, events.EventVehicleRejected, booking.ID)
	case models.VehicleStatusCancelled:
		// Owners may cancel their own request.
		if err := s.store.SetVehicleBookingStatus(ctx, booking.ID, status); err != nil {
			return err
		}
		s.publishVehicleEvent(ctx, events.EventVehicleCancelled, booking.ID)
	case models.VehicleStatusPending:
		if !isAdmin {
			return ErrForbidden
		}
		if err := s.store.SetVehicleBookingStatus(ctx, booking.ID, status); err != nil {
			return err
		}
	default:
		return invalid("invalid status")
	}
	return nil
}

// Calendar returns every booked date for a vehicle, cache first.
func (s *VehicleService) Calendar(ctx context.Context, vehicleID int64) ([]string, error) {
	if _, err := s.store.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		dates, found, err := s.cache.GetCalendar(ctx, vehicleID)
		if err == nil && found {
			metrics.IncCalendarCache("hit")
			return dates, nil
		}
		metrics.IncCalendarCache("miss")
	}

	ranges, err := s.store.ListApprovedVehicleRanges(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var dates []string
	for _, r := range ranges {
		for _, d := range r.Dates() {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Strings(dates)

	if s.cache != nil {
		if err := s.cache.SetCalendar(ctx, vehicleID, dates); err != nil {
			s.logger.Warn().Err(err).Int64("vehicle_id", vehicleID).Msg("failed to cache calendar")
		}
	}
	return dates, nil
}

func (s *VehicleService) invalidateCalendar(ctx context.Context, vehicleID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, vehicleID); err != nil {
		s.logger.Warn().Err(err).Int64("vehicle_id", vehicleID).Msg("failed to invalidate calendar cache")
	}
}

func (s *VehicleService) publishVehicleEvent(ctx context.Context, eventType string, bookingID int64) {
	if s.eventBus == nil {
		return
	}

	booking, err := s.store.GetVehicleBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("failed to load vehicle booking for event")
		return
	}

	payload := events.VehicleEventPayload{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		VehicleID: booking.VehicleID,
		FromDate:  booking.FromDate.Format(models.DateFormat),
		ToDate:    booking.ToDate.Format(models.DateFormat),
		Status:    booking.Status,
	}
	if vehicle, err := s.store.GetVehicle(ctx, booking.VehicleID); err == nil {
		payload.VehicleName = vehicle.Name
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish vehicle event")
	}
}
