// Package domain holds the interfaces that decouple services from their
// infrastructure.
package domain

import (
	"context"
	"time"

	"travelbook/internal/database"
	"travelbook/internal/models"
)

// UserStore covers account and credential persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, name, phone, address string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	UpdateUserPasswordByEmail(ctx context.Context, email, passwordHash string) error
	SetUserAdmin(ctx context.Context, id int64, isAdmin bool) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveOTP(ctx context.Context, email, code string) error
	ConsumeOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// CatalogStore covers destinations, tours, departures and reviews.
type CatalogStore interface {
	CreateDestination(ctx context.Context, d *models.Destination) error
	GetDestination(ctx context.Context, id int64) (*models.Destination, error)
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	SearchDestinations(ctx context.Context, term string) ([]models.Destination, error)
	UpdateDestination(ctx context.Context, d *models.Destination) error
	DeleteDestination(ctx context.Context, id int64) error

	CreateTour(ctx context.Context, tour *models.Tour) error
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	ListTours(ctx context.Context, destinationID int64) ([]models.Tour, error)
	UpdateTour(ctx context.Context, tour *models.Tour) error
	DeleteTour(ctx context.Context, id int64) error
	CreateTourDate(ctx context.Context, td *models.TourDate) error
	GetTourDate(ctx context.Context, id int64) (*models.TourDate, error)
	ListTourDates(ctx context.Context, tourID int64) ([]models.TourDate, error)

	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id int64) (*models.Review, error)
	ListTourReviews(ctx context.Context, tourID int64) ([]models.ReviewDetail, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id int64) error
	TourRating(ctx context.Context, tourID int64) (float64, int, error)
}

// BookingStore covers tour booking persistence.
type BookingStore interface {
	CreateBookingTx(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingDetail(ctx context.Context, id int64) (*models.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID int64) ([]models.BookingDetail, error)
	ListAllBookings(ctx context.Context) ([]models.BookingDetail, error)
	UpdateBookingTx(ctx context.Context, id int64, patch database.BookingPatch) error
	CancelBookingTx(ctx context.Context, id int64) error
}

// VehicleStore covers vehicles and their bookings.
type VehicleStore interface {
	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, vehicleType string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *models.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error

	CreateVehicleBookingTx(ctx context.Context, b *models.VehicleBooking) error
	GetVehicleBooking(ctx context.Context, id int64) (*models.VehicleBooking, error)
	ApproveVehicleBookingTx(ctx context.Context, id int64) error
	SetVehicleBookingStatus(ctx context.Context, id int64, status string) error
	RescheduleVehicleBooking(ctx context.Context, id int64, from, to time.Time, timeOfDay string) error
	ListUserVehicleBookings(ctx context.Context, userID int64) ([]models.VehicleBookingDetail, error)
	ListAllVehicleBookings(ctx context.Context) ([]models.VehicleBookingDetail, error)
	ListApprovedVehicleRanges(ctx context.Context, vehicleID int64) ([]models.DateRange, error)
}

// EventPublisher decouples services from the event bus.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// CalendarCache stores the booked-date lists shown on vehicle availability
// calendars. A miss is not an error; callers fall through to the database.
type CalendarCache interface {
	GetCalendar(ctx context.Context, vehicleID int64) ([]string, bool, error)
	SetCalendar(ctx context.Context, vehicleID int64, dates []string) error
	Invalidate(ctx context.Context, vehicleID int64) error
}

// Notifier pushes human-readable messages about domain events to the
// managers' channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
