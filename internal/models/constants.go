package models

// Tour booking lifecycle.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment lifecycle of a tour booking.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Vehicle booking lifecycle.
const (
	VehicleStatusPending   = "pending"
	VehicleStatusApproved  = "approved"
	VehicleStatusRejected  = "rejected"
	VehicleStatusCancelled = "cancelled"
)

// Sheets sync task lifecycle.
const (
	SyncStatusPending   = "pending"
	SyncStatusRetry     = "retry"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// Sync task types.
const (
	SyncTaskBookingCreated   = "booking_created"
	SyncTaskBookingUpdated   = "booking_updated"
	SyncTaskBookingCancelled = "booking_cancelled"
)

const (
	// DateFormat is the wire format for calendar dates.
	DateFormat = "2006-01-02"

	// OTPLength is the number of digits in a password-reset code.
	OTPLength = 6

	// OTPTTLMinutes is how long a password-reset code stays valid.
	OTPTTLMinutes = 10

	// TokenTTLDays is the default bearer token lifetime.
	TokenTTLDays = 7

	// WorkerQueueSize is the in-memory sync queue capacity.
	WorkerQueueSize = 128
)
