package models

import "time"

type Booking struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TourID          int64     `json:"tour_id"`
	TourDateID      int64     `json:"tour_date_id"`
	Participants    int       `json:"number_of_participants"`
	TotalPrice      float64   `json:"total_price"`
	BookingStatus   string    `json:"booking_status"`
	PaymentStatus   string    `json:"payment_status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TourID    int64     `json:"tour_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
