package models

// BookingDetail is a booking joined with its tour, departure and customer,
// as listings and exports present it.
type BookingDetail struct {
	Booking
	TourName        string  `json:"tour_name"`
	DestinationName string  `json:"destination_name"`
	DepartureDate   string  `json:"departure_date"`
	TourPrice       float64 `json:"tour_price"`
	UserName        string  `json:"user_name,omitempty"`
	UserEmail       string  `json:"user_email,omitempty"`
}

// VehicleBookingDetail is a vehicle booking joined with vehicle and customer.
type VehicleBookingDetail struct {
	VehicleBooking
	VehicleName string `json:"vehicle_name"`
	VehicleType string `json:"vehicle_type"`
	UserName    string `json:"user_name,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
}

// ReviewDetail is a review joined with the author's display name.
type ReviewDetail struct {
	Review
	UserName string `json:"user_name"`
}
