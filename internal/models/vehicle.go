package models

import "time"

type Vehicle struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// VehicleBooking is a request to use a vehicle over a closed date interval
// [FromDate, ToDate]. ToDate equals FromDate for single-day bookings; Time is
// only meaningful for those.
type VehicleBooking struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	VehicleID     int64     `json:"vehicle_id"`
	FromDate      time.Time `json:"from_date"`
	ToDate        time.Time `json:"to_date"`
	Time          string    `json:"time,omitempty"`
	Status        string    `json:"status"`
	FromPlace     string    `json:"from_place"`
	ToPlace       string    `json:"to_place"`
	TravelDetails string    `json:"travel_details,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Dates enumerates every date in the range, inclusive, formatted as
// YYYY-MM-DD. An inverted range yields nothing.
func (r DateRange) Dates() []string {
	var dates []string
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateFormat))
	}
	return dates
}

// SingleDay reports whether the booking covers exactly one date.
func (b *VehicleBooking) SingleDay() bool {
	return b.FromDate.Equal(b.ToDate)
}

// Overlaps applies the closed-interval test against another date range.
func (b *VehicleBooking) Overlaps(from, to time.Time) bool {
	return !b.FromDate.After(to) && !b.ToDate.Before(from)
}
