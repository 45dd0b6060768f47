package models

import (
	"encoding/json"
	"time"
)

type Tour struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	DestinationID    int64     `json:"destination_id"`
	DurationDays     int       `json:"duration_days"`
	Price            float64   `json:"price"`
	ImageURL         string    `json:"image_url,omitempty"`
	IncludedServices []string  `json:"included_services"`
	Itinerary        []string  `json:"itinerary"`
	MaxParticipants  int       `json:"max_participants,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// TourDate is a single departure of a tour with its own seat inventory.
type TourDate struct {
	ID             int64     `json:"id"`
	TourID         int64     `json:"tour_id"`
	DepartureDate  time.Time `json:"departure_date"`
	AvailableSeats int       `json:"available_seats"`
	PriceModifier  float64   `json:"price_modifier"`
	CreatedAt      time.Time `json:"created_at"`
}

// EncodeList serializes a string list for TEXT storage. Nil becomes "[]".
func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// DecodeList parses a TEXT column back into a string list.
// Malformed or empty input yields an empty list, never an error.
func DecodeList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	if items == nil {
		return []string{}
	}
	return items
}
