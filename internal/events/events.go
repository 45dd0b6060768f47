package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"

	EventVehicleRequested = "vehicle_booking_requested"
	EventVehicleApproved  = "vehicle_booking_approved"
	EventVehicleRejected  = "vehicle_booking_rejected"
	EventVehicleCancelled = "vehicle_booking_cancelled"
)

// BookingEventPayload is the minimal tour booking snapshot for consumers.
type BookingEventPayload struct {
	BookingID    int64   `json:"booking_id"`
	UserID       int64   `json:"user_id"`
	UserName     string  `json:"user_name"`
	TourID       int64   `json:"tour_id"`
	TourName     string  `json:"tour_name"`
	Departure    string  `json:"departure"`
	Participants int     `json:"participants"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status"`
}

// VehicleEventPayload is the minimal vehicle booking snapshot for consumers.
type VehicleEventPayload struct {
	BookingID   int64  `json:"booking_id"`
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	VehicleID   int64  `json:"vehicle_id"`
	VehicleName string `json:"vehicle_name"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Status      string `json:"status"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
