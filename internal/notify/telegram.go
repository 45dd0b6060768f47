// Package notify pushes booking activity to the managers' Telegram chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"travelbook/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the part of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// NewTelegramNotifierWithSender wires a custom sender, used in tests.
func NewTelegramNotifierWithSender(sender TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: sender, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) Notify(_ context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}

// SubscribeAll registers the notifier on every booking event. Delivery
// failures are logged, never propagated to the publisher.
func (n *TelegramNotifier) SubscribeAll(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.onBookingEvent("New tour booking"))
	bus.Subscribe(events.EventBookingConfirmed, n.onBookingEvent("Tour booking confirmed"))
	bus.Subscribe(events.EventBookingCancelled, n.onBookingEvent("Tour booking cancelled"))

	bus.Subscribe(events.EventVehicleRequested, n.onVehicleEvent("New vehicle request"))
	bus.Subscribe(events.EventVehicleApproved, n.onVehicleEvent("Vehicle booking approved"))
	bus.Subscribe(events.EventVehicleRejected, n.onVehicleEvent("Vehicle booking rejected"))
	bus.Subscribe(events.EventVehicleCancelled, n.onVehicleEvent("Vehicle booking cancelled"))
}

func (n *TelegramNotifier) onBookingEvent(title string) events.EventHandler {
	return func(event *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("failed to decode booking event")
			return nil
		}

		text := fmt.Sprintf("%s\n#%d %s\n%s, departs %s\n%d participants, %.2f total",
			title, p.BookingID, p.UserName, p.TourName, p.Departure, p.Participants, p.TotalPrice)
		if err := n.Notify(context.Background(), text); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("telegram notification failed")
		}
		return nil
	}
}

func (n *TelegramNotifier) onVehicleEvent(title string) events.EventHandler {
	return func(event *events.Event) error {
		var p events.VehicleEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("failed to decode vehicle event")
			return nil
		}

		text := fmt.Sprintf("%s\n#%d %s\n%s, %s to %s",
			title, p.BookingID, p.UserName, p.VehicleName, p.FromDate, p.ToDate)
		if err := n.Notify(context.Background(), text); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("telegram notification failed")
		}
		return nil
	}
}
