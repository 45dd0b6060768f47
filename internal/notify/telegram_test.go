package notify

import (
	"context"
	"os"
	"strings"
	"testing"

	"travelbook/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	messages []string
	chatIDs  []int64
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if ok {
		f.messages = append(f.messages, msg.Text)
		f.chatIDs = append(f.chatIDs, msg.ChatID)
	}
	return tgbotapi.Message{}, nil
}

func TestNotifySendsToManagerChat(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.New(os.Stdout)
	notifier := NewTelegramNotifierWithSender(sender, 42, &logger)

	require.NoError(t, notifier.Notify(context.Background(), "hello"))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "hello", sender.messages[0])
	assert.Equal(t, int64(42), sender.chatIDs[0])
}

func TestSubscribeAllFormatsBookingEvents(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.New(os.Stdout)
	notifier := NewTelegramNotifierWithSender(sender, 42, &logger)

	bus := events.NewEventBus()
	notifier.SubscribeAll(bus)

	err := bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:    7,
		UserName:     "Alice",
		TourName:     "Beach Escape",
		Departure:    "2026-09-10",
		Participants: 2,
		TotalPrice:   500,
	})
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.True(t, strings.HasPrefix(sender.messages[0], "New tour booking"))
	assert.Contains(t, sender.messages[0], "Beach Escape")
	assert.Contains(t, sender.messages[0], "Alice")
}

func TestSubscribeAllFormatsVehicleEvents(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.New(os.Stdout)
	notifier := NewTelegramNotifierWithSender(sender, 42, &logger)

	bus := events.NewEventBus()
	notifier.SubscribeAll(bus)

	err := bus.PublishJSON(events.EventVehicleApproved, events.VehicleEventPayload{
		BookingID:   3,
		UserName:    "Bob",
		VehicleName: "Tempo Traveller",
		FromDate:    "2026-09-10",
		ToDate:      "2026-09-12",
	})
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.True(t, strings.HasPrefix(sender.messages[0], "Vehicle booking approved"))
	assert.Contains(t, sender.messages[0], "Tempo Traveller")
}
