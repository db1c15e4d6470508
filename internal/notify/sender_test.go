package notify

import (
	"context"
	"testing"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	raw := []byte(`{"type":"STATUS_DEPARTED","ref_id":"RGABCD1234","status":"DEPARTED","location":"DEL",
		"description":"Shipment departed from DEL","timestamp":"2026-10-16T09:30:00Z","extra":true}`)

	event, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "STATUS_DEPARTED", event.Type)
	assert.Equal(t, "RGABCD1234", event.RefID)
	assert.Equal(t, "DEL", event.Location)
	assert.True(t, event.Timestamp.Equal(time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)))
}

func TestDecode_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"ref_id":`,
		"missing ref":    `{"status":"BOOKED"}`,
		"missing status": `{"ref_id":"RGABCD1234"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestMessage(t *testing.T) {
	msg := Message(kafka.BookingEvent{
		RefID:       "RGABCD1234",
		Status:      "ARRIVED",
		Description: "Shipment arrived at BOM",
		Timestamp:   time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "Cargo booking RGABCD1234 is now ARRIVED: Shipment arrived at BOM (2026-10-16T12:00:00Z)", msg)

	assert.Equal(t, "Cargo booking RG1 is now BOOKED", Message(kafka.BookingEvent{RefID: "RG1", Status: "BOOKED"}))
}

func TestSender_Send(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := NewSender(log)

	require.NoError(t, s.Send(context.Background(), kafka.BookingEvent{RefID: "RG1", Status: "DELIVERED", Location: "BOM"}))
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "RG1", entry.Data["ref_id"])
	assert.Equal(t, "Cargo booking RG1 is now DELIVERED", entry.Message)
}

func TestSender_SendCancelled(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewSender(log).Send(ctx, kafka.BookingEvent{}), context.Canceled)
}
