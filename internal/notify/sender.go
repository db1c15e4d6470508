// Package notify turns booking events from the notifications topic into
// customer-facing shipment updates.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/kafka"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var ErrInvalidPayload = errors.New("invalid notification payload")

// Decode extracts a booking event from a raw message value. Only ref_id and
// status are required; anything else missing is left empty.
func Decode(raw []byte) (kafka.BookingEvent, error) {
	if !gjson.ValidBytes(raw) {
		return kafka.BookingEvent{}, ErrInvalidPayload
	}
	fields := gjson.GetManyBytes(raw, "type", "ref_id", "status", "origin", "destination", "location", "description", "timestamp")
	event := kafka.BookingEvent{
		Type:        fields[0].String(),
		RefID:       fields[1].String(),
		Status:      fields[2].String(),
		Origin:      fields[3].String(),
		Destination: fields[4].String(),
		Location:    fields[5].String(),
		Description: fields[6].String(),
		Timestamp:   fields[7].Time(),
	}
	if event.RefID == "" || event.Status == "" {
		return kafka.BookingEvent{}, fmt.Errorf("%w: ref_id and status are required", ErrInvalidPayload)
	}
	return event, nil
}

type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

// Message renders the text sent to the shipper.
func Message(event kafka.BookingEvent) string {
	text := fmt.Sprintf("Cargo booking %s is now %s", event.RefID, event.Status)
	if event.Description != "" {
		text += ": " + event.Description
	}
	if !event.Timestamp.IsZero() {
		text += fmt.Sprintf(" (%s)", event.Timestamp.UTC().Format(time.RFC3339))
	}
	return text
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"ref_id":   event.RefID,
		"type":     event.Type,
		"location": event.Location,
	}).Info(Message(event))
	return nil
}
