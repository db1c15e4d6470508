package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusDeparted  BookingStatus = "DEPARTED"
	BookingStatusArrived   BookingStatus = "ARRIVED"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// AllStatuses lists every lifecycle status in lifecycle order.
var AllStatuses = []BookingStatus{
	BookingStatusBooked,
	BookingStatusDeparted,
	BookingStatusArrived,
	BookingStatusDelivered,
	BookingStatusCancelled,
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusBooked:    {BookingStatusDeparted, BookingStatusCancelled},
	BookingStatusDeparted:  {BookingStatusArrived, BookingStatusCancelled},
	BookingStatusArrived:   {BookingStatusDelivered},
	BookingStatusDelivered: nil,
	BookingStatusCancelled: nil,
}

// CanTransition reports whether from → to is an allowed lifecycle step.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

const EventTypeBookingCreated = "BOOKING_CREATED"

// StatusEventType is the event type recorded for a transition into s.
func StatusEventType(s BookingStatus) string {
	return "STATUS_" + string(s)
}

type FlightInfo struct {
	Carrier      string `json:"carrier,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
}

func (f *FlightInfo) String() string {
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f.Carrier + " " + f.FlightNumber)
}

type BookingEvent struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Status      BookingStatus  `json:"status"`
	Location    string         `json:"location"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
	FlightInfo  *FlightInfo    `json:"flight_info,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

type Booking struct {
	RefID         string         `json:"ref_id"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	Pieces        int            `json:"pieces"`
	WeightKg      float64        `json:"weight_kg"`
	Status        BookingStatus  `json:"status"`
	FlightIDs     []string       `json:"flight_ids"`
	Events        []BookingEvent `json:"events"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// LastEvent returns the most recently appended event.
func (b *Booking) LastEvent() (BookingEvent, bool) {
	if len(b.Events) == 0 {
		return BookingEvent{}, false
	}
	return b.Events[len(b.Events)-1], true
}

// WithEvent returns a copy of the booking with ev appended and the status moved
// to ev.Status. The receiver's event slice is never shared with the copy.
func (b Booking) WithEvent(ev BookingEvent) Booking {
	events := make([]BookingEvent, 0, len(b.Events)+1)
	events = append(events, b.Events...)
	events = append(events, ev)
	b.Events = events
	b.Status = ev.Status
	b.UpdatedAt = ev.Timestamp
	return b
}

// EventDetails is the optional metadata that shapes an event description.
type EventDetails struct {
	Location   string
	FlightInfo *FlightInfo
	Reason     string
	Pieces     int
	WeightKg   float64
	RouteType  RouteType
}

// Describe renders the human-readable description for an event moving a
// booking into status.
func Describe(status BookingStatus, d EventDetails) string {
	switch status {
	case BookingStatusBooked:
		route := "direct"
		if d.RouteType == RouteTypeOneTransit {
			route = "one-transit"
		}
		return fmt.Sprintf("Booking created for %d piece(s), %s kg on a %s route", d.Pieces, formatWeight(d.WeightKg), route)
	case BookingStatusDeparted:
		return withCarrier(fmt.Sprintf("Shipment departed from %s", d.Location), d.FlightInfo)
	case BookingStatusArrived:
		return withCarrier(fmt.Sprintf("Shipment arrived at %s", d.Location), d.FlightInfo)
	case BookingStatusDelivered:
		return fmt.Sprintf("Shipment delivered at %s", d.Location)
	case BookingStatusCancelled:
		if reason := strings.TrimSpace(d.Reason); reason != "" {
			return "Booking cancelled: " + reason
		}
		return "Booking cancelled"
	default:
		return fmt.Sprintf("Status changed to %s", status)
	}
}

func withCarrier(text string, info *FlightInfo) string {
	if carrier := info.String(); carrier != "" {
		return text + " on " + carrier
	}
	return text
}

func formatWeight(w float64) string {
	s := fmt.Sprintf("%.2f", w)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
