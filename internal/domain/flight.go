package domain

import (
	"fmt"
	"strings"
	"time"
)

type Flight struct {
	FlightID     string    `json:"flight_id"`
	FlightNumber string    `json:"flight_number"`
	Airline      string    `json:"airline"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
}

// Duration is the block time of a single leg.
func (f Flight) Duration() time.Duration {
	return f.Arrival.Sub(f.Departure)
}

// TimeWindow is an inclusive departure window.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

const DateLayout = "2006-01-02"

// DayWindow covers [00:00:00, 23:59:59.999] of the given day in UTC.
func DayWindow(day time.Time) TimeWindow {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return TimeWindow{From: start, To: start.Add(24*time.Hour - time.Millisecond)}
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(raw string) (time.Time, error) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ValidationError{
			Code:  CodeInvalidDate,
			Field: "date",
			Msg:   fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw),
			Err:   ErrInvalidDate,
		}
	}
	return day, nil
}

// NormalizeCode upper-cases and trims an IATA airport code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
