// Package seed generates a deterministic demo flight schedule for the catalog.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/google/uuid"
)

var namespace = uuid.MustParse("6f1c2b7e-93a4-4c55-a0d2-5b1e7f3c9a10")

type leg struct {
	airline      string
	number       string
	origin       string
	destination  string
	departure    time.Duration // offset from midnight UTC
	blockMinutes int
}

// Hub-and-spoke pattern around DEL and BOM with a few cross links, enough for
// direct and one-transit itineraries on every seeded day.
var pattern = []leg{
	{"Air India", "AI101", "DEL", "BOM", 4*time.Hour + 30*time.Minute, 135},
	{"IndiGo", "6E201", "DEL", "BOM", 8 * time.Hour, 130},
	{"Premium Cargo Air", "PC301", "DEL", "BOM", 12 * time.Hour, 125},
	{"IndiGo", "6E202", "BOM", "DEL", 6 * time.Hour, 130},
	{"Air India", "AI102", "BOM", "DEL", 14 * time.Hour, 135},
	{"IndiGo", "6E401", "DEL", "HYD", 3 * time.Hour, 120},
	{"SpiceJet", "SG411", "HYD", "BOM", 6 * time.Hour, 85},
	{"IndiGo", "6E415", "HYD", "BLR", 7 * time.Hour, 70},
	{"Air India", "AI503", "DEL", "BLR", 5 * time.Hour, 165},
	{"Premium Cargo Air", "PC511", "BLR", "BOM", 9 * time.Hour, 95},
	{"IndiGo", "6E521", "BLR", "MAA", 10 * time.Hour, 55},
	{"Air India", "AI601", "DEL", "CCU", 2 * time.Hour, 140},
	{"IndiGo", "6E611", "CCU", "BOM", 6*time.Hour + 30*time.Minute, 170},
	{"SpiceJet", "SG701", "MAA", "DEL", 11 * time.Hour, 170},
	{"IndiGo", "6E711", "MAA", "BOM", 13 * time.Hour, 110},
}

// Schedule returns the flights for days consecutive days starting at start.
// Flight ids are derived from number and date, so reseeding is idempotent.
func Schedule(start time.Time, days int) []domain.Flight {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	flights := make([]domain.Flight, 0, days*len(pattern))
	for d := 0; d < days; d++ {
		for _, l := range pattern {
			dep := day.Add(l.departure)
			flights = append(flights, domain.Flight{
				FlightID:     FlightID(l.number, dep),
				FlightNumber: l.number,
				Airline:      l.airline,
				Origin:       l.origin,
				Destination:  l.destination,
				Departure:    dep,
				Arrival:      dep.Add(time.Duration(l.blockMinutes) * time.Minute),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return flights
}

// FlightID is a hyphen-free id so it can be embedded in route ids.
func FlightID(number string, departure time.Time) string {
	name := fmt.Sprintf("%s@%s", number, departure.UTC().Format(time.RFC3339))
	return strings.ReplaceAll(uuid.NewSHA1(namespace, []byte(name)).String(), "-", "")
}
