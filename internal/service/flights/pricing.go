package flights

import (
	"math"
	"strings"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
)

const (
	baseLegCost       = 100
	costPerMinute     = 2
	premiumMultiplier = 1.2
	transitSurcharge  = 50
)

// Pricing is the illustrative cargo cost model.
type Pricing struct {
	PremiumMarker string
}

func (p Pricing) multiplier(airline string) float64 {
	marker := strings.ToLower(strings.TrimSpace(p.PremiumMarker))
	if marker != "" && strings.Contains(strings.ToLower(airline), marker) {
		return premiumMultiplier
	}
	return 1.0
}

// LegCost is round((100 + 2·minutes) × multiplier).
func (p Pricing) LegCost(f domain.Flight) int64 {
	raw := (baseLegCost + costPerMinute*float64(minutes(f.Duration()))) * p.multiplier(f.Airline)
	return int64(math.Round(raw))
}

func (p Pricing) Direct(f domain.Flight) domain.RouteOption {
	return domain.RouteOption{
		ID:            domain.RouteID(f.FlightID),
		Type:          domain.RouteTypeDirect,
		Flights:       []domain.Flight{f},
		TotalDuration: minutes(f.Duration()),
		TotalCost:     p.LegCost(f),
	}
}

// Transit prices a two-leg itinerary; duration includes the layover.
func (p Pricing) Transit(first, second domain.Flight) domain.RouteOption {
	return domain.RouteOption{
		ID:            domain.RouteID(first.FlightID, second.FlightID),
		Type:          domain.RouteTypeOneTransit,
		Flights:       []domain.Flight{first, second},
		TotalDuration: minutes(second.Arrival.Sub(first.Departure)),
		TotalCost:     p.LegCost(first) + p.LegCost(second) + transitSurcharge,
	}
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
