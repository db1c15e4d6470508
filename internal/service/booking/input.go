package booking

import (
	"crypto/rand"
	"maps"
	"strings"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
)

type CreateBookingInput struct {
	Origin        string  `json:"origin" binding:"required,iata"`
	Destination   string  `json:"destination" binding:"required,iata"`
	Pieces        int     `json:"pieces" binding:"required,min=1"`
	WeightKg      float64 `json:"weight_kg" binding:"required,gt=0"`
	RouteID       string  `json:"route_id" binding:"required"`
	DepartureDate string  `json:"departure_date" binding:"required"`
}

func (in CreateBookingInput) normalized() CreateBookingInput {
	in.Origin = domain.NormalizeCode(in.Origin)
	in.Destination = domain.NormalizeCode(in.Destination)
	in.RouteID = strings.TrimSpace(in.RouteID)
	in.DepartureDate = strings.TrimSpace(in.DepartureDate)
	return in
}

func (in CreateBookingInput) validate() error {
	switch {
	case len(in.Origin) != 3:
		return invalidField("origin", "must be a 3-letter airport code")
	case len(in.Destination) != 3:
		return invalidField("destination", "must be a 3-letter airport code")
	case in.Origin == in.Destination:
		return invalidField("destination", "must differ from origin")
	case in.Pieces < 1:
		return invalidField("pieces", "must be at least 1")
	case in.WeightKg <= 0:
		return invalidField("weight_kg", "must be greater than 0")
	}
	if _, err := domain.ParseDate(in.DepartureDate); err != nil {
		return err
	}
	return nil
}

// UpdateInput carries the optional details of a status transition.
type UpdateInput struct {
	Location   string             `json:"location"`
	FlightInfo *domain.FlightInfo `json:"flight_info"`
	Reason     string             `json:"reason"`
	Meta       map[string]any     `json:"meta"`
}

func (in UpdateInput) meta() map[string]any {
	if len(in.Meta) == 0 {
		return nil
	}
	return maps.Clone(in.Meta)
}

func invalidField(field, msg string) error {
	return domain.ValidationError{Code: domain.CodeValidation, Field: field, Msg: msg}
}

const refPrefix = "RG"

// NewRefID returns "RG" followed by 8 random characters from [A-Z2-7].
func NewRefID() string {
	return refPrefix + rand.Text()[:8]
}
