package domain

import (
	"fmt"
	"strings"
)

type RouteType string

const (
	RouteTypeDirect     RouteType = "direct"
	RouteTypeOneTransit RouteType = "one_transit"
)

const (
	directPrefix  = "direct-"
	transitPrefix = "transit-"
)

type RouteOption struct {
	ID            string    `json:"id"`
	Type          RouteType `json:"type"`
	Flights       []Flight  `json:"flights"`
	TotalDuration int       `json:"total_duration"`
	TotalCost     int64     `json:"total_cost"`
}

// RouteID encodes the ordered flight ids of an option.
func RouteID(flightIDs ...string) string {
	if len(flightIDs) == 1 {
		return directPrefix + flightIDs[0]
	}
	return transitPrefix + strings.Join(flightIDs, "-")
}

// ParseRouteID recovers the route type and ordered flight ids from a route id.
func ParseRouteID(routeID string) (RouteType, []string, error) {
	switch {
	case strings.HasPrefix(routeID, directPrefix):
		id := strings.TrimPrefix(routeID, directPrefix)
		if id == "" || strings.Contains(id, "-") {
			return "", nil, invalidRoute(routeID)
		}
		return RouteTypeDirect, []string{id}, nil
	case strings.HasPrefix(routeID, transitPrefix):
		ids := strings.Split(strings.TrimPrefix(routeID, transitPrefix), "-")
		if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
			return "", nil, invalidRoute(routeID)
		}
		return RouteTypeOneTransit, ids, nil
	default:
		return "", nil, invalidRoute(routeID)
	}
}

func invalidRoute(routeID string) error {
	return ValidationError{
		Code:  CodeInvalidRouteFormat,
		Field: "route_id",
		Msg:   fmt.Sprintf("invalid route format %q", routeID),
		Err:   ErrInvalidRouteFormat,
	}
}
