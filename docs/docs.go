// Package docs registers the OpenAPI document served under /swagger.
//
// The template below is maintained by hand and must track the swag
// annotations on the handlers in api/. It can be regenerated from them with
//
//	swag init -g api/router.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and dependency status",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/routes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "Find direct and one-transit routes",
                "parameters": [
                    {"type": "string", "description": "Origin IATA code", "name": "origin", "in": "query", "required": true},
                    {"type": "string", "description": "Destination IATA code", "name": "destination", "in": "query", "required": true},
                    {"type": "string", "description": "Departure day, YYYY-MM-DD", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.RouteOption"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/flights/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Get a flight",
                "parameters": [
                    {"type": "string", "description": "Flight id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Flight"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book cargo on a route",
                "parameters": [
                    {"type": "string", "description": "Replay protection key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Booking request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/booking.CreateBookingInput"}}
                ],
                "responses": {
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/bookings/{ref}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get a booking with its timeline",
                "parameters": [
                    {"type": "string", "description": "Booking reference", "name": "ref", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/bookings/{ref}/{action}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Move a booking along its lifecycle",
                "parameters": [
                    {"type": "string", "description": "Booking reference", "name": "ref", "in": "path", "required": true},
                    {"type": "string", "enum": ["depart", "arrive", "deliver", "cancel"], "name": "action", "in": "path", "required": true},
                    {"description": "Event details", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/booking.UpdateInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "domain.Flight": {
            "type": "object",
            "properties": {
                "flight_id": {"type": "string"},
                "flight_number": {"type": "string"},
                "airline": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "departure": {"type": "string", "format": "date-time"},
                "arrival": {"type": "string", "format": "date-time"}
            }
        },
        "domain.RouteOption": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["direct", "one_transit"]},
                "flights": {"type": "array", "items": {"$ref": "#/definitions/domain.Flight"}},
                "total_duration": {"type": "integer"},
                "total_cost": {"type": "integer"}
            }
        },
        "domain.FlightInfo": {
            "type": "object",
            "properties": {
                "carrier": {"type": "string"},
                "flight_number": {"type": "string"}
            }
        },
        "domain.BookingEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "location": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "description": {"type": "string"},
                "flight_info": {"$ref": "#/definitions/domain.FlightInfo"},
                "meta": {"type": "object"}
            }
        },
        "domain.Booking": {
            "type": "object",
            "properties": {
                "ref_id": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "departure_date": {"type": "string"},
                "pieces": {"type": "integer"},
                "weight_kg": {"type": "number"},
                "status": {"type": "string", "enum": ["BOOKED", "DEPARTED", "ARRIVED", "DELIVERED", "CANCELLED"]},
                "flight_ids": {"type": "array", "items": {"type": "string"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.BookingEvent"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "booking.CreateBookingInput": {
            "type": "object",
            "required": ["origin", "destination", "pieces", "weight_kg", "route_id", "departure_date"],
            "properties": {
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "pieces": {"type": "integer", "minimum": 1},
                "weight_kg": {"type": "number"},
                "route_id": {"type": "string"},
                "departure_date": {"type": "string"}
            }
        },
        "booking.UpdateInput": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "flight_info": {"$ref": "#/definitions/domain.FlightInfo"},
                "reason": {"type": "string"},
                "meta": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cargo Booking API",
	Description:      "Route discovery and booking lifecycle for air cargo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
