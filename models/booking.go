package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a confirmed demo meeting record. BookingDatetime is stored
// normalized to UTC; Timezone keeps the zone the booker declared so emails
// can be rendered in their local time.
type Booking struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	BusinessName    string    `json:"business_name"`
	WorkEmail       string    `json:"work_email"`
	ContactNumber   string    `json:"contact_number"`
	BookingDatetime time.Time `json:"booking_datetime"`
	Message         *string   `json:"message,omitempty"`
	Timezone        string    `json:"timezone"`
	CreatedAt       time.Time `json:"created_at"`
}

// AvailabilityDay groups the open slots of a single calendar day.
// Slots are RFC3339 UTC instants, ascending.
type AvailabilityDay struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

// PaginatedBookings is the payload of the paginated listing endpoint.
type PaginatedBookings struct {
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	Total   int64     `json:"total"`
	Records []Booking `json:"records"`
}
