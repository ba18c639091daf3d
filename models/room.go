package models

import "time"

// Room is a bookable unit of the property.
type Room struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name" validate:"required"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	NightlyRate   float64   `bson:"nightly_rate" json:"nightly_rate" validate:"gt=0"`
	MaxGuests     int       `bson:"max_guests" json:"max_guests" validate:"gt=0"`
	Amenities     []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImagePublicID string    `bson:"image_public_id,omitempty" json:"image_public_id,omitempty"`
	Active        bool      `bson:"active" json:"active"`
	SortOrder     int       `bson:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// RoomAvailability lists the confirmed stays of a room within a window.
type RoomAvailability struct {
	RoomID string      `json:"room_id"`
	From   string      `json:"from"`
	To     string      `json:"to"`
	Booked []DateRange `json:"booked"`
}
