package models

import "time"

// Quote is the server-computed price of a stay.
type Quote struct {
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightly_rate"`
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
}

// BookingDraft is an in-progress booking held between the wizard steps.
type BookingDraft struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id,omitempty"`
	RoomID          string    `json:"room_id"`
	RoomName        string    `json:"room_name,omitempty"`
	CheckInDate     string    `json:"check_in_date"`
	CheckOutDate    string    `json:"check_out_date"`
	CheckInTime     string    `json:"check_in_time,omitempty"`
	Guests          int       `json:"guests"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Quote           Quote     `json:"quote"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// DraftInput is the body of draft create and update calls.
type DraftInput struct {
	RoomID          string `json:"room_id" validate:"required"`
	CheckInDate     string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate    string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	CheckInTime     string `json:"check_in_time" validate:"omitempty,datetime=15:04"`
	Guests          int    `json:"guests" validate:"required,gt=0"`
	SpecialRequests string `json:"special_requests" validate:"max=1000"`
}
