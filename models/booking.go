package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// DateLayout is the wire format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// Booking is a reservation tying a guest to a room and date range with a payment lifecycle.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	UserID          string        `bson:"user_id" json:"user_id"`
	GuestName       string        `bson:"guest_name" json:"guest_name"`
	GuestEmail      string        `bson:"guest_email" json:"guest_email"`
	RoomID          string        `bson:"room_id" json:"room_id"`
	RoomName        string        `bson:"room_name" json:"room_name"`
	CheckInDate     time.Time     `bson:"check_in_date" json:"check_in_date"`   // UTC midnight
	CheckOutDate    time.Time     `bson:"check_out_date" json:"check_out_date"` // UTC midnight, exclusive
	CheckInTime     string        `bson:"check_in_time" json:"check_in_time"`   // "HH:MM"
	Guests          int           `bson:"guests" json:"guests"`
	SpecialRequests string        `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	Nights          int           `bson:"nights" json:"nights"`
	NightlyRate     float64       `bson:"nightly_rate" json:"nightly_rate"`
	TotalAmount     float64       `bson:"total_amount" json:"total_amount"`
	Currency        string        `bson:"currency" json:"currency"`
	BookingStatus   BookingStatus `bson:"booking_status" json:"booking_status"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"payment_status"`

	// Gateway references, empty until an order is created and settled.
	RazorpayOrderID   string     `bson:"razorpay_order_id,omitempty" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string     `bson:"razorpay_payment_id,omitempty" json:"razorpay_payment_id,omitempty"`
	PaymentMethod     string     `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	AmountPaid        float64    `bson:"amount_paid,omitempty" json:"amount_paid,omitempty"`
	PaidAt            *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the payment lifecycle has resolved.
func (b *Booking) IsTerminal() bool {
	return b.PaymentStatus != PaymentPending
}

// BookingInput is the candidate booking sent by an authenticated guest.
type BookingInput struct {
	RoomID          string   `json:"room_id" validate:"required"`
	CheckInDate     string   `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate    string   `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	CheckInTime     string   `json:"check_in_time" validate:"omitempty,datetime=15:04"`
	Guests          int      `json:"guests" validate:"required,gt=0"`
	SpecialRequests string   `json:"special_requests" validate:"max=1000"`
	Amount          *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	DraftID         string   `json:"draft_id,omitempty"`
}

// Guest identifies the caller a booking is made for.
type Guest struct {
	UserID string
	Name   string
	Email  string
}

// DateRange is a half-open [From, To) span of nights.
type DateRange struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	CheckInTime string    `json:"check_in_time,omitempty"`
}
