package models

// Event types emitted by the gateway that this service acts on.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

// PaymentEvent is the decoded, signature-checked webhook notification. It is never persisted.
type PaymentEvent struct {
	Type      string  `json:"type"`
	PaymentID string  `json:"payment_id"`
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"` // major currency units
	Method    string  `json:"method"`
}

type GatewayPaymentState string

const (
	GatewayCaptured GatewayPaymentState = "captured"
	GatewayFailed   GatewayPaymentState = "failed"
	GatewayPending  GatewayPaymentState = "pending"
)

// GatewayStatus is the gateway's authoritative view of an order.
type GatewayStatus struct {
	Status    GatewayPaymentState `json:"status"`
	PaymentID string              `json:"payment_id,omitempty"`
	Method    string              `json:"method,omitempty"`
	Amount    float64             `json:"amount,omitempty"`
}

// OrderResponse is returned to the client to open the gateway checkout.
type OrderResponse struct {
	BookingID    string  `json:"booking_id"`
	OrderID      string  `json:"order_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Gateway      string  `json:"gateway"`
	KeyID        string  `json:"key_id,omitempty"`
	ClientSecret string  `json:"client_secret,omitempty"`
}

// PaymentVerification is the payload of the narrow verify-by-order endpoint.
type PaymentVerification struct {
	Success   bool                `json:"success"`
	Status    GatewayPaymentState `json:"status"`
	PaymentID string              `json:"payment_id,omitempty"`
}
