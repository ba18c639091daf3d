package payment

import (
	"context"
	"errors"
	"math"

	"homestay/models"
)

// ErrOrderNotFound is returned when the gateway has no record of an order.
var ErrOrderNotFound = errors.New("gateway order not found")

// OrderRequest describes a checkout to open at the gateway.
type OrderRequest struct {
	Receipt  string // booking id
	Amount   float64
	Currency string
	Notes    map[string]string
}

// Order is the gateway-side checkout handle.
type Order struct {
	ID           string
	Amount       float64
	Currency     string
	ClientSecret string // set by gateways that confirm client-side
}

// Gateway is the server-side view of a payment provider.
type Gateway interface {
	Name() string
	// KeyID is the publishable key handed to the browser checkout.
	KeyID() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// ResumeOrder returns the checkout handle of an existing order, client secret included.
	ResumeOrder(ctx context.Context, orderID string) (*Order, error)
	FetchStatus(ctx context.Context, orderID string) (*models.GatewayStatus, error)
}

// toMinor converts major currency units to the smallest unit.
func toMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// fromMinor converts the smallest currency unit to major units.
func fromMinor(amount int64) float64 {
	return float64(amount) / 100
}
