package payment

import (
	"context"
	"fmt"
	"strings"

	"homestay/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway implements Gateway with the Razorpay orders API.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayGateway creates a new Razorpay gateway
func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}, nil
}

func (g *RazorpayGateway) Name() string  { return "razorpay" }
func (g *RazorpayGateway) KeyID() string { return g.keyID }

// CreateOrder opens a Razorpay order for the booking total.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := map[string]interface{}{}
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":   toMinor(req.Amount),
		"currency": strings.ToUpper(req.Currency),
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to create order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay: order response carried no id")
	}
	return &Order{ID: id, Amount: req.Amount, Currency: req.Currency}, nil
}

// ResumeOrder needs no round trip: Razorpay checkout opens from the order id alone.
func (g *RazorpayGateway) ResumeOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Order{ID: orderID}, nil
}

// FetchStatus derives the order state from its payment attempts.
func (g *RazorpayGateway) FetchStatus(ctx context.Context, orderID string) (*models.GatewayStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.client.Order.Payments(orderID, nil, nil)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "does not exist") {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("razorpay: failed to fetch payments for %s: %w", orderID, err)
	}

	items, _ := body["items"].([]interface{})
	attempts := make([]razorpayPayment, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		attempts = append(attempts, paymentFromMap(m))
	}
	return statusFromAttempts(attempts), nil
}

type razorpayPayment struct {
	ID     string
	Status string
	Method string
	Amount int64
}

func paymentFromMap(m map[string]interface{}) razorpayPayment {
	p := razorpayPayment{}
	p.ID, _ = m["id"].(string)
	p.Status, _ = m["status"].(string)
	p.Method, _ = m["method"].(string)
	switch v := m["amount"].(type) {
	case float64:
		p.Amount = int64(v)
	case int64:
		p.Amount = v
	case int:
		p.Amount = int64(v)
	}
	return p
}

// statusFromAttempts: any captured attempt wins; all failed means failed; anything else is pending.
func statusFromAttempts(attempts []razorpayPayment) *models.GatewayStatus {
	for _, p := range attempts {
		if p.Status == "captured" {
			return &models.GatewayStatus{
				Status:    models.GatewayCaptured,
				PaymentID: p.ID,
				Method:    p.Method,
				Amount:    fromMinor(p.Amount),
			}
		}
	}
	if len(attempts) == 0 {
		return &models.GatewayStatus{Status: models.GatewayPending}
	}
	for _, p := range attempts {
		if p.Status != "failed" {
			return &models.GatewayStatus{Status: models.GatewayPending}
		}
	}
	last := attempts[len(attempts)-1]
	return &models.GatewayStatus{
		Status:    models.GatewayFailed,
		PaymentID: last.ID,
		Method:    last.Method,
		Amount:    fromMinor(last.Amount),
	}
}
