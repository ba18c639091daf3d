package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"homestay/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements Gateway using PaymentIntents as orders.
type StripeGateway struct {
	publishableKey string
	webhookSecret  string
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(secretKey, publishableKey, webhookSecret string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	// Set Stripe API key globally
	stripe.Key = secretKey

	return &StripeGateway{publishableKey: publishableKey, webhookSecret: webhookSecret}, nil
}

func (g *StripeGateway) Name() string  { return "stripe" }
func (g *StripeGateway) KeyID() string { return g.publishableKey }

// CreateOrder creates a PaymentIntent and returns its client secret.
func (g *StripeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinor(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{"booking_id": req.Receipt},
	}
	for k, v := range req.Notes {
		params.Metadata[k] = v
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	return &Order{
		ID:           pi.ID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// ResumeOrder re-reads the PaymentIntent so a reloaded checkout gets its client secret back.
func (g *StripeGateway) ResumeOrder(ctx context.Context, orderID string) (*Order, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(orderID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("stripe: failed to get payment intent %s: %w", orderID, err)
	}
	return &Order{
		ID:           pi.ID,
		Amount:       fromMinor(pi.Amount),
		Currency:     strings.ToUpper(string(pi.Currency)),
		ClientSecret: pi.ClientSecret,
	}, nil
}

// FetchStatus reads the PaymentIntent and maps it onto the gateway states.
func (g *StripeGateway) FetchStatus(ctx context.Context, orderID string) (*models.GatewayStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(orderID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("stripe: failed to get payment intent %s: %w", orderID, err)
	}
	return statusFromIntent(pi), nil
}

func statusFromIntent(pi *stripe.PaymentIntent) *models.GatewayStatus {
	st := &models.GatewayStatus{Status: models.GatewayPending}
	if pi.LatestCharge != nil {
		st.PaymentID = pi.LatestCharge.ID
	}
	if len(pi.PaymentMethodTypes) > 0 {
		st.Method = pi.PaymentMethodTypes[0]
	}

	switch {
	case pi.Status == stripe.PaymentIntentStatusSucceeded:
		st.Status = models.GatewayCaptured
		st.Amount = fromMinor(pi.AmountReceived)
	case pi.Status == stripe.PaymentIntentStatusCanceled:
		st.Status = models.GatewayFailed
	case pi.Status == stripe.PaymentIntentStatusRequiresPaymentMethod && pi.LastPaymentError != nil:
		st.Status = models.GatewayFailed
	}
	if st.PaymentID == "" {
		st.PaymentID = pi.ID
	}
	return st
}

// ParseStripeEvent verifies the Stripe-Signature header and maps intent events onto PaymentEvent.
// Event types other than succeeded and payment_failed come back with an empty Type.
func (g *StripeGateway) ParseStripeEvent(payload []byte, sigHeader string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var kind string
	switch string(event.Type) {
	case "payment_intent.succeeded":
		kind = models.EventPaymentCaptured
	case "payment_intent.payment_failed":
		kind = models.EventPaymentFailed
	default:
		return &models.PaymentEvent{}, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	st := statusFromIntent(&pi)
	return &models.PaymentEvent{
		Type:      kind,
		OrderID:   pi.ID,
		PaymentID: st.PaymentID,
		Method:    st.Method,
		Amount:    fromMinor(pi.AmountReceived),
	}, nil
}
