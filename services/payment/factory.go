package payment

import (
	"fmt"
	"strings"

	"homestay/config"
)

// NewGateway builds the gateway selected by PAYMENT_GATEWAY.
func NewGateway(cfg config.Config) (Gateway, error) {
	switch strings.ToLower(cfg.PaymentGateway) {
	case "", "razorpay":
		return NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	case "stripe":
		return NewStripeGateway(cfg.StripeKey, cfg.StripePublishableKey, cfg.StripeWebhookSecret)
	case "mock":
		return NewMockGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway %q", cfg.PaymentGateway)
	}
}
