package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"homestay/models"
)

var (
	// ErrInvalidSignature means the webhook body was not signed with the shared secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent means the body passed verification but is not a usable event.
	ErrMalformedEvent = errors.New("malformed webhook payload")
)

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a hex HMAC-SHA256 signature over the raw body.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type razorpayEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	Status  string `json:"status"`
}

// ParseRazorpayEvent verifies and decodes a Razorpay webhook body.
func ParseRazorpayEvent(body []byte, signature, secret string) (*models.PaymentEvent, error) {
	if !VerifySignature(body, signature, secret) {
		return nil, ErrInvalidSignature
	}

	var hook razorpayWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if hook.Event == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedEvent)
	}

	ev := &models.PaymentEvent{Type: hook.Event}
	if p := hook.Payload.Payment; p != nil {
		ev.PaymentID = p.Entity.ID
		ev.OrderID = p.Entity.OrderID
		ev.Amount = fromMinor(p.Entity.Amount)
		ev.Method = p.Entity.Method
	}
	if o := hook.Payload.Order; o != nil && ev.OrderID == "" {
		ev.OrderID = o.Entity.ID
	}
	return ev, nil
}
