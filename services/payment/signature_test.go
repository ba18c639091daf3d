package payment

import (
	"testing"

	"homestay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(body, testSecret)

	assert.True(t, VerifySignature(body, sig, testSecret))
	assert.False(t, VerifySignature(body, sig, "other-secret"))
	assert.False(t, VerifySignature([]byte(`{"event":"payment.failed"}`), sig, testSecret))
	assert.False(t, VerifySignature(body, "", testSecret))
	assert.False(t, VerifySignature(body, "not-hex", testSecret))
	assert.False(t, VerifySignature(body, sig, ""))
}

func TestParseRazorpayEventCaptured(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_1", "order_id": "order_1", "amount": 210000, "method": "upi", "status": "captured"
		}}}
	}`)

	ev, err := ParseRazorpayEvent(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.EventPaymentCaptured, ev.Type)
	assert.Equal(t, "pay_1", ev.PaymentID)
	assert.Equal(t, "order_1", ev.OrderID)
	assert.Equal(t, 2100.0, ev.Amount)
	assert.Equal(t, "upi", ev.Method)
}

func TestParseRazorpayEventOrderPaidFallsBackToOrderEntity(t *testing.T) {
	body := []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_9"}}}}`)

	ev, err := ParseRazorpayEvent(body, Sign(body, testSecret), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "order_9", ev.OrderID)
}

func TestParseRazorpayEventErrors(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	_, err := ParseRazorpayEvent(body, "deadbeef", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	bad := []byte(`{not json`)
	_, err = ParseRazorpayEvent(bad, Sign(bad, testSecret), testSecret)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestStatusFromAttempts(t *testing.T) {
	tests := []struct {
		name     string
		attempts []razorpayPayment
		want     models.GatewayPaymentState
		payID    string
	}{
		{"no attempts", nil, models.GatewayPending, ""},
		{"captured wins", []razorpayPayment{{ID: "p1", Status: "failed"}, {ID: "p2", Status: "captured", Amount: 1000}}, models.GatewayCaptured, "p2"},
		{"all failed", []razorpayPayment{{ID: "p1", Status: "failed"}, {ID: "p2", Status: "failed"}}, models.GatewayFailed, "p2"},
		{"authorized only", []razorpayPayment{{ID: "p1", Status: "authorized"}}, models.GatewayPending, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := statusFromAttempts(tt.attempts)
			assert.Equal(t, tt.want, st.Status)
			assert.Equal(t, tt.payID, st.PaymentID)
		})
	}
}
