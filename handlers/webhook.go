package handlers

import (
	"errors"
	"io"
	"net/http"

	"homestay/models"
	"homestay/services/booking"
	"homestay/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// StripeEventParser verifies and decodes Stripe webhooks.
type StripeEventParser interface {
	ParseStripeEvent(payload []byte, sigHeader string) (*models.PaymentEvent, error)
}

// WebhookHandler receives gateway payment notifications.
type WebhookHandler struct {
	Service        booking.BookingService
	RazorpaySecret string
	Stripe         StripeEventParser
	Logger         *zap.Logger
}

func NewWebhookHandler(svc booking.BookingService, razorpaySecret string, stripe StripeEventParser, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{Service: svc, RazorpaySecret: razorpaySecret, Stripe: stripe, Logger: logger}
}

func readBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
}

// RazorpayWebhook verifies the x-signature HMAC over the raw body before anything else.
func (h *WebhookHandler) RazorpayWebhook(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}
	sig := c.GetHeader("x-signature")
	if sig == "" {
		sig = c.GetHeader("X-Razorpay-Signature")
	}

	ev, err := payment.ParseRazorpayEvent(body, sig, h.RazorpaySecret)
	h.handle(c, ev, err)
}

// StripeWebhook verifies the Stripe-Signature header.
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	if h.Stripe == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "stripe is not the configured gateway"})
		return
	}
	body, err := readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}
	ev, err := h.Stripe.ParseStripeEvent(body, c.GetHeader("Stripe-Signature"))
	h.handle(c, ev, err)
}

func (h *WebhookHandler) handle(c *gin.Context, ev *models.PaymentEvent, parseErr error) {
	log := getLogger(c, h.Logger)
	switch {
	case errors.Is(parseErr, payment.ErrInvalidSignature):
		log.Warn("webhook rejected: bad signature", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signature"})
		return
	case parseErr != nil:
		log.Warn("webhook rejected: malformed payload", zap.Error(parseErr))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed payload"})
		return
	}

	if ev.Type == "" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	_, changed, err := h.Service.HandleEvent(c.Request.Context(), *ev, booking.SourceWebhook)
	if err != nil {
		switch booking.KindOf(err) {
		case booking.KindNotFound, booking.KindValidation:
			// The gateway cannot fix these by retrying.
			log.Warn("webhook event not applied",
				zap.String("type", ev.Type),
				zap.String("order_id", ev.OrderID),
				zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		case booking.KindPersistence:
			// Left for the reconciliation sweep.
			log.Error("webhook event could not be persisted",
				zap.String("type", ev.Type),
				zap.String("order_id", ev.OrderID),
				zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		default:
			log.Error("webhook processing failed", zap.String("order_id", ev.OrderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
			return
		}
	}

	log.Info("webhook processed",
		zap.String("type", ev.Type),
		zap.String("order_id", ev.OrderID),
		zap.Bool("changed", changed))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
