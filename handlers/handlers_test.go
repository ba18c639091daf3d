package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homestay/config"
	bookingRepo "homestay/database/repository/booking"
	recordsRepo "homestay/database/repository/records"
	roomRepo "homestay/database/repository/room"
	"homestay/handlers"
	"homestay/models"
	"homestay/routes"
	"homestay/services/booking"
	"homestay/services/content"
	"homestay/services/notification"
	"homestay/services/payment"
	"homestay/services/storage"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const webhookSecret = "whsec_test"

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
}

type app struct {
	router     *gin.Engine
	bookings   *bookingRepo.MemoryBookingRepo
	gateway    *payment.MockGateway
	dispatcher *notification.RecordingDispatcher
	userToken  string
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		bookings:   bookingRepo.NewMemoryBookingRepo(),
		gateway:    payment.NewMockGateway(),
		dispatcher: &notification.RecordingDispatcher{},
	}
	rooms := roomRepo.NewMemoryRoomRepo(models.Room{ID: "room-1", Name: "Garden Suite", NightlyRate: 1000, MaxGuests: 2, Active: true})
	svc := booking.NewBookingService(a.bookings, rooms, booking.NewMemoryDraftStore(), a.gateway, a.dispatcher, nil, booking.Options{
		TaxRate:      booking.DefaultTaxRate,
		CallInterval: time.Millisecond,
	})
	contentSvc := content.NewContentService(recordsRepo.NewMemoryRecordRepo(), rooms, storage.NewMemoryImageStore(), nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	bundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(svc, nil),
		handlers.NewWebhookHandler(svc, webhookSecret, nil, nil),
		handlers.NewContentHandler(contentSvc, nil),
		handlers.NewAdminHandler(svc, contentSvc, "owner@example.com", string(hash), nil),
		handlers.HealthHandler,
	)
	a.router = gin.New()
	routes.RegisterRoutes(a.router, bundle)

	a.userToken, err = utils.GenerateToken(utils.Claims{Subject: "user-1", Email: "asha@example.com", Name: "Asha Rao"}, time.Hour)
	require.NoError(t, err)
	return a
}

func (a *app) do(method, path, token string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) webhook(body []byte, sig string) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, "/api/webhooks/razorpay", "", body, map[string]string{"x-signature": sig})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// pendingOrder submits a booking over HTTP and opens its order.
func (a *app) pendingOrder(t *testing.T) (string, string) {
	t.Helper()
	w := a.do(http.MethodPost, "/api/bookings", a.userToken,
		[]byte(`{"room_id":"room-1","check_in_date":"2025-01-01","check_out_date":"2025-01-03","guests":2}`), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b models.Booking
	decode(t, w, &b)
	assert.Equal(t, 2100.0, b.TotalAmount)
	assert.Equal(t, "Asha Rao", b.GuestName)

	w = a.do(http.MethodPost, "/api/bookings/"+b.ID+"/order", a.userToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var order models.OrderResponse
	decode(t, w, &order)
	require.NotEmpty(t, order.OrderID)
	return b.ID, order.OrderID
}

func capturedEvent(orderID string) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":%q,"amount":210000,"method":"upi","status":"captured"}}}}`, orderID))
}

func TestBookingPaymentRoundTrip(t *testing.T) {
	a := newApp(t)
	bookingID, orderID := a.pendingOrder(t)

	body := capturedEvent(orderID)
	w := a.webhook(body, payment.Sign(body, webhookSecret))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/bookings/"+bookingID, a.userToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var b models.Booking
	decode(t, w, &b)
	assert.Equal(t, models.PaymentSuccess, b.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, b.BookingStatus)
	assert.Equal(t, "pay_1", b.RazorpayPaymentID)
	assert.Equal(t, "upi", b.PaymentMethod)

	assert.Equal(t, []notification.Dispatched{{Kind: notification.KindConfirmed, BookingID: bookingID}}, a.dispatcher.Calls())

	// A resolved booking cannot open a new order.
	w = a.do(http.MethodPost, "/api/bookings/"+bookingID+"/order", a.userToken, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	a := newApp(t)
	bookingID, orderID := a.pendingOrder(t)

	body := capturedEvent(orderID)
	w := a.webhook(body, payment.Sign(body, "wrong-secret"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.webhook(body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	b, err := a.bookings.GetByID(t.Context(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.Empty(t, a.dispatcher.Calls())
}

func TestWebhookLegacySignatureHeader(t *testing.T) {
	a := newApp(t)
	_, orderID := a.pendingOrder(t)

	body := capturedEvent(orderID)
	w := a.do(http.MethodPost, "/api/webhooks/razorpay", "", body,
		map[string]string{"X-Razorpay-Signature": payment.Sign(body, webhookSecret)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, a.dispatcher.Calls(), 1)
}

func TestWebhookFailedPayment(t *testing.T) {
	a := newApp(t)
	bookingID, orderID := a.pendingOrder(t)

	body := []byte(fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_2","order_id":%q,"status":"failed"}}}}`, orderID))
	w := a.webhook(body, payment.Sign(body, webhookSecret))
	require.Equal(t, http.StatusOK, w.Code)

	b, err := a.bookings.GetByID(t.Context(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, b.PaymentStatus)
	assert.Equal(t, models.BookingCancelled, b.BookingStatus)
	assert.Equal(t, []notification.Dispatched{{Kind: notification.KindFailed, BookingID: bookingID}}, a.dispatcher.Calls())
}

func TestWebhookReplayNotifiesOnce(t *testing.T) {
	a := newApp(t)
	_, orderID := a.pendingOrder(t)

	body := capturedEvent(orderID)
	sig := payment.Sign(body, webhookSecret)
	for i := 0; i < 3; i++ {
		w := a.webhook(body, sig)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, a.dispatcher.Calls(), 1)
}

func TestWebhookAcknowledgesWhatItCannotApply(t *testing.T) {
	a := newApp(t)

	for name, body := range map[string][]byte{
		"unknown order": capturedEvent("order_missing"),
		"ignored type":  []byte(`{"event":"refund.processed","payload":{}}`),
		"no order id":   []byte(`{"event":"payment.captured","payload":{}}`),
	} {
		t.Run(name, func(t *testing.T) {
			w := a.webhook(body, payment.Sign(body, webhookSecret))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"received":true}`, w.Body.String())
		})
	}
	assert.Empty(t, a.dispatcher.Calls())
}

func TestWebhookMalformedPayload(t *testing.T) {
	a := newApp(t)
	body := []byte(`{"event":`)
	w := a.webhook(body, payment.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhookDisabled(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/webhooks/stripe", "", []byte(`{}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingsRequireAuth(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/bookings", "", []byte(`{}`), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitBookingValidation(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodPost, "/api/bookings", a.userToken,
		[]byte(`{"room_id":"room-1","check_in_date":"2025-01-03","check_out_date":"2025-01-01","guests":2}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestVerifyPaymentIsFlat(t *testing.T) {
	a := newApp(t)
	_, orderID := a.pendingOrder(t)
	a.gateway.SetStatus(orderID, models.GatewayStatus{Status: models.GatewayCaptured, PaymentID: "pay_7"})

	w := a.do(http.MethodGet, "/api/payments/verify/"+orderID, a.userToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"status":"captured","payment_id":"pay_7"}`, w.Body.String())

	other, err := utils.GenerateToken(utils.Claims{Subject: "user-2"}, time.Hour)
	require.NoError(t, err)
	w = a.do(http.MethodGet, "/api/payments/verify/"+orderID, other, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconcileEndpoint(t *testing.T) {
	a := newApp(t)
	bookingID, orderID := a.pendingOrder(t)
	a.gateway.SetStatus(orderID, models.GatewayStatus{Status: models.GatewayCaptured, PaymentID: "pay_r"})

	w := a.do(http.MethodPost, "/api/bookings/reconcile", a.userToken, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Updated int `json:"updated"`
	}
	decode(t, w, &out)
	assert.Equal(t, 1, out.Updated)

	b, err := a.bookings.GetByID(t.Context(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, b.PaymentStatus)
}

func TestAdminLogin(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/api/admin/login", "", []byte(`{"email":"owner@example.com","password":"nope"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/api/admin/bookings", a.userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/admin/login", "", []byte(`{"email":"Owner@Example.com","password":"s3cret"}`), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.Token)

	a.pendingOrder(t)
	w = a.do(http.MethodGet, "/api/admin/bookings", out.Token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Booking
	decode(t, w, &list)
	assert.Len(t, list, 1)
}

func TestPublicContent(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/api/enquiries", "",
		[]byte(`{"name":"Ravi","email":"ravi@example.com","message":"Is parking available?"}`), nil)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/content/enquiries", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/rooms", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []models.Room
	decode(t, w, &rooms)
	assert.Len(t, rooms, 1)
}
