package handlers

import (
	"net/http"

	"homestay/middleware"
	"homestay/models"
	"homestay/services/booking"
	"homestay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the guest booking flow.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

func (h *BookingHandler) CreateDraft(c *gin.Context) {
	var in models.DraftInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid draft", err)
		return
	}
	draft, err := h.Service.CreateDraft(c.Request.Context(), callerID(c), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, draft)
}

func (h *BookingHandler) GetDraft(c *gin.Context) {
	draft, err := h.Service.GetDraft(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, draft)
}

func (h *BookingHandler) UpdateDraft(c *gin.Context) {
	var in models.DraftInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid draft", err)
		return
	}
	draft, err := h.Service.UpdateDraft(c.Request.Context(), callerID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, draft)
}

func (h *BookingHandler) DeleteDraft(c *gin.Context) {
	if err := h.Service.DeleteDraft(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// SubmitBooking records a pending booking for the authenticated guest.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	claims, ok := middleware.CallerClaims(c)
	if !ok {
		respondError(c, h.Logger, booking.AuthError("authentication required"))
		return
	}
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid booking", err)
		return
	}

	guest := models.Guest{UserID: claims.Subject, Name: claims.Name, Email: claims.Email}
	b, err := h.Service.Submit(c.Request.Context(), guest, in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, b)
}

func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	list, err := h.Service.ListBookings(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// CreateOrder opens (or returns the existing) gateway order for a booking.
func (h *BookingHandler) CreateOrder(c *gin.Context) {
	order, err := h.Service.CreateOrder(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

func (h *BookingHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Service.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (h *BookingHandler) RoomAvailability(c *gin.Context) {
	avail, err := h.Service.Availability(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, avail)
}

// Reconcile re-checks the caller's pending bookings with the gateway.
func (h *BookingHandler) Reconcile(c *gin.Context) {
	n, err := h.Service.Reconcile(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": n})
}

// VerifyPayment reports the gateway's view of an order. The body is flat, not enveloped.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	v, err := h.Service.VerifyPayment(c.Request.Context(), callerID(c), callerIsAdmin(c), c.Param("orderId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
