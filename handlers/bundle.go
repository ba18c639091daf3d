package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all the endpoint handlers into one struct.
type HandlerBundle struct {
	// Drafts
	CreateDraft gin.HandlerFunc
	GetDraft    gin.HandlerFunc
	UpdateDraft gin.HandlerFunc
	DeleteDraft gin.HandlerFunc

	// Bookings
	SubmitBooking    gin.HandlerFunc
	ListMyBookings   gin.HandlerFunc
	GetBooking       gin.HandlerFunc
	CreateOrder      gin.HandlerFunc
	ReconcileMine    gin.HandlerFunc
	VerifyPayment    gin.HandlerFunc
	ListRooms        gin.HandlerFunc
	RoomAvailability gin.HandlerFunc

	// Webhooks
	RazorpayWebhook gin.HandlerFunc
	StripeWebhook   gin.HandlerFunc

	// Public content
	CreateEnquiry        gin.HandlerFunc
	ListPublishedContent gin.HandlerFunc

	// Admin
	AdminLogin         gin.HandlerFunc
	AdminListBookings  gin.HandlerFunc
	AdminReconcileUser gin.HandlerFunc
	AdminListContent   gin.HandlerFunc
	AdminGetContent    gin.HandlerFunc
	AdminSaveContent   gin.HandlerFunc
	AdminDeleteContent gin.HandlerFunc
	AdminListRooms     gin.HandlerFunc
	AdminSaveRoom      gin.HandlerFunc
	AdminDeleteRoom    gin.HandlerFunc

	// Health
	Health gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the handler structs.
func NewHandlerBundle(b *BookingHandler, w *WebhookHandler, pc *ContentHandler, a *AdminHandler, health gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		CreateDraft: b.CreateDraft,
		GetDraft:    b.GetDraft,
		UpdateDraft: b.UpdateDraft,
		DeleteDraft: b.DeleteDraft,

		SubmitBooking:    b.SubmitBooking,
		ListMyBookings:   b.ListMyBookings,
		GetBooking:       b.GetBooking,
		CreateOrder:      b.CreateOrder,
		ReconcileMine:    b.Reconcile,
		VerifyPayment:    b.VerifyPayment,
		ListRooms:        b.ListRooms,
		RoomAvailability: b.RoomAvailability,

		RazorpayWebhook: w.RazorpayWebhook,
		StripeWebhook:   w.StripeWebhook,

		CreateEnquiry:        pc.CreateEnquiry,
		ListPublishedContent: pc.ListPublished,

		AdminLogin:         a.Login,
		AdminListBookings:  a.ListBookings,
		AdminReconcileUser: a.ReconcileUser,
		AdminListContent:   a.ListContent,
		AdminGetContent:    a.GetContent,
		AdminSaveContent:   a.SaveContent,
		AdminDeleteContent: a.DeleteContent,
		AdminListRooms:     a.ListRooms,
		AdminSaveRoom:      a.SaveRoom,
		AdminDeleteRoom:    a.DeleteRoom,

		Health: health,
	}
}
