package routes

import (
	"time"

	"homestay/handlers"
	"homestay/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDraftRoutes registers the booking wizard drafts. Drafts may be anonymous.
func RegisterDraftRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking/drafts")
	{
		api.Use(middleware.OptionalAuthMiddleware())
		api.POST("", hb.CreateDraft)
		api.GET("/:id", hb.GetDraft)
		api.PUT("/:id", hb.UpdateDraft)
		api.DELETE("/:id", hb.DeleteDraft)
	}
}

// RegisterBookingRoutes registers guest booking and payment endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	public := r.Group("/api/rooms")
	{
		public.GET("", hb.ListRooms)
		public.GET("/:id/availability", hb.RoomAvailability)
	}

	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware())
		bookingGroup.POST("", hb.SubmitBooking)
		bookingGroup.GET("", hb.ListMyBookings)
		bookingGroup.POST("/reconcile", hb.ReconcileMine)
		bookingGroup.GET("/:id", hb.GetBooking)
		bookingGroup.POST("/:id/order", hb.CreateOrder)
	}

	payments := r.Group("/api/payments")
	{
		payments.Use(middleware.JWTAuthUserMiddleware())
		payments.GET("/verify/:orderId", hb.VerifyPayment)
	}
}

// RegisterWebhookRoutes registers gateway callbacks. They authenticate by signature only.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhooks")
	{
		api.POST("/razorpay", hb.RazorpayWebhook)
		api.POST("/stripe", hb.StripeWebhook)
	}
}

// RegisterContentRoutes registers the public site content endpoints.
func RegisterContentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/enquiries", hb.CreateEnquiry)
	r.GET("/api/content/:kind", hb.ListPublishedContent)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/admin/login", hb.AdminLogin)

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/bookings", hb.AdminListBookings)
		adminGroup.POST("/reconcile/:userId", hb.AdminReconcileUser)

		adminGroup.GET("/rooms", hb.AdminListRooms)
		adminGroup.POST("/rooms", hb.AdminSaveRoom)
		adminGroup.PUT("/rooms/:id", hb.AdminSaveRoom)
		adminGroup.DELETE("/rooms/:id", hb.AdminDeleteRoom)

		adminGroup.GET("/content/:kind", hb.AdminListContent)
		adminGroup.GET("/content/:kind/:id", hb.AdminGetContent)
		adminGroup.POST("/content/:kind", hb.AdminSaveContent)
		adminGroup.PUT("/content/:kind/:id", hb.AdminSaveContent)
		adminGroup.DELETE("/content/:kind/:id", hb.AdminDeleteContent)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDraftRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterContentRoutes(r, hb)
	RegisterHealthRoute(r, hb)
	RegisterAdminRoutes(r, hb)
}
