package booking

import (
	"context"
	"time"

	bookingRepo "homestay/database/repository/booking"
	roomRepo "homestay/database/repository/room"
	"homestay/models"
	"homestay/services/notification"
	"homestay/services/payment"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BookingService covers the guest booking flow and the payment lifecycle behind it.
type BookingService interface {
	// Drafts.
	CreateDraft(ctx context.Context, userID string, in models.DraftInput) (*models.BookingDraft, error)
	UpdateDraft(ctx context.Context, userID, draftID string, in models.DraftInput) (*models.BookingDraft, error)
	GetDraft(ctx context.Context, userID, draftID string) (*models.BookingDraft, error)
	DeleteDraft(ctx context.Context, userID, draftID string) error

	// Submission and reads.
	Submit(ctx context.Context, guest models.Guest, in models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ListAllBookings(ctx context.Context, limit, offset int) ([]models.Booking, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	Availability(ctx context.Context, roomID, from, to string) (*models.RoomAvailability, error)

	// Payment lifecycle.
	CreateOrder(ctx context.Context, userID, bookingID string) (*models.OrderResponse, error)
	HandleEvent(ctx context.Context, ev models.PaymentEvent, source string) (*models.Booking, bool, error)
	ApplyOutcome(ctx context.Context, orderID string, outcome Outcome, source string) (*models.Booking, bool, error)
	VerifyPayment(ctx context.Context, userID string, isAdmin bool, orderID string) (*models.PaymentVerification, error)
	Reconcile(ctx context.Context, userID string) (int, error)
	ReconcileAll(ctx context.Context) (int, error)
}

// Options tunes pricing, overlap and sweep behaviour. A nil CheckoutHour means
// DefaultCheckoutHour; zero is a valid midnight turnover.
type Options struct {
	TaxRate         float64
	Currency        string
	CheckoutHour    *int
	ReconcileWindow time.Duration
	Workers         int
	// CallInterval spaces outbound gateway status queries.
	CallInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = "INR"
	}
	if o.CheckoutHour == nil || *o.CheckoutHour < 0 || *o.CheckoutHour > 23 {
		hour := DefaultCheckoutHour
		o.CheckoutHour = &hour
	}
	if o.ReconcileWindow <= 0 {
		o.ReconcileWindow = 48 * time.Hour
	}
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.CallInterval <= 0 {
		o.CallInterval = 200 * time.Millisecond
	}
	return o
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings   bookingRepo.BookingRepository
	Rooms      roomRepo.RoomRepository
	Drafts     DraftStore
	Gateway    payment.Gateway
	Dispatcher notification.Dispatcher

	logger   *zap.Logger
	opts     Options
	pricer   Pricer
	limiter  *rate.Limiter
	validate *validator.Validate
	now      func() time.Time
}

// NewBookingService wires the service. A zero TaxRate is honoured as-is.
func NewBookingService(
	bookings bookingRepo.BookingRepository,
	rooms roomRepo.RoomRepository,
	drafts DraftStore,
	gateway payment.Gateway,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
	opts Options,
) *DefaultBookingService {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Bookings:   bookings,
		Rooms:      rooms,
		Drafts:     drafts,
		Gateway:    gateway,
		Dispatcher: dispatcher,
		logger:     logger,
		opts:       opts,
		pricer:     Pricer{TaxRate: opts.TaxRate, Currency: opts.Currency},
		limiter:    rate.NewLimiter(rate.Every(opts.CallInterval), 1),
		validate:   validator.New(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}
