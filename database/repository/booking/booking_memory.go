package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"homestay/database"
	"homestay/models"
)

// MemoryBookingRepo is an in-process BookingRepository used by tests and local runs.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[b.ID]; exists {
		return database.ErrDuplicate
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) byOrderLocked(orderID string) (models.Booking, bool) {
	for _, b := range r.bookings {
		if orderID != "" && b.RazorpayOrderID == orderID {
			return b, true
		}
	}
	return models.Booking{}, false
}

func (r *MemoryBookingRepo) GetByOrderID(_ context.Context, orderID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byOrderLocked(orderID)
	if !ok {
		return nil, database.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) filter(keep func(models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *MemoryBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryBookingRepo) ListAll(_ context.Context, limit, offset int) ([]models.Booking, error) {
	out := r.filter(func(models.Booking) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []models.Booking{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryBookingRepo) ListPendingByUser(_ context.Context, userID string, since time.Time) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool {
		return b.UserID == userID && b.PaymentStatus == models.PaymentPending && !b.CreatedAt.Before(since)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryBookingRepo) ListPendingUsers(_ context.Context, since time.Time) ([]string, error) {
	pending := r.filter(func(b models.Booking) bool {
		return b.PaymentStatus == models.PaymentPending && b.RazorpayOrderID != "" && !b.CreatedAt.Before(since)
	})
	seen := map[string]bool{}
	users := []string{}
	for _, b := range pending {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			users = append(users, b.UserID)
		}
	}
	sort.Strings(users)
	return users, nil
}

func (r *MemoryBookingRepo) ListConfirmedForRoom(_ context.Context, roomID string, from, to time.Time) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool {
		return b.RoomID == roomID &&
			b.BookingStatus == models.BookingConfirmed &&
			!b.CheckInDate.After(to) &&
			!b.CheckOutDate.Before(from)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInDate.Before(out[j].CheckInDate) })
	return out, nil
}

func (r *MemoryBookingRepo) SetOrderID(_ context.Context, bookingID, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok || b.RazorpayOrderID != "" {
		return false, nil
	}
	b.RazorpayOrderID = orderID
	b.UpdatedAt = time.Now().UTC()
	r.bookings[bookingID] = b
	return true, nil
}

func (r *MemoryBookingRepo) TransitionByOrderID(_ context.Context, orderID string, t Transition) (*models.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byOrderLocked(orderID)
	if !ok {
		return nil, false, database.ErrNotFound
	}
	if b.PaymentStatus != models.PaymentPending {
		return &b, false, nil
	}

	b.PaymentStatus = t.PaymentStatus
	b.BookingStatus = t.BookingStatus
	if t.PaymentID != "" {
		b.RazorpayPaymentID = t.PaymentID
	}
	if t.Method != "" {
		b.PaymentMethod = t.Method
	}
	if t.AmountPaid > 0 {
		b.AmountPaid = t.AmountPaid
	}
	if t.PaidAt != nil {
		b.PaidAt = t.PaidAt
	}
	b.UpdatedAt = time.Now().UTC()
	r.bookings[b.ID] = b
	return &b, true, nil
}

// Put stores b as-is, overwriting any booking with the same id.
func (r *MemoryBookingRepo) Put(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}
