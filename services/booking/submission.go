package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"homestay/database"
	"homestay/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCheckInTime is assumed when the guest does not pick an arrival time.
const DefaultCheckInTime = "14:00"

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must match %s", field, fe.Param()))
		case "gt", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// mergeDraft fills fields the caller left empty from a stored draft.
func mergeDraft(in models.BookingInput, d *models.BookingDraft) models.BookingInput {
	if in.RoomID == "" {
		in.RoomID = d.RoomID
	}
	if in.CheckInDate == "" {
		in.CheckInDate = d.CheckInDate
	}
	if in.CheckOutDate == "" {
		in.CheckOutDate = d.CheckOutDate
	}
	if in.CheckInTime == "" {
		in.CheckInTime = d.CheckInTime
	}
	if in.Guests == 0 {
		in.Guests = d.Guests
	}
	if in.SpecialRequests == "" {
		in.SpecialRequests = d.SpecialRequests
	}
	if in.Amount == nil {
		total := d.Quote.Total
		in.Amount = &total
	}
	return in
}

// Submit validates a candidate booking and persists it as pending/pending.
func (s *DefaultBookingService) Submit(ctx context.Context, guest models.Guest, in models.BookingInput) (*models.Booking, error) {
	if guest.UserID == "" {
		return nil, AuthError("authentication required")
	}

	if in.DraftID != "" {
		draft, err := s.GetDraft(ctx, guest.UserID, in.DraftID)
		if err != nil {
			return nil, err
		}
		in = mergeDraft(in, draft)
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError("%s", describeValidation(err))
	}
	checkIn, err := ParseDate(in.CheckInDate)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	checkOut, err := ParseDate(in.CheckOutDate)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	if !checkIn.Before(checkOut) {
		return nil, ValidationError("check-in date must be before check-out date")
	}
	if in.Guests <= 0 {
		return nil, ValidationError("guest count must be positive")
	}

	room, err := s.loadBookableRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room.MaxGuests > 0 && in.Guests > room.MaxGuests {
		return nil, ValidationError("room %s allows at most %d guests", room.Name, room.MaxGuests)
	}

	quote := s.pricer.Quote(room.NightlyRate, Nights(checkIn, checkOut))
	if in.Amount != nil && !AmountMatches(*in.Amount, quote.Total) {
		return nil, ValidationError("amount %.2f does not match the quoted total %.2f", *in.Amount, quote.Total)
	}

	checkInTime := in.CheckInTime
	if checkInTime == "" {
		checkInTime = DefaultCheckInTime
	}

	confirmed, err := s.Bookings.ListConfirmedForRoom(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, PersistenceError(err, "failed to check availability")
	}
	for _, existing := range confirmed {
		if Overlaps(existing, checkIn, checkOut, checkInTime, *s.opts.CheckoutHour) {
			return nil, ConflictError("room %s is already booked for the selected dates", room.Name)
		}
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.NewString(),
		UserID:          guest.UserID,
		GuestName:       guest.Name,
		GuestEmail:      guest.Email,
		RoomID:          room.ID,
		RoomName:        room.Name,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		CheckInTime:     checkInTime,
		Guests:          in.Guests,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Nights:          quote.Nights,
		NightlyRate:     quote.NightlyRate,
		TotalAmount:     quote.Total,
		Currency:        quote.Currency,
		BookingStatus:   models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, PersistenceError(err, "failed to save booking")
	}

	if in.DraftID != "" {
		if err := s.Drafts.Delete(ctx, in.DraftID); err != nil {
			s.logger.Warn("failed to drop submitted draft", zap.String("draft_id", in.DraftID), zap.Error(err))
		}
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("user_id", b.UserID),
		zap.String("room_id", b.RoomID),
		zap.Float64("total", b.TotalAmount))
	return b, nil
}

// GetBooking returns one of the caller's bookings.
func (s *DefaultBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("booking %s not found", bookingID)
		}
		return nil, PersistenceError(err, "failed to load booking")
	}
	if b.UserID != userID {
		return nil, NotFoundError("booking %s not found", bookingID)
	}
	return b, nil
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, AuthError("authentication required")
	}
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, PersistenceError(err, "failed to list bookings")
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListAllBookings(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	bookings, err := s.Bookings.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, PersistenceError(err, "failed to list bookings")
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Rooms.List(ctx, true)
	if err != nil {
		return nil, PersistenceError(err, "failed to list rooms")
	}
	return rooms, nil
}

// Availability lists confirmed stays of a room overlapping [from, to).
func (s *DefaultBookingService) Availability(ctx context.Context, roomID, from, to string) (*models.RoomAvailability, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, ValidationError("%v", err)
	}
	if !start.Before(end) {
		return nil, ValidationError("from must be before to")
	}
	if end.Sub(start) > 366*24*time.Hour {
		return nil, ValidationError("availability window is limited to one year")
	}
	if _, err := s.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("room %s not found", roomID)
		}
		return nil, PersistenceError(err, "failed to load room")
	}

	confirmed, err := s.Bookings.ListConfirmedForRoom(ctx, roomID, start, end)
	if err != nil {
		return nil, PersistenceError(err, "failed to load availability")
	}
	out := &models.RoomAvailability{RoomID: roomID, From: from, To: to, Booked: []models.DateRange{}}
	for _, b := range confirmed {
		if !b.CheckOutDate.After(start) || !b.CheckInDate.Before(end) {
			continue
		}
		out.Booked = append(out.Booked, models.DateRange{From: b.CheckInDate, To: b.CheckOutDate, CheckInTime: b.CheckInTime})
	}
	return out, nil
}
