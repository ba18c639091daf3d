package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"homestay/models"
)

// DefaultTaxRate is applied when no rate is configured.
const DefaultTaxRate = 0.05

// DefaultCheckoutHour is the hour after which a checkout day is free for the next guest.
const DefaultCheckoutHour = 11

// Pricer computes stay quotes.
type Pricer struct {
	TaxRate  float64
	Currency string
}

// round2 rounds to currency precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseDate parses a "YYYY-MM-DD" date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Nights counts whole days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Quote prices a stay of the given nights at rate, tax included.
func (p Pricer) Quote(rate float64, nights int) models.Quote {
	subtotal := round2(rate * float64(nights))
	total := round2(rate * float64(nights) * (1 + p.TaxRate))
	return models.Quote{
		Nights:      nights,
		NightlyRate: rate,
		Subtotal:    subtotal,
		Tax:         round2(total - subtotal),
		Total:       total,
		Currency:    p.Currency,
	}
}

// AmountMatches reports whether a client-sent amount equals the server total within a cent.
func AmountMatches(client, server float64) bool {
	return math.Abs(client-server) < 0.01+1e-9
}

// checkInHour extracts the hour from an "HH:MM" time, -1 when absent or malformed.
func checkInHour(hhmm string) int {
	if hhmm == "" {
		return -1
	}
	parts := strings.SplitN(hhmm, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}

// Overlaps reports whether a requested stay collides with an existing confirmed one.
// Ranges are half-open [check_in, check_out). On a shared turnover day the arriving guest,
// whichever stay that is, must arrive at or after checkoutHour. Swapping the two stays gives
// the same answer.
func Overlaps(existing models.Booking, in, out time.Time, checkInTime string, checkoutHour int) bool {
	if in.Before(existing.CheckOutDate) && existing.CheckInDate.Before(out) {
		return true
	}
	if in.Equal(existing.CheckOutDate) {
		return checkInHour(checkInTime) < checkoutHour
	}
	if out.Equal(existing.CheckInDate) {
		return checkInHour(existing.CheckInTime) < checkoutHour
	}
	return false
}
