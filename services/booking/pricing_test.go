package booking

import (
	"testing"

	"homestay/models"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	p := Pricer{TaxRate: DefaultTaxRate, Currency: "INR"}
	q := p.Quote(1000, Nights(day("2025-01-01"), day("2025-01-03")))
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, 2000.0, q.Subtotal)
	assert.Equal(t, 100.0, q.Tax)
	assert.Equal(t, 2100.0, q.Total)
}

func TestQuoteRounding(t *testing.T) {
	q := Pricer{TaxRate: 0.18}.Quote(999.99, 3)
	assert.Equal(t, 3539.96, q.Total)
}

func TestAmountMatches(t *testing.T) {
	assert.True(t, AmountMatches(2100, 2100))
	assert.True(t, AmountMatches(2100.005, 2100))
	assert.False(t, AmountMatches(2099.98, 2100))
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("01/02/2025")
	assert.Error(t, err)
	d, err := ParseDate(" 2025-01-02 ")
	assert.NoError(t, err)
	assert.Equal(t, 2, d.Day())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		in, out      string
		time         string
		existingTime string
		overlaps     bool
	}{
		{"inside", "2025-01-10", "2025-01-11", "14:00", "14:00", true},
		{"straddles start", "2025-01-08", "2025-01-11", "14:00", "14:00", true},
		{"covers", "2025-01-09", "2025-01-13", "14:00", "14:00", true},
		{"ends on check-in day", "2025-01-08", "2025-01-10", "14:00", "14:00", false},
		{"ends on check-in day of an early arrival", "2025-01-08", "2025-01-10", "14:00", "08:00", true},
		{"ends on check-in day of an arrival without time", "2025-01-08", "2025-01-10", "14:00", "", true},
		{"arrives on checkout day after checkout hour", "2025-01-12", "2025-01-14", "11:00", "14:00", false},
		{"arrives on checkout day before checkout hour", "2025-01-12", "2025-01-14", "09:30", "14:00", true},
		{"arrives on checkout day without time", "2025-01-12", "2025-01-14", "", "14:00", true},
		{"well after", "2025-01-13", "2025-01-14", "09:00", "08:00", false},
		{"well before", "2025-01-05", "2025-01-09", "09:00", "08:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := models.Booking{CheckInDate: day("2025-01-10"), CheckOutDate: day("2025-01-12"), CheckInTime: tt.existingTime}
			requested := models.Booking{CheckInDate: day(tt.in), CheckOutDate: day(tt.out), CheckInTime: tt.time}

			assert.Equal(t, tt.overlaps, Overlaps(existing, day(tt.in), day(tt.out), tt.time, DefaultCheckoutHour))
			assert.Equal(t, tt.overlaps,
				Overlaps(requested, existing.CheckInDate, existing.CheckOutDate, existing.CheckInTime, DefaultCheckoutHour),
				"swapped")
		})
	}
}

func TestOverlapsMidnightTurnover(t *testing.T) {
	existing := models.Booking{CheckInDate: day("2025-01-10"), CheckOutDate: day("2025-01-12"), CheckInTime: "00:00"}
	assert.False(t, Overlaps(existing, day("2025-01-12"), day("2025-01-13"), "00:00", 0))
	assert.False(t, Overlaps(existing, day("2025-01-08"), day("2025-01-10"), "00:00", 0))
}
