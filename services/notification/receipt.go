package notification

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"homestay/models"

	"github.com/go-pdf/fpdf"
)

// Business identifies the property on receipts and emails.
type Business struct {
	Name         string
	SupportEmail string
	SupportPhone string
}

func formatMoney(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
}

// RenderReceipt builds the PDF receipt for a resolved booking.
func RenderReceipt(b *models.Booking, biz Business) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Header.
	pdf.SetFillColor(34, 63, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 14, biz.Name, "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, "Booking receipt", "", 1, "L", true, 0, "")
	pdf.Ln(6)

	// Customer info.
	pdf.SetTextColor(0, 0, 0)
	section(pdf, "Guest")
	row(pdf, "Name", b.GuestName)
	row(pdf, "Email", b.GuestEmail)
	row(pdf, "Booking ID", b.ID)
	pdf.Ln(4)

	// Status badge.
	label, r, g, bl := statusBadge(b)
	pdf.SetFillColor(r, g, bl)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 9, label, "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// Stay and amount details.
	section(pdf, "Stay")
	row(pdf, "Room", b.RoomName)
	row(pdf, "Check-in", fmt.Sprintf("%s from %s", b.CheckInDate.Format("02 Jan 2006"), b.CheckInTime))
	row(pdf, "Check-out", b.CheckOutDate.Format("02 Jan 2006"))
	row(pdf, "Guests", fmt.Sprintf("%d", b.Guests))
	row(pdf, "Nights", fmt.Sprintf("%d x %s", b.Nights, formatMoney(b.Currency, b.NightlyRate)))
	if b.SpecialRequests != "" {
		row(pdf, "Requests", b.SpecialRequests)
	}
	pdf.Ln(4)

	section(pdf, "Payment")
	row(pdf, "Total", formatMoney(b.Currency, b.TotalAmount))
	if b.AmountPaid > 0 {
		row(pdf, "Paid", formatMoney(b.Currency, b.AmountPaid))
	}
	if b.RazorpayPaymentID != "" {
		row(pdf, "Transaction", b.RazorpayPaymentID)
	}
	if b.PaymentMethod != "" {
		row(pdf, "Method", b.PaymentMethod)
	}
	if b.PaidAt != nil {
		row(pdf, "Paid at", b.PaidAt.Format(time.RFC1123))
	}
	pdf.Ln(10)

	// Footer.
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 5, fmt.Sprintf("Questions about your stay? Write to %s or call %s.\nThis receipt was generated on %s.",
		biz.SupportEmail, biz.SupportPhone, time.Now().UTC().Format("02 Jan 2006 15:04 MST")), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("RenderReceipt: failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(38, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func statusBadge(b *models.Booking) (string, int, int, int) {
	switch b.PaymentStatus {
	case models.PaymentSuccess:
		return "CONFIRMED", 46, 139, 87
	case models.PaymentFailed:
		return "PAYMENT FAILED", 178, 34, 34
	case models.PaymentRefunded:
		return "REFUNDED", 112, 128, 144
	default:
		return "PENDING", 218, 165, 32
	}
}
