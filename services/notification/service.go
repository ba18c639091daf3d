package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"homestay/models"

	"go.uber.org/zap"
)

var confirmedTmpl = template.Must(template.New("confirmed").Parse(`<p>Dear {{.B.GuestName}},</p>
<p>Your stay at {{.Biz.Name}} is confirmed.</p>
<table>
<tr><td>Booking</td><td>{{.B.ID}}</td></tr>
<tr><td>Room</td><td>{{.B.RoomName}}</td></tr>
<tr><td>Check-in</td><td>{{.CheckIn}} from {{.B.CheckInTime}}</td></tr>
<tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
<tr><td>Guests</td><td>{{.B.Guests}}</td></tr>
<tr><td>Amount paid</td><td>{{.Amount}}</td></tr>
</table>
<p>Your receipt is attached. We look forward to hosting you.</p>
<p>{{.Biz.Name}}<br>{{.Biz.SupportEmail}} | {{.Biz.SupportPhone}}</p>`))

var failedTmpl = template.Must(template.New("failed").Parse(`<p>Dear {{.B.GuestName}},</p>
<p>We could not complete the payment for your booking {{.B.ID}} ({{.B.RoomName}}, {{.CheckIn}} to {{.CheckOut}}). The reservation has been cancelled.</p>
<p>If any amount was debited from your account it will be refunded automatically within 5-7 business days.</p>
<p>Need help? Write to {{.Biz.SupportEmail}} or call {{.Biz.SupportPhone}}.</p>
<p>{{.Biz.Name}}</p>`))

var operatorTmpl = template.Must(template.New("operator").Parse(`<p>New confirmed booking {{.B.ID}}.</p>
<ul>
<li>Guest: {{.B.GuestName}} &lt;{{.B.GuestEmail}}&gt;</li>
<li>Room: {{.B.RoomName}} ({{.B.RoomID}})</li>
<li>Stay: {{.CheckIn}} to {{.CheckOut}}, {{.B.Guests}} guest(s)</li>
<li>Paid: {{.Amount}} via {{.B.PaymentMethod}}, payment {{.B.RazorpayPaymentID}}</li>
{{if .B.SpecialRequests}}<li>Requests: {{.B.SpecialRequests}}</li>{{end}}
</ul>`))

type mailView struct {
	B        *models.Booking
	Biz      Business
	CheckIn  string
	CheckOut string
	Amount   string
}

// DefaultNotifier sends booking emails through a Mailer.
type DefaultNotifier struct {
	mailer   Mailer
	biz      Business
	operator string
	logger   *zap.Logger
}

func NewDefaultNotifier(mailer Mailer, biz Business, operatorEmail string, logger *zap.Logger) (*DefaultNotifier, error) {
	if mailer == nil {
		return nil, fmt.Errorf("notification service initialization error: mailer is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotifier{mailer: mailer, biz: biz, operator: operatorEmail, logger: logger}, nil
}

func (n *DefaultNotifier) view(b *models.Booking) mailView {
	amount := b.AmountPaid
	if amount == 0 {
		amount = b.TotalAmount
	}
	return mailView{
		B:        b,
		Biz:      n.biz,
		CheckIn:  b.CheckInDate.Format("02 Jan 2006"),
		CheckOut: b.CheckOutDate.Format("02 Jan 2006"),
		Amount:   formatMoney(b.Currency, amount),
	}
}

func render(t *template.Template, v mailView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// NotifyConfirmed emails the guest a receipt and alerts the operator.
// The operator alert is best-effort.
func (n *DefaultNotifier) NotifyConfirmed(ctx context.Context, b *models.Booking) error {
	v := n.view(b)

	receipt, err := RenderReceipt(b, n.biz)
	if err != nil {
		return fmt.Errorf("NotifyConfirmed: %w", err)
	}
	body, err := render(confirmedTmpl, v)
	if err != nil {
		return fmt.Errorf("NotifyConfirmed: %w", err)
	}

	err = n.mailer.Send(ctx, Message{
		To:      b.GuestEmail,
		Subject: fmt.Sprintf("Booking confirmed: %s", b.RoomName),
		HTML:    body,
		Attachments: []Attachment{{
			Name:        fmt.Sprintf("receipt-%s.pdf", b.ID),
			ContentType: "application/pdf",
			Data:        receipt,
		}},
	})
	if err != nil {
		return fmt.Errorf("NotifyConfirmed: failed to mail guest for booking %s: %w", b.ID, err)
	}
	n.logger.Info("confirmation email sent", zap.String("booking_id", b.ID), zap.String("to", b.GuestEmail))

	if n.operator == "" {
		return nil
	}
	alert, err := render(operatorTmpl, v)
	if err == nil {
		err = n.mailer.Send(ctx, Message{
			To:      n.operator,
			Subject: fmt.Sprintf("New booking %s: %s", b.ID, b.GuestName),
			HTML:    alert,
		})
	}
	if err != nil {
		n.logger.Warn("operator alert failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
	return nil
}

// NotifyFailed tells the guest the payment did not go through.
func (n *DefaultNotifier) NotifyFailed(ctx context.Context, b *models.Booking) error {
	body, err := render(failedTmpl, n.view(b))
	if err != nil {
		return fmt.Errorf("NotifyFailed: %w", err)
	}
	err = n.mailer.Send(ctx, Message{
		To:      b.GuestEmail,
		Subject: "Payment unsuccessful for your booking",
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("NotifyFailed: failed to mail guest for booking %s: %w", b.ID, err)
	}
	n.logger.Info("payment failure email sent", zap.String("booking_id", b.ID), zap.String("to", b.GuestEmail))
	return nil
}
