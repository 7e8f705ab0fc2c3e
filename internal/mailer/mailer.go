package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer delivers ticket emails through the Resend API. The PDF and the
// raw QR image ride along as attachments; the HTML body comes from the
// caller untouched.
type Mailer struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

func New(apiKey, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

// SendTicket sends one booking-confirmation email. pdf may be nil when not
// even the placeholder ticket could be drawn; the email still goes out so
// the recipient always gets their booking details.
func (m *Mailer) SendTicket(ctx context.Context, to, subject, html string, pdf, qrPNG []byte, bookingRef string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Headers: map[string]string{
			// Resend dedupes on this header, so a handler retry cannot
			// double-send the same ticket.
			"X-Entity-Ref-ID": uuid.NewString(),
		},
	}

	if len(pdf) > 0 {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    attachmentName(bookingRef, "ticket", "pdf"),
			Content:     pdf,
			ContentType: "application/pdf",
		})
	}
	if len(qrPNG) > 0 {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    attachmentName(bookingRef, "qr", "png"),
			Content:     qrPNG,
			ContentType: "image/png",
		})
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.log.Error("ticket email send failed",
			zap.String("to", to),
			zap.String("booking_ref", bookingRef),
			zap.Error(err))
		return "", fmt.Errorf("send ticket email: %w", err)
	}

	m.log.Info("ticket email sent",
		zap.String("message_id", sent.Id),
		zap.String("to", to),
		zap.String("booking_ref", bookingRef))
	return sent.Id, nil
}

func attachmentName(bookingRef, kind, ext string) string {
	if bookingRef == "" {
		bookingRef = time.Now().Format("20060102150405")
	}
	return fmt.Sprintf("%s_%s.%s", kind, bookingRef, ext)
}
