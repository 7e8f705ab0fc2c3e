package ticket

import (
	"bytes"
	"crypto/md5"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	_ "golang.org/x/image/webp"

	"certificate-service/internal/models"
)

// Stage two of the ticket contract: the drawing pass. The composer always
// hands back something printable; a drawing failure degrades to a minimal
// placeholder document carrying the booking reference.

// Fixed 4x6 inch card, laid out in points.
const (
	pageW = 288.0
	pageH = 432.0

	marginX      = 24.0
	headerH      = 64.0
	qrSize       = 100.0
	addressWrap  = 38
	gridLeftX    = marginX
	gridRightX   = 156.0
	gridTopY     = 212.0
	gridRowH     = 50.0
	separatorY   = 372.0
	footerURLY   = 392.0
	footerThankY = 406.0
)

// Composer draws booking tickets. Stateless apart from configuration; safe
// for concurrent use.
type Composer struct {
	siteURL string
}

func NewComposer(siteURL string) *Composer {
	if siteURL == "" {
		siteURL = "www.nibog.in"
	}
	return &Composer{siteURL: siteURL}
}

// Compose validates and draws one ticket. It returns the PDF bytes, the
// names of fields that were defaulted, and an error only when even the
// placeholder document could not be produced. A nil raw record yields a
// recognizably-labeled placeholder ticket, not a failure.
func (c *Composer) Compose(raw *models.TicketDetail, qrPNG []byte, bookingRef string) ([]byte, []string, error) {
	data, missing := Validate(raw, bookingRef)

	out, err := c.draw(data, qrPNG)
	if err == nil {
		return out, missing, nil
	}

	out, err = c.fallbackDocument(data.BookingRef)
	if err != nil {
		return nil, missing, fmt.Errorf("ticket fallback document: %w", err)
	}
	return out, missing, nil
}

// draw renders the full card. Any panic from the PDF layer is converted to
// an error so Compose can fall back.
func (c *Composer) draw(d Data, qrPNG []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ticket draw: %v", r)
		}
	}()

	pdf := newTicketPage()

	// Header band: dark background, event title and date reversed out.
	pdf.SetFillColor(31, 41, 55)
	pdf.Rect(0, 0, pageW, headerH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginX, 12)
	pdf.CellFormat(pageW-2*marginX, 18, d.EventTitle, "", 0, "CM", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginX, 34)
	pdf.CellFormat(pageW-2*marginX, 12, d.EventDate, "", 0, "CM", false, 0, "")

	c.drawQR(pdf, d, qrPNG)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(marginX, headerH+18+qrSize)
	pdf.CellFormat(pageW-2*marginX, 10, "Scan this code at the entry gate", "", 0, "CM", false, 0, "")

	// 2x3 label/value grid.
	drawCell(pdf, gridLeftX, gridTopY, "Ticket No", d.TicketNumber, nil)
	drawCell(pdf, gridRightX, gridTopY, "Game", spacedOut(d.GameName), nil)
	drawCell(pdf, gridLeftX, gridTopY+gridRowH, "Slot", d.SlotTime, &[3]int{99, 102, 241})
	drawCell(pdf, gridRightX, gridTopY+gridRowH, "Participant", d.ChildName, nil)
	drawCell(pdf, gridLeftX, gridTopY+2*gridRowH, "Price", d.Price, nil)
	drawVenueCell(pdf, gridRightX, gridTopY+2*gridRowH, d)

	// Security code sits under the grid, left-aligned.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(gridLeftX, separatorY-14)
	pdf.CellFormat(120, 9, "Security code: "+d.SecurityCode, "", 0, "LM", false, 0, "")

	// Dashed tear-off separator.
	pdf.SetDrawColor(156, 163, 175)
	pdf.SetLineWidth(0.8)
	pdf.SetDashPattern([]float64{3, 3}, 0)
	pdf.Line(marginX, separatorY, pageW-marginX, separatorY)
	pdf.SetDashPattern([]float64{}, 0)

	// Footer: site URL and thank-you line named after the organizer.
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(31, 41, 55)
	pdf.SetXY(marginX, footerURLY-5)
	pdf.CellFormat(pageW-2*marginX, 10, c.siteURL, "", 0, "CM", false, 0, "")
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(marginX, footerThankY-5)
	thanks := fmt.Sprintf("Thank you for booking with the %s team!", organizationName(d.EventTitle))
	pdf.CellFormat(pageW-2*marginX, 10, thanks, "", 0, "CM", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ticket output: %w", err)
	}
	return buf.Bytes(), nil
}

// drawQR embeds the supplied QR image, or generates one from the security
// code when no usable image bytes arrived. If neither works the slot is
// drawn as an outlined box holding the code as text.
func (c *Composer) drawQR(pdf *gofpdf.Fpdf, d Data, qrPNG []byte) {
	x := (pageW - qrSize) / 2
	y := headerH + 14.0

	png := normalizePNG(qrPNG)
	if png == nil {
		content := d.SecurityCode
		if content == "" || content == defaultSecurityCode {
			content = d.BookingRef
		}
		if content != "" {
			if generated, err := qrcode.Encode(content, qrcode.Medium, 256); err == nil {
				png = generated
			}
		}
	}

	if png == nil {
		pdf.SetDrawColor(156, 163, 175)
		pdf.Rect(x, y, qrSize, qrSize, "D")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.SetXY(x, y+qrSize/2-5)
		pdf.CellFormat(qrSize, 10, d.SecurityCode, "", 0, "CM", false, 0, "")
		return
	}

	hash := md5.Sum(png)
	name := fmt.Sprintf("ticket_qr_%x", hash[:8])
	info := pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if info == nil {
		return
	}
	pdf.ImageOptions(name, x, y, qrSize, qrSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func drawCell(pdf *gofpdf.Fpdf, x, y float64, label, value string, rgb *[3]int) {
	pdf.SetFont("Helvetica", "", 6.5)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(x, y)
	pdf.CellFormat(108, 8, strings.ToUpper(label), "", 0, "LM", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	if rgb != nil {
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
	} else {
		pdf.SetTextColor(31, 41, 55)
	}
	pdf.SetXY(x, y+9)
	pdf.CellFormat(108, 12, value, "", 0, "LM", false, 0, "")
}

func drawVenueCell(pdf *gofpdf.Fpdf, x, y float64, d Data) {
	drawCell(pdf, x, y, "Venue", d.VenueName, nil)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(107, 114, 128)
	lineY := y + 22
	for _, line := range wrapText(d.VenueAddress, addressWrap) {
		pdf.SetXY(x, lineY)
		pdf.CellFormat(108, 8, line, "", 0, "LM", false, 0, "")
		lineY += 8
	}
}

// fallbackDocument is the last-resort ticket: booking reference plus a
// pointer back to the email body.
func (c *Composer) fallbackDocument(bookingRef string) ([]byte, error) {
	if bookingRef == "" {
		bookingRef = defaultSecurityCode
	}

	pdf := newTicketPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(31, 41, 55)
	pdf.SetXY(marginX, 60)
	pdf.CellFormat(pageW-2*marginX, 20, "NIBOG E-Ticket", "", 0, "CM", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(marginX, 100)
	pdf.CellFormat(pageW-2*marginX, 14, "Booking reference: "+bookingRef, "", 0, "CM", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.SetXY(marginX, 130)
	pdf.MultiCell(pageW-2*marginX, 12,
		"Your ticket details are listed in the body of this email. Please present this reference at the venue.",
		"", "CM", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newTicketPage() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

// normalizePNG re-encodes arbitrary image bytes as 8-bit NRGBA PNG, which
// is what gofpdf expects. Returns nil when the bytes are not a decodable
// image.
func normalizePNG(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil
	}
	return buf.Bytes()
}

// organizationName derives the organizer label from the first word of the
// event title.
func organizationName(eventTitle string) string {
	fields := strings.Fields(eventTitle)
	if len(fields) == 0 {
		return "NIBOG"
	}
	return fields[0]
}
