package ticket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"certificate-service/internal/models"
)

// Stage one of the two-stage ticket contract: a pure defaulting pass that
// never fails. Every output field is filled with something printable and
// the names of fields that had to be defaulted are reported back, so the
// caller can tell a pristine ticket from a degraded one.

// Data is a fully populated ticket: every field is safe to draw.
type Data struct {
	BookingRef   string
	TicketNumber string
	EventTitle   string
	EventDate    string
	ChildName    string
	GameName     string
	SlotTime     string
	Price        string
	VenueName    string
	VenueAddress string
	SecurityCode string
}

const (
	defaultEventTitle   = "NIBOG Event"
	defaultSecurityCode = "N/A"
)

// Validate fills a draw-ready Data from a raw booking row, defaulting every
// missing field and collecting their names. A nil row yields a fully
// defaulted ticket.
func Validate(raw *models.TicketDetail, bookingRef string) (Data, []string) {
	var missing []string
	if raw == nil {
		raw = &models.TicketDetail{}
		missing = append(missing, "ticket_details")
	}

	pick := func(name, val, fallback string) string {
		if strings.TrimSpace(val) != "" {
			return val
		}
		missing = append(missing, name)
		return fallback
	}

	d := Data{
		BookingRef:   bookingRef,
		TicketNumber: pick("ticket_number", raw.TicketNumber, "N/A"),
		EventTitle:   pick("event_title", raw.EventTitle, defaultEventTitle),
		EventDate:    formatEventDate(raw.EventDate),
		ChildName:    pick("child_name", raw.ChildName, "Participant"),
		GameName:     pick("game_name", raw.GameName, "Game"),
		SlotTime:     pick("slot_time", raw.SlotTime, "TBD"),
		VenueName:    pick("venue_name", raw.VenueName, "Venue TBD"),
		VenueAddress: raw.VenueAddress,
	}
	if d.BookingRef == "" {
		d.BookingRef = raw.BookingRef
	}
	if raw.EventDate == "" {
		missing = append(missing, "event_date")
	}

	// A textual currency prefix keeps the renderer free of glyph issues.
	if raw.Price > 0 {
		d.Price = fmt.Sprintf("Rs. %.2f", raw.Price)
	} else {
		d.Price = "Rs. 0.00"
		missing = append(missing, "price")
	}

	d.SecurityCode = securityCode(raw, bookingRef)
	if d.SecurityCode == defaultSecurityCode {
		missing = append(missing, "security_code")
	}

	return d, missing
}

// securityCode picks the gate code in priority order: numeric booking id,
// explicit security code, external booking reference, fixed fallback.
func securityCode(raw *models.TicketDetail, bookingRef string) string {
	if raw.BookingID > 0 {
		return strconv.Itoa(raw.BookingID)
	}
	if raw.SecurityCode != "" {
		return raw.SecurityCode
	}
	if bookingRef != "" {
		return bookingRef
	}
	return defaultSecurityCode
}

// formatEventDate normalizes machine timestamps into display form;
// anything unparseable passes through so a malformed date still prints.
func formatEventDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Date TBD"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Monday, January 2, 2006")
		}
	}
	return raw
}

// spacedOut renders a value with inter-letter spacing for display emphasis.
func spacedOut(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return s
	}
	var b strings.Builder
	for i, r := range runes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// wrapText word-wraps at a fixed character threshold, breaking over-long
// words hard.
func wrapText(s string, width int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
