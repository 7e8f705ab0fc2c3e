package models

import (
	"fmt"
	"strings"
)

// ============ TEMPLATE STRUCTURES ============

// CertificateTemplate describes a reusable certificate layout: background,
// paper geometry and a set of independently positioned text fields.
type CertificateTemplate struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`        // participation, winner, excellence
	PaperSize        string           `json:"paper_size"`  // a4, a3, letter
	Orientation      string           `json:"orientation"` // portrait, landscape
	BackgroundStyle  *BackgroundStyle `json:"background_style,omitempty"`
	BackgroundImage  string           `json:"background_image,omitempty"` // legacy, background_style wins
	CertificateTitle string           `json:"certificate_title,omitempty"`
	AppreciationText string           `json:"appreciation_text,omitempty"`
	Fields           []Field          `json:"fields"`
}

// BackgroundStyle is a tagged variant: Type selects exactly one rendering
// path (image, solid or gradient). Border decoration rides along with it.
type BackgroundStyle struct {
	Type           string   `json:"type"` // image, solid, gradient
	ImageURL       string   `json:"image_url,omitempty"`
	SolidColor     string   `json:"solid_color,omitempty"`
	GradientColors []string `json:"gradient_colors,omitempty"`
	BorderEnabled  bool     `json:"border_enabled,omitempty"`
	BorderWidth    float64  `json:"border_width,omitempty"`
	BorderStyle    string   `json:"border_style,omitempty"`
	BorderColor    string   `json:"border_color,omitempty"`
}

// Field is a named, positioned text placeholder. X and Y are percentages of
// the container; rendering anchors the field's center at that point.
type Field struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   int     `json:"font_size"`
	FontFamily string  `json:"font_family"`
	Color      string  `json:"color"`
	Alignment  string  `json:"alignment"` // left, center, right
	Underline  bool    `json:"underline"`
}

// ============ CERTIFICATE RECORD ============

// Certificate is one issued certificate's subject data, fetched from the
// lookup service. CertificateData is an open mapping used as the fallback
// source when a top-level field is absent.
type Certificate struct {
	ID                int            `json:"id"`
	ChildName         string         `json:"child_name"`
	ParentName        string         `json:"parent_name"`
	EventTitle        string         `json:"event_title"`
	EventDate         string         `json:"event_date"`
	VenueName         string         `json:"venue_name"`
	CityName          string         `json:"city_name"`
	CertificateNumber string         `json:"certificate_number"`
	GameName          string         `json:"game_name"`
	GeneratedAt       string         `json:"generated_at"`
	CertificateData   map[string]any `json:"certificate_data"`
}

// DataValue returns certificate_data[key] as a string, or "" when the key is
// absent or the whole mapping is missing.
func (c *Certificate) DataValue(key string) string {
	if c == nil || c.CertificateData == nil {
		return ""
	}
	v, ok := c.CertificateData[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// TopLevelValue looks up a top-level certificate column by key, matching
// case-insensitively and treating spaces as underscores so display names
// like "Game Name" reach the game_name column.
func (c *Certificate) TopLevelValue(key string) string {
	if c == nil {
		return ""
	}
	switch strings.ReplaceAll(strings.ToLower(key), " ", "_") {
	case "child_name":
		return c.ChildName
	case "parent_name":
		return c.ParentName
	case "event_title":
		return c.EventTitle
	case "event_date":
		return c.EventDate
	case "venue_name":
		return c.VenueName
	case "city_name":
		return c.CityName
	case "certificate_number":
		return c.CertificateNumber
	case "game_name":
		return c.GameName
	case "generated_at":
		return c.GeneratedAt
	}
	return ""
}

// ============ TICKET STRUCTURES ============

// TicketDetail is one raw booking row as delivered by the booking webhook.
// Every field is optional; the ticket composer defaults what is missing.
type TicketDetail struct {
	BookingID    int     `json:"booking_id"`
	BookingRef   string  `json:"booking_ref"`
	TicketNumber string  `json:"ticket_number"`
	EventTitle   string  `json:"event_title"`
	EventDate    string  `json:"event_date"`
	ChildName    string  `json:"child_name"`
	GameName     string  `json:"game_name"`
	SlotTime     string  `json:"slot_time"`
	Price        float64 `json:"price"`
	VenueName    string  `json:"venue_name"`
	VenueAddress string  `json:"venue_address"`
	SecurityCode string  `json:"security_code"`
}

// ============ REQUEST/RESPONSE STRUCTURES ============

type RenderCertificateRequest struct {
	CertificateID int    `json:"certificate_id" validate:"required"`
	TemplateID    int    `json:"template_id" validate:"required"`
	Format        string `json:"format" validate:"omitempty,oneof=html pdf"`
}

type RenderCertificateResponse struct {
	HTML          string `json:"html"`
	CertificateID int    `json:"certificate_id"`
	TemplateID    int    `json:"template_id"`
}

type BatchRenderRequest struct {
	CertificateIDs []int `json:"certificate_ids" validate:"required,min=1,max=500"`
	TemplateID     int   `json:"template_id" validate:"required"`
}

type BatchRenderResponse struct {
	Success bool           `json:"success"`
	Total   int            `json:"total"`
	Results []RenderResult `json:"results"`
}

type RenderResult struct {
	CertificateID int    `json:"certificate_id"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	HTML          string `json:"html,omitempty"`
}

type TicketEmailRequest struct {
	To         string         `json:"to" validate:"required,email"`
	Subject    string         `json:"subject" validate:"required"`
	HTML       string         `json:"html"`
	BookingRef string         `json:"booking_ref"`
	QRImages   [][]byte       `json:"qr_images"` // base64 in transit
	Tickets    []TicketDetail `json:"tickets"`
}

type TicketEmailResponse struct {
	Success         bool     `json:"success"`
	MessageID       string   `json:"message_id,omitempty"`
	DefaultedFields []string `json:"defaulted_fields,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
