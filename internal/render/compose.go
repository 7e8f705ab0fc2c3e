package render

import (
	"fmt"
	"strconv"
	"strings"

	"certificate-service/internal/models"
)

// Composer assembles a template and a certificate record into a layout
// document. It performs no I/O and holds no per-render state; one instance
// is safe for concurrent use.
type Composer struct {
	assetBaseURL string
}

// NewComposer returns a composer. assetBaseURL prefixes relative background
// image URLs; absolute URLs pass through untouched.
func NewComposer(assetBaseURL string) *Composer {
	return &Composer{assetBaseURL: strings.TrimSuffix(assetBaseURL, "/")}
}

// Compose builds the layout document: background, border, page geometry,
// the title / participant-name / appreciation blocks and the generic
// fields. It fails fast on absent inputs rather than emitting a partial
// document.
func (c *Composer) Compose(tpl *models.CertificateTemplate, cert *models.Certificate) (*Document, error) {
	if tpl == nil {
		return nil, fmt.Errorf("compose: template is nil")
	}
	if cert == nil {
		return nil, fmt.Errorf("compose: certificate is nil")
	}

	cls := Classify(tpl.Fields)

	doc := &Document{
		Background: c.resolveBackground(tpl),
		Border:     resolveBorder(tpl.BackgroundStyle),
	}
	doc.Width, doc.Height = paperDimensionsCSS(tpl.PaperSize, tpl.Orientation)
	doc.PageWidthMM, doc.PageHeightMM = paperDimensionsMM(tpl.PaperSize, tpl.Orientation)

	doc.Nodes = append(doc.Nodes, titleNode(tpl, cls, cert))

	nameNode, appreciationY := participantNameNode(cls, cert)
	doc.Nodes = append(doc.Nodes, nameNode)

	if text := appreciationText(tpl); text != "" {
		doc.Nodes = append(doc.Nodes, TextNode{
			Text:       ResolveVariables(text, cert),
			X:          50,
			Y:          appreciationY,
			FontSize:   16,
			FontFamily: "Arial",
			Color:      "#555555",
			Align:      "center",
			WidthPct:   80,
			LineHeight: 1.6,
		})
	}

	doc.Nodes = append(doc.Nodes, FieldNodes(cls, cert)...)

	return doc, nil
}

// RenderHTML is the one-call path: compose then serialize.
func (c *Composer) RenderHTML(tpl *models.CertificateTemplate, cert *models.Certificate) (string, error) {
	doc, err := c.Compose(tpl, cert)
	if err != nil {
		return "", err
	}
	return doc.HTML(), nil
}

// ============ BACKGROUND & BORDER ============

// resolveBackground picks exactly one background path. A present
// background_style always wins over the legacy background_image; an image
// style without a usable URL (or a gradient without exactly two colors)
// falls through to the legacy image.
func (c *Composer) resolveBackground(tpl *models.CertificateTemplate) Background {
	bs := tpl.BackgroundStyle
	if bs != nil {
		switch bs.Type {
		case "image":
			if url := c.resolveURL(bs.ImageURL); url != "" {
				return Background{Kind: BackgroundImage, ImageURL: url}
			}
		case "solid":
			if bs.SolidColor != "" {
				return Background{Kind: BackgroundSolid, Color: bs.SolidColor}
			}
			return Background{}
		case "gradient":
			if len(bs.GradientColors) == 2 {
				return Background{
					Kind:         BackgroundGradient,
					GradientFrom: bs.GradientColors[0],
					GradientTo:   bs.GradientColors[1],
				}
			}
		}
	}
	if url := c.resolveURL(tpl.BackgroundImage); url != "" {
		return Background{Kind: BackgroundImage, ImageURL: url}
	}
	return Background{}
}

func (c *Composer) resolveURL(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "data:") {
		return url
	}
	if c.assetBaseURL == "" {
		return url
	}
	return c.assetBaseURL + "/" + strings.TrimPrefix(url, "/")
}

func resolveBorder(bs *models.BackgroundStyle) *Border {
	if bs == nil || !bs.BorderEnabled {
		return nil
	}
	b := &Border{Width: bs.BorderWidth, Style: bs.BorderStyle, Color: bs.BorderColor}
	if b.Width <= 0 {
		b.Width = 2
	}
	if b.Style == "" {
		b.Style = "solid"
	}
	if b.Color == "" {
		b.Color = "#000000"
	}
	return b
}

// ============ PAPER SIZING ============

// paperDimensionsCSS maps (paper_size, orientation) to CSS lengths.
// Unrecognized sizes yield empty dimensions; the caller is expected to send
// one of a4, a3 or letter.
func paperDimensionsCSS(size, orientation string) (w, h string) {
	landscape := strings.ToLower(orientation) == "landscape"
	switch strings.ToLower(size) {
	case "a4":
		if landscape {
			return "297mm", "210mm"
		}
		return "210mm", "297mm"
	case "a3":
		if landscape {
			return "420mm", "297mm"
		}
		return "297mm", "420mm"
	case "letter":
		if landscape {
			return "11in", "8.5in"
		}
		return "8.5in", "11in"
	}
	return "", ""
}

// paperDimensionsMM returns the physical page box in millimeters for the
// PDF serializer. Unrecognized sizes return 0,0; the PDF path substitutes
// A4 because a page must have some box.
func paperDimensionsMM(size, orientation string) (w, h float64) {
	const letterW, letterH = 215.9, 279.4
	landscape := strings.ToLower(orientation) == "landscape"
	switch strings.ToLower(size) {
	case "a4":
		w, h = 210, 297
	case "a3":
		w, h = 297, 420
	case "letter":
		w, h = letterW, letterH
	default:
		return 0, 0
	}
	if landscape {
		return h, w
	}
	return w, h
}

// ============ TITLE / NAME / APPRECIATION BLOCKS ============

// defaultTitle synthesizes the standard phrase for a template type.
func defaultTitle(templateType string) string {
	switch strings.ToLower(templateType) {
	case "winner":
		return "Certificate of Achievement"
	case "excellence":
		return "Certificate of Excellence"
	default:
		return "Certificate of Participation"
	}
}

// titleNode builds the single title block. Priority: a classified title
// field (its own name verbatim, unless it is literally "Certificate Title",
// which maps to the synthesized phrase), then the template's explicit
// certificate_title, then the synthesized phrase. The text runs through the
// variable resolver before rendering.
func titleNode(tpl *models.CertificateTemplate, cls Classification, cert *models.Certificate) TextNode {
	text := ""
	underline := false
	if cls.Title != nil {
		underline = cls.Title.Underline
		if cls.Title.Name == "Certificate Title" {
			text = defaultTitle(tpl.Type)
		} else {
			text = cls.Title.Name
		}
	} else if tpl.CertificateTitle != "" {
		text = tpl.CertificateTitle
	} else {
		text = defaultTitle(tpl.Type)
	}

	node := TextNode{
		Text:          ResolveVariables(text, cert),
		X:             50,
		Y:             15,
		FontSize:      32,
		FontFamily:    "Arial",
		Color:         "#333333",
		Align:         "center",
		Bold:          true,
		Underline:     underline,
		Uppercase:     true,
		LetterSpacing: 2,
	}
	if cls.Title != nil {
		if cls.Title.Color != "" {
			node.Color = cls.Title.Color
		}
		if cls.Title.FontFamily != "" {
			node.FontFamily = cls.Title.FontFamily
		}
	}
	return node
}

// participantNameNode builds the name block from the classified field's
// styling, or the documented defaults when the template has no such field.
// The second return is the y anchor for the appreciation block: 20 percent
// below the name field, or 65 when no name field existed.
func participantNameNode(cls Classification, cert *models.Certificate) (TextNode, float64) {
	name, _ := ResolveVariable("participant_name", cert)
	node := TextNode{
		Text:       name,
		X:          50,
		Y:          40,
		FontSize:   28,
		FontFamily: "Arial",
		Color:      "#333333",
		Align:      "center",
		Bold:       true,
	}
	appreciationY := 65.0
	if f := cls.ParticipantName; f != nil {
		node.X = f.X
		node.Y = f.Y
		if f.FontSize > 0 {
			node.FontSize = f.FontSize
		}
		if f.FontFamily != "" {
			node.FontFamily = f.FontFamily
		}
		if f.Color != "" {
			node.Color = f.Color
		}
		if f.Alignment != "" {
			node.Align = f.Alignment
		}
		node.Underline = f.Underline
		appreciationY = f.Y + 20
	}
	return node, appreciationY
}

// Canned appreciation paragraphs keyed by template type. Both contain
// placeholders so the resolved body always names the event (and, for
// winners, the achievement).
const (
	participationAppreciation = "In recognition of your enthusiastic participation in {event_name}.\nYour energy and spirit made the event truly special."
	winnerAppreciation        = "For achieving {achievement} in {event_name}.\nCongratulations on this outstanding accomplishment."
)

// appreciationText returns the body paragraph before variable resolution.
// An explicit override wins; otherwise participation and winner templates
// get their canned defaults and any other type yields no body.
func appreciationText(tpl *models.CertificateTemplate) string {
	if tpl.AppreciationText != "" {
		return tpl.AppreciationText
	}
	switch strings.ToLower(tpl.Type) {
	case "participation":
		return participationAppreciation
	case "winner":
		return winnerAppreciation
	}
	return ""
}

// hexToRGB parses a #RRGGBB color for the PDF serializer.
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ := strconv.ParseInt(hex[0:2], 16, 64)
	g, _ := strconv.ParseInt(hex[2:4], 16, 64)
	b, _ := strconv.ParseInt(hex[4:6], 16, 64)
	return int(r), int(g), int(b)
}
