package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// The composer emits a small typed layout model instead of building markup
// strings inline. The same node list drives both the HTML serializer below
// and the PDF serializer in pdf.go.

// TextNode is one absolutely positioned text block. X and Y are percentages
// of the page; the rendered box is centered on that anchor.
type TextNode struct {
	Text          string // may contain \n line breaks
	X             float64
	Y             float64
	FontSize      int // px
	FontFamily    string
	Color         string
	Align         string // left, center, right
	Bold          bool
	Underline     bool
	Uppercase     bool
	LetterSpacing float64 // px, 0 = none
	WidthPct      float64 // 0 = shrink to content
	LineHeight    float64 // multiplier, 0 = renderer default
}

// Border is the optional inset frame drawn 20px inside each page edge.
type Border struct {
	Width float64 // px
	Style string  // CSS border style
	Color string
}

// BackgroundKind selects how the page behind the text is painted.
type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundImage
	BackgroundSolid
	BackgroundGradient
)

// Background is the resolved page backdrop. Exactly one kind applies;
// the serializers decide how to express it (CSS declarations for HTML,
// fill or gradient drawing for PDF).
type Background struct {
	Kind         BackgroundKind
	ImageURL     string
	Color        string
	GradientFrom string
	GradientTo   string
}

// Document is the composed certificate: page geometry, background styling,
// optional border and the positioned text nodes in paint order.
type Document struct {
	// CSS page dimensions; empty when the paper size is unrecognized.
	Width  string
	Height string
	// Physical page dimensions for the PDF path; 0 when unrecognized.
	PageWidthMM  float64
	PageHeightMM float64
	Background   Background
	Border       *Border
	Nodes        []TextNode
}

const borderInsetPx = 20.0

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// HTML serializes the document into one self-contained page with an
// embedded stylesheet.
func (d *Document) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	b.WriteString("body { margin: 0; padding: 0; }\n")
	b.WriteString(".certificate { position: relative; overflow: hidden;")
	if d.Width != "" {
		b.WriteString(" width: " + d.Width + ";")
	}
	if d.Height != "" {
		b.WriteString(" height: " + d.Height + ";")
	}
	switch d.Background.Kind {
	case BackgroundImage:
		b.WriteString(" background-image: url('" + d.Background.ImageURL + "');")
		b.WriteString(" background-size: cover; background-position: center; background-repeat: no-repeat;")
	case BackgroundSolid:
		b.WriteString(" background-color: " + d.Background.Color + ";")
	case BackgroundGradient:
		fmt.Fprintf(&b, " background: linear-gradient(135deg, %s 0%%, %s 100%%);",
			d.Background.GradientFrom, d.Background.GradientTo)
	}
	b.WriteString(" }\n")
	if d.Border != nil {
		fmt.Fprintf(&b, ".certificate-border { position: absolute; top: %.0fpx; right: %.0fpx; bottom: %.0fpx; left: %.0fpx; border: %spx %s %s; pointer-events: none; }\n",
			borderInsetPx, borderInsetPx, borderInsetPx, borderInsetPx,
			strconv.FormatFloat(d.Border.Width, 'f', -1, 64), d.Border.Style, d.Border.Color)
	}
	b.WriteString(".field { position: absolute; transform: translate(-50%, -50%); }\n")
	b.WriteString("</style>\n</head>\n<body>\n<div class=\"certificate\">\n")
	if d.Border != nil {
		b.WriteString("<div class=\"certificate-border\"></div>\n")
	}
	for i := range d.Nodes {
		b.WriteString(d.Nodes[i].html())
		b.WriteByte('\n')
	}
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

func (n *TextNode) html() string {
	var s strings.Builder
	s.WriteString("left: " + pct(n.X) + "; top: " + pct(n.Y) + ";")
	if n.FontSize > 0 {
		fmt.Fprintf(&s, " font-size: %dpx;", n.FontSize)
	}
	if n.FontFamily != "" {
		s.WriteString(" font-family: " + n.FontFamily + ";")
	}
	if n.Color != "" {
		s.WriteString(" color: " + n.Color + ";")
	}
	align := n.Align
	if align == "" {
		align = "center"
	}
	s.WriteString(" text-align: " + align + ";")
	if n.Bold {
		s.WriteString(" font-weight: bold;")
	}
	if n.Underline {
		s.WriteString(" text-decoration: underline;")
	}
	if n.Uppercase {
		s.WriteString(" text-transform: uppercase;")
	}
	if n.LetterSpacing > 0 {
		s.WriteString(" letter-spacing: " + strconv.FormatFloat(n.LetterSpacing, 'f', -1, 64) + "px;")
	}
	if n.WidthPct > 0 {
		s.WriteString(" width: " + pct(n.WidthPct) + ";")
	}
	if n.LineHeight > 0 {
		s.WriteString(" line-height: " + strconv.FormatFloat(n.LineHeight, 'f', -1, 64) + ";")
	}

	text := html.EscapeString(n.Text)
	text = strings.ReplaceAll(text, "\n", "<br>")

	return "<div class=\"field\" style=\"" + s.String() + "\">" + text + "</div>"
}
