package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDF serializer for the same layout document the HTML path renders.
// Differences are deliberate and minimal: a page must have a physical box,
// so unrecognized paper sizes fall back to A4 here, and image backgrounds
// are not painted (the composer performs no I/O, so remote artwork is only
// referenced from the HTML output).

const (
	pxToMM = 25.4 / 96.0
	pxToPt = 72.0 / 96.0
	ptToMM = 25.4 / 72.0
)

// RenderPDF draws the document onto a single page and returns the bytes.
func RenderPDF(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render pdf: document is nil")
	}

	pageW, pageH := doc.PageWidthMM, doc.PageHeightMM
	if pageW <= 0 || pageH <= 0 {
		pageW, pageH = 210, 297
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	drawBackground(pdf, doc.Background, pageW, pageH)
	drawBorder(pdf, doc.Border, pageW, pageH)

	for i := range doc.Nodes {
		drawTextNode(pdf, &doc.Nodes[i], pageW, pageH)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBackground(pdf *gofpdf.Fpdf, bg Background, pageW, pageH float64) {
	switch bg.Kind {
	case BackgroundSolid:
		r, g, b := hexToRGB(bg.Color)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(0, 0, pageW, pageH, "F")
	case BackgroundGradient:
		r1, g1, b1 := hexToRGB(bg.GradientFrom)
		r2, g2, b2 := hexToRGB(bg.GradientTo)
		// Diagonal top-left to bottom-right, matching the 135deg CSS stop.
		pdf.LinearGradient(0, 0, pageW, pageH, r1, g1, b1, r2, g2, b2, 0, 0, 1, 1)
	}
}

func drawBorder(pdf *gofpdf.Fpdf, border *Border, pageW, pageH float64) {
	if border == nil {
		return
	}
	inset := borderInsetPx * pxToMM
	r, g, b := hexToRGB(border.Color)
	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(border.Width * pxToMM)
	if border.Style == "dashed" || border.Style == "dotted" {
		pdf.SetDashPattern([]float64{2, 2}, 0)
		defer pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.Rect(inset, inset, pageW-2*inset, pageH-2*inset, "D")
}

func drawTextNode(pdf *gofpdf.Fpdf, n *TextNode, pageW, pageH float64) {
	text := n.Text
	if n.Uppercase {
		text = strings.ToUpper(text)
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	fontSize := float64(n.FontSize) * pxToPt
	if fontSize <= 0 {
		fontSize = 12
	}
	style := ""
	if n.Bold {
		style += "B"
	}
	if n.Underline {
		style += "U"
	}
	pdf.SetFont(pdfFontFamily(n.FontFamily), style, fontSize)

	r, g, b := hexToRGB(n.Color)
	pdf.SetTextColor(r, g, b)

	align := "CM"
	switch n.Align {
	case "left":
		align = "LM"
	case "right":
		align = "RM"
	}

	lineMult := n.LineHeight
	if lineMult <= 0 {
		lineMult = 1.2
	}
	lineH := fontSize * ptToMM * lineMult

	anchorX := n.X / 100 * pageW
	anchorY := n.Y / 100 * pageH

	lines := strings.Split(text, "\n")
	boxW := n.WidthPct / 100 * pageW
	if boxW <= 0 {
		for _, line := range lines {
			pdf.SetFont(pdfFontFamily(n.FontFamily), style, fontSize)
			if w := pdf.GetStringWidth(line) + 2; w > boxW {
				boxW = w
			}
		}
	}

	startY := anchorY - lineH*float64(len(lines))/2
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		y := startY + float64(i)*lineH
		pdf.SetXY(anchorX-boxW/2, y)
		if pdf.GetStringWidth(line) > boxW*0.95 {
			pdf.MultiCell(boxW, lineH, line, "", align, false)
		} else {
			pdf.CellFormat(boxW, lineH, line, "", 0, align, false, 0, "")
		}
	}
}

// pdfFontFamily maps CSS font names onto gofpdf's core fonts.
func pdfFontFamily(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	default:
		return "Helvetica"
	}
}
