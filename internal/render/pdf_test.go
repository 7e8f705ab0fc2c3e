package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/models"
)

func TestRenderPDF(t *testing.T) {
	t.Parallel()

	c := NewComposer("")
	tpl := &models.CertificateTemplate{
		Type:        "winner",
		PaperSize:   "a4",
		Orientation: "landscape",
		BackgroundStyle: &models.BackgroundStyle{
			Type:           "gradient",
			GradientColors: []string{"#FDE68A", "#F59E0B"},
			BorderEnabled:  true,
		},
		Fields: []models.Field{
			{Name: "Participant Name", X: 50, Y: 40, FontSize: 28},
			{Name: "Venue Name", X: 50, Y: 80, FontSize: 14, Color: "#444444"},
		},
	}
	cert := &models.Certificate{
		ChildName:       "Aanya",
		VenueName:       "Indoor Stadium",
		CertificateData: map[string]any{"event_name": "Baby Crawling Finals"},
	}

	doc, err := c.Compose(tpl, cert)
	require.NoError(t, err)

	pdfBytes, err := RenderPDF(doc)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestRenderPDFUnknownPaperFallsBackToA4(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Nodes: []TextNode{{Text: "Hello", X: 50, Y: 50, FontSize: 20}},
	}
	pdfBytes, err := RenderPDF(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
}

func TestRenderPDFNilDocument(t *testing.T) {
	t.Parallel()

	_, err := RenderPDF(nil)
	assert.Error(t, err)
}

func TestPDFFontFamilyMapping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Helvetica", pdfFontFamily("Arial"))
	assert.Equal(t, "Helvetica", pdfFontFamily(""))
	assert.Equal(t, "Times", pdfFontFamily("Times New Roman"))
	assert.Equal(t, "Times", pdfFontFamily("Georgia"))
	assert.Equal(t, "Courier", pdfFontFamily("Courier New"))
	assert.Equal(t, "Courier", pdfFontFamily("JetBrains Mono"))
}
