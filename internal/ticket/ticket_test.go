package ticket

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/models"
)

func TestComposeNeverFails(t *testing.T) {
	t.Parallel()

	c := NewComposer("www.nibog.in")

	tests := []struct {
		name       string
		raw        *models.TicketDetail
		qr         []byte
		bookingRef string
	}{
		{"nil record and no qr", nil, nil, "PPT260831000001"},
		{"nil record and garbage qr bytes", nil, []byte("not an image"), "PPT260831000001"},
		{"empty record no booking ref", &models.TicketDetail{}, nil, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pdfBytes, _, err := c.Compose(tt.raw, tt.qr, tt.bookingRef)
			require.NoError(t, err)
			require.NotEmpty(t, pdfBytes)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestComposeReportsDefaultedFields(t *testing.T) {
	t.Parallel()

	c := NewComposer("")
	_, missing, err := c.Compose(nil, nil, "REF-1")
	require.NoError(t, err)
	assert.Contains(t, missing, "ticket_details")
	assert.Contains(t, missing, "ticket_number")
	assert.Contains(t, missing, "game_name")
}

func TestComposeFullTicket(t *testing.T) {
	t.Parallel()

	c := NewComposer("www.nibog.in")
	raw := &models.TicketDetail{
		BookingID:    8101,
		TicketNumber: "T-0042",
		EventTitle:   "NIBOG Hyderabad 2026",
		EventDate:    "2026-03-14",
		ChildName:    "Aanya",
		GameName:     "Baby Crawling",
		SlotTime:     "10:00 AM - 10:30 AM",
		Price:        799,
		VenueName:    "Indoor Stadium",
		VenueAddress: "Gachibowli, Hyderabad, Telangana 500032",
	}

	pdfBytes, missing, err := c.Compose(raw, testPNG(t), "PPT260831000001")
	require.NoError(t, err)
	assert.Empty(t, missing)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestFallbackDocument(t *testing.T) {
	t.Parallel()

	c := NewComposer("")
	pdfBytes, err := c.fallbackDocument("PPT260831000001")
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestNormalizePNG(t *testing.T) {
	t.Parallel()

	assert.Nil(t, normalizePNG(nil))
	assert.Nil(t, normalizePNG([]byte("definitely not an image")))

	out := normalizePNG(testPNG(t))
	require.NotNil(t, out)
	// PNG magic bytes.
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}
