package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/models"
)

func TestFieldValueWellKnownNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fieldName string
		cert      *models.Certificate
		want      string
	}{
		{
			name:      "date field uses event date",
			fieldName: "Event Date",
			cert:      &models.Certificate{EventDate: "2026-03-14"},
			want:      "March 14, 2026",
		},
		{
			name:      "venue from certificate data",
			fieldName: "Venue",
			cert:      &models.Certificate{CertificateData: map[string]any{"venue_name": "Gachibowli Arena"}},
			want:      "Gachibowli Arena",
		},
		{
			name:      "venue default",
			fieldName: "Venue",
			cert:      &models.Certificate{},
			want:      "Sports Arena",
		},
		{
			name:      "city default",
			fieldName: "City",
			cert:      &models.Certificate{},
			want:      "New York",
		},
		{
			name:      "city from top level",
			fieldName: "City",
			cert:      &models.Certificate{CityName: "Hyderabad"},
			want:      "Hyderabad",
		},
		{
			name:      "certificate number default",
			fieldName: "Certificate Number",
			cert:      &models.Certificate{},
			want:      "CERT-001",
		},
		{
			name:      "certificate number from record",
			fieldName: "Certificate Number",
			cert:      &models.Certificate{CertificateNumber: "NIBOG-2026-0042"},
			want:      "NIBOG-2026-0042",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fieldValue(tt.fieldName, tt.cert))
		})
	}
}

func TestFieldValueProbeOrder(t *testing.T) {
	t.Parallel()

	// Snake-cased field name hits certificate_data first.
	cert := &models.Certificate{
		GameName:        "Baby Crawling",
		CertificateData: map[string]any{"game_name": "Obstacle Race"},
	}
	assert.Equal(t, "Obstacle Race", fieldValue("Game Name", cert))

	// Absent from certificate_data, falls through to the top-level record.
	cert = &models.Certificate{GameName: "Baby Crawling"}
	assert.Equal(t, "Baby Crawling", fieldValue("Game Name", cert))

	// Raw key match in certificate_data.
	cert = &models.Certificate{CertificateData: map[string]any{"Coach": "Ravi"}}
	assert.Equal(t, "Ravi", fieldValue("Coach", cert))

	// Nothing matches: the field's own name is the literal fallback.
	assert.Equal(t, "Special Mention", fieldValue("Special Mention", &models.Certificate{}))
}

func TestFieldNodes(t *testing.T) {
	t.Parallel()

	cls := Classify([]models.Field{
		{Name: "Certificate Title", X: 50, Y: 10},
		{Name: "Venue Name", X: 30, Y: 80, FontSize: 14, FontFamily: "Georgia", Color: "#112233", Alignment: "left", Underline: true},
	})
	cert := &models.Certificate{VenueName: "Indoor Stadium"}

	nodes := FieldNodes(cls, cert)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, "Indoor Stadium", n.Text)
	assert.Equal(t, 30.0, n.X)
	assert.Equal(t, 80.0, n.Y)
	assert.Equal(t, 14, n.FontSize)
	assert.Equal(t, "Georgia", n.FontFamily)
	assert.Equal(t, "#112233", n.Color)
	assert.Equal(t, "left", n.Align)
	assert.True(t, n.Bold)
	assert.True(t, n.Underline)
}
