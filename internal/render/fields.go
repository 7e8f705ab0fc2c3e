package render

import (
	"strings"

	"certificate-service/internal/models"
)

// Generic field value mapping. This is deliberately separate from the
// placeholder table in variables.go: placeholders resolve {tokens} inside
// free text, while this maps a field's *name* to a display value.

// fieldValue resolves the display value for a generic field. Well-known
// name fragments get dedicated chains with display defaults; everything
// else probes certificate_data and the top-level record in a fixed order,
// falling back to the field name itself as literal text.
func fieldValue(name string, cert *models.Certificate) string {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "date"):
		if v := formatDate(cert.TopLevelValue("event_date")); v != "" {
			return v
		}
		if v := formatDate(cert.DataValue("event_date")); v != "" {
			return v
		}
		return currentDate()
	case strings.Contains(n, "venue"):
		if v := cert.DataValue("venue_name"); v != "" {
			return v
		}
		if v := cert.TopLevelValue("venue_name"); v != "" {
			return v
		}
		return "Sports Arena"
	case strings.Contains(n, "city"):
		if v := cert.DataValue("city_name"); v != "" {
			return v
		}
		if v := cert.TopLevelValue("city_name"); v != "" {
			return v
		}
		return "New York"
	case strings.Contains(n, "certificate") && strings.Contains(n, "number"):
		if v := cert.DataValue("certificate_number"); v != "" {
			return v
		}
		if v := cert.TopLevelValue("certificate_number"); v != "" {
			return v
		}
		return "CERT-001"
	}

	probes := []string{n, snakeCase(name), name}
	for _, key := range probes {
		if v := cert.DataValue(key); v != "" {
			return v
		}
	}
	if v := cert.TopLevelValue(n); v != "" {
		return v
	}
	if v := cert.TopLevelValue(name); v != "" {
		return v
	}
	return name
}

func snakeCase(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// FieldNodes resolves every generic field into a positioned text node, in
// template field order. Title, participant-name and suppressed fields never
// reach this pass.
func FieldNodes(cls Classification, cert *models.Certificate) []TextNode {
	nodes := make([]TextNode, 0, len(cls.Generic))
	for _, f := range cls.Generic {
		nodes = append(nodes, TextNode{
			Text:       fieldValue(f.Name, cert),
			X:          f.X,
			Y:          f.Y,
			FontSize:   f.FontSize,
			FontFamily: f.FontFamily,
			Color:      f.Color,
			Align:      f.Alignment,
			Bold:       true,
			Underline:  f.Underline,
		})
	}
	return nodes
}
