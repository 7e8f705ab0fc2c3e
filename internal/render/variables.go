package render

import (
	"regexp"
	"strings"
	"time"

	"certificate-service/internal/models"
)

// Pre-compiled placeholder pattern: {identifier}, no surrounding whitespace
// required, identifiers matched case-insensitively against the known table.
var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

const dateLayout = "January 2, 2006"

// accessor pulls one candidate value out of a certificate record.
type accessor func(c *models.Certificate) string

// variable is one known placeholder: an ordered fallback chain evaluated
// first-non-empty-wins, then a literal (or computed) default.
type variable struct {
	chain      []accessor
	defaultVal func() string
}

func dataKey(key string) accessor {
	return func(c *models.Certificate) string { return c.DataValue(key) }
}

func topKey(key string) accessor {
	return func(c *models.Certificate) string { return c.TopLevelValue(key) }
}

func literal(s string) func() string {
	return func() string { return s }
}

func currentDate() string {
	return time.Now().Format(dateLayout)
}

// formatDate reformats a machine timestamp for display. Unparseable but
// non-empty input passes through as-is.
func formatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return raw
}

// variableTable is the fixed lookup table of known placeholder names.
// Fallback order is data, not logic: each row lists its accessors in
// evaluation order.
var variableTable = map[string]variable{
	"participant_name": {
		chain:      []accessor{topKey("child_name"), dataKey("participant_name"), topKey("parent_name")},
		defaultVal: literal("Participant"),
	},
	"event_name": {
		chain:      []accessor{dataKey("event_name"), topKey("event_title")},
		defaultVal: literal("Event"),
	},
	"game_name": {
		chain:      []accessor{topKey("game_name"), dataKey("game_name")},
		defaultVal: literal(""),
	},
	"venue_name": {
		chain:      []accessor{dataKey("venue_name"), topKey("venue_name")},
		defaultVal: literal(""),
	},
	"city_name": {
		chain:      []accessor{dataKey("city_name"), topKey("city_name")},
		defaultVal: literal(""),
	},
	"certificate_number": {
		chain:      []accessor{dataKey("certificate_number"), topKey("certificate_number")},
		defaultVal: literal(""),
	},
	"event_date": {
		chain: []accessor{
			func(c *models.Certificate) string { return formatDate(c.TopLevelValue("event_date")) },
			func(c *models.Certificate) string { return formatDate(c.DataValue("event_date")) },
		},
		defaultVal: currentDate,
	},
	"date": {
		chain: []accessor{
			func(c *models.Certificate) string { return formatDate(c.TopLevelValue("generated_at")) },
		},
		defaultVal: currentDate,
	},
	"position": {
		chain:      []accessor{dataKey("position"), dataKey("rank")},
		defaultVal: literal("1st Place"),
	},
	"score": {
		chain:      []accessor{dataKey("score"), dataKey("points")},
		defaultVal: literal(""),
	},
	"achievement": {
		chain:      []accessor{dataKey("achievement"), dataKey("award")},
		defaultVal: literal("Outstanding Performance"),
	},
	"instructor": {
		chain:      []accessor{dataKey("instructor"), dataKey("teacher")},
		defaultVal: literal(""),
	},
	"organization": {
		chain:      []accessor{dataKey("organization")},
		defaultVal: literal("Nibog Events"),
	},
	"child_name": {
		chain:      []accessor{topKey("child_name"), dataKey("child_name")},
		defaultVal: literal(""),
	},
	"parent_name": {
		chain:      []accessor{topKey("parent_name"), dataKey("parent_name")},
		defaultVal: literal(""),
	},
}

// ResolveVariable resolves a single known variable name (case-insensitive)
// against a certificate record. The second return reports whether the name
// is in the known table.
func ResolveVariable(name string, cert *models.Certificate) (string, bool) {
	v, ok := variableTable[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	for _, get := range v.chain {
		if val := get(cert); val != "" {
			return val, true
		}
	}
	return v.defaultVal(), true
}

// ResolveVariables substitutes every {name} placeholder in text with its
// resolved value. Unknown placeholders are left untouched. Pure function:
// no side effects, never fails, a missing certificate_data mapping is
// treated as empty.
func ResolveVariables(text string, cert *models.Certificate) string {
	if text == "" || !strings.Contains(text, "{") {
		return text
	}
	return placeholderRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if val, ok := ResolveVariable(name, cert); ok {
			return val
		}
		return match
	})
}
