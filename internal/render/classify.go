package render

import (
	"strings"

	"certificate-service/internal/models"
)

// FieldRole tags what a template field contributes to the document. The
// original templates rely on fuzzy name matching, so classification is a
// substring test, but it runs exactly once per field up front.
type FieldRole int

const (
	// RoleGeneric fields emit one positioned text fragment each.
	RoleGeneric FieldRole = iota
	// RoleTitle marks the certificate-title field; rendered once by the
	// composer, never by the generic pass.
	RoleTitle
	// RoleParticipantName marks the participant-name field; rendered once
	// by the composer.
	RoleParticipantName
	// RoleSuppressed fields are dropped: their content is already covered
	// by the title, name or appreciation blocks.
	RoleSuppressed
)

// ClassifyField assigns a role from the field's name alone. Matching is
// case-insensitive on substrings: "certificate"+"title" is the title,
// "participant"+"name" is the name, and achievement/position/event-name
// and other participant-flavored duplicates are suppressed.
func ClassifyField(name string) FieldRole {
	n := strings.ToLower(name)
	hasTitle := strings.Contains(n, "certificate") && strings.Contains(n, "title")
	hasName := strings.Contains(n, "participant") && strings.Contains(n, "name")

	switch {
	case hasTitle:
		return RoleTitle
	case hasName:
		return RoleParticipantName
	case strings.Contains(n, "achievement"):
		return RoleSuppressed
	case strings.Contains(n, "position"):
		return RoleSuppressed
	case strings.Contains(n, "event") && strings.Contains(n, "name"):
		return RoleSuppressed
	case strings.Contains(n, "participant"):
		return RoleSuppressed
	}
	return RoleGeneric
}

// Classification is the one-pass result over a template's field list.
// Title and ParticipantName keep only the first match in field order;
// later duplicates are excluded from generic rendering regardless.
type Classification struct {
	Title           *models.Field
	ParticipantName *models.Field
	Generic         []models.Field
}

// Classify walks the template fields in input order and buckets them.
func Classify(fields []models.Field) Classification {
	var out Classification
	for i := range fields {
		f := fields[i]
		switch ClassifyField(f.Name) {
		case RoleTitle:
			if out.Title == nil {
				out.Title = &fields[i]
			}
		case RoleParticipantName:
			if out.ParticipantName == nil {
				out.ParticipantName = &fields[i]
			}
		case RoleSuppressed:
			// Covered elsewhere, drop.
		default:
			out.Generic = append(out.Generic, f)
		}
	}
	return out
}
