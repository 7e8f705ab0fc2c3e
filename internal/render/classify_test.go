package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/models"
)

func TestClassifyField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want FieldRole
	}{
		{"Certificate Title", RoleTitle},
		{"certificate title", RoleTitle},
		{"Winner Certificate Title", RoleTitle},
		{"Participant Name", RoleParticipantName},
		{"PARTICIPANT NAME", RoleParticipantName},
		{"Achievement Level", RoleSuppressed},
		{"Position", RoleSuppressed},
		{"Final Position", RoleSuppressed},
		{"Event Name", RoleSuppressed},
		{"Participant Age", RoleSuppressed},
		{"Venue Name", RoleGeneric},
		{"City", RoleGeneric},
		{"Certificate Number", RoleGeneric},
		{"Event Date", RoleGeneric},
		{"Instructor", RoleGeneric},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyField(tt.name))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	t.Parallel()

	fields := []models.Field{
		{Name: "Certificate Title", X: 50, Y: 10},
		{Name: "Participant Name", X: 50, Y: 40, FontSize: 30},
		{Name: "Certificate Title", X: 50, Y: 90},
		{Name: "Participant Name", X: 10, Y: 10},
		{Name: "Venue Name", X: 20, Y: 80},
	}

	cls := Classify(fields)

	require.NotNil(t, cls.Title)
	assert.Equal(t, 10.0, cls.Title.Y, "first title field in order supplies the block")
	require.NotNil(t, cls.ParticipantName)
	assert.Equal(t, 30, cls.ParticipantName.FontSize)
	assert.Equal(t, 40.0, cls.ParticipantName.Y)

	// Duplicates are excluded from generic rendering entirely.
	require.Len(t, cls.Generic, 1)
	assert.Equal(t, "Venue Name", cls.Generic[0].Name)
}

func TestClassifyEmptyFields(t *testing.T) {
	t.Parallel()

	cls := Classify(nil)
	assert.Nil(t, cls.Title)
	assert.Nil(t, cls.ParticipantName)
	assert.Empty(t, cls.Generic)
}
