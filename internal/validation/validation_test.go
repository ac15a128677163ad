package validation

import (
	"strings"
	"testing"

	"quad/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=5"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantErr string
	}{
		{"valid", signup{Email: "a@b.co", Name: "Ann"}, ""},
		{"missing email", signup{Name: "Ann"}, "email is required"},
		{"long name", signup{Email: "a@b.co", Name: "Annabelle"}, "name must be at most 5"},
		{"empty criteria", models.VoterCriteria{}, ""},
		{"score out of range", models.VoterCriteria{Score: intPtr(7)}, "score must be at most 5"},
		{"unknown election", models.VoterCriteria{ParticipatedIn: []models.Election{"v19x"}}, "participated_in[0] must be one of"},
		{"inverted years", models.VoterCriteria{MinBirthYear: intPtr(1980), MaxBirthYear: intPtr(1950)}, "max_birth_year must not be less than min_birth_year"},
		{"limit too large", models.VoterCriteria{Limit: 5000}, "limit must be at most 1000"},
		{"long party name", models.VoterCriteria{Party: strPtr("Green-Rainbow Party of Massachusetts")}, ""},
		{"party too long", models.VoterCriteria{Party: strPtr(strings.Repeat("p", 51))}, "party must be at most 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, models.HasCode(err, models.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
