package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		score    int
		label    string
	}{
		{"empty", "", 0, "none"},
		{"short lowercase", "abc", 1, "very weak"},
		{"long lowercase", "abcdefgh", 2, "weak"},
		{"mixed case", "Abcdefgh", 3, "fair"},
		{"mixed case digit", "Abcdefg1", 4, "good"},
		{"all requirements", "Abcdefg1!", 5, "strong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, requirements := PasswordStrength(tt.password)
			assert.Equal(t, tt.score, score)
			assert.Len(t, requirements, 5)
			assert.Equal(t, tt.label, StrengthLabel(score))
		})
	}
}

func TestPasswordStrength_RequirementDetails(t *testing.T) {
	_, requirements := PasswordStrength("Abcdefg1")
	met := 0
	for _, r := range requirements {
		if r.Met {
			met++
		}
		assert.NotEmpty(t, r.Text)
	}
	assert.Equal(t, 4, met)
}
