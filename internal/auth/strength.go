package auth

import "strings"

// Requirement is one satisfied-or-not rule of the strength evaluation.
type Requirement struct {
	Met  bool
	Text string
}

var strengthLabels = []string{"very weak", "weak", "fair", "good", "strong"}

const specialRunes = `!@#$%^&*(),.?":{}|<>`

type strengthRule struct {
	check func(string) bool
	text  string
}

var strengthRules = []strengthRule{
	{func(p string) bool { return len(p) >= 8 }, "at least 8 characters"},
	{func(p string) bool { return containsRange(p, 'A', 'Z') }, "at least one uppercase letter"},
	{func(p string) bool { return containsRange(p, 'a', 'z') }, "at least one lowercase letter"},
	{func(p string) bool { return containsRange(p, '0', '9') }, "at least one digit"},
	{func(p string) bool { return strings.ContainsAny(p, specialRunes) }, "at least one special character"},
}

// PasswordStrength scores a password from 0 to 5, one point per requirement
// met, and reports which requirements passed.
func PasswordStrength(password string) (int, []Requirement) {
	requirements := make([]Requirement, 0, len(strengthRules))
	score := 0
	for _, rule := range strengthRules {
		met := rule.check(password)
		if met {
			score++
		}
		requirements = append(requirements, Requirement{Met: met, Text: rule.text})
	}
	return score, requirements
}

// StrengthLabel maps a score to a human-readable level.
func StrengthLabel(score int) string {
	if score <= 0 {
		return "none"
	}
	if score > len(strengthLabels) {
		score = len(strengthLabels)
	}
	return strengthLabels[score-1]
}

func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
