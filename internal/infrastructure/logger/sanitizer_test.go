package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerLevels(t *testing.T) {
	input := "Write to grace@example.com"

	assert.Equal(t, "[REDACTED]", NewSanitizer(PIILevelNone, "salt").Text(input))
	assert.Equal(t, input, NewSanitizer(PIILevelFull, "salt").Text(input))

	unknown := NewSanitizer(PIILevel("verbose"), "salt")
	assert.Equal(t, PIILevelHashed, unknown.level)
}

func TestSanitizerHashesContactDetails(t *testing.T) {
	s := NewSanitizer(PIILevelHashed, "marketplace-api")

	tests := []struct {
		name     string
		input    string
		hidden   string
		replaced string
	}{
		{"email", "Contact me at john.doe@example.com for details", "john.doe@example.com", "[EMAIL:"},
		{"phone dashes", "Call me at 555-123-4567", "555-123-4567", "[PHONE:"},
		{"phone dots", "Call me at 555.123.4567", "555.123.4567", "[PHONE:"},
		{"iban", "Pay to FR76 3000 6000 0112 3456 7890 189", "3000 6000", "[IBAN:REDACTED]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Text(tt.input)
			assert.NotContains(t, out, tt.hidden)
			assert.Contains(t, out, tt.replaced)
		})
	}
}

func TestSanitizerHashIsStable(t *testing.T) {
	a := NewSanitizer(PIILevelHashed, "one")
	b := NewSanitizer(PIILevelHashed, "two")

	assert.Equal(t, a.Text("ada@example.com"), a.Text("ada@example.com"))
	assert.NotEqual(t, a.Text("ada@example.com"), b.Text("ada@example.com"))
}

func TestSanitizerPreview(t *testing.T) {
	s := NewSanitizer(PIILevelFull, "")

	assert.Equal(t, "hello there", s.Preview("  hello\n\tthere "))

	long := strings.Repeat("é", 200)
	out := s.Preview(long)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.Equal(t, 81, len([]rune(out)))
}
