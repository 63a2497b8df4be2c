package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PIILevel controls how much of user-written text reaches the logs.
type PIILevel string

const (
	// PIILevelNone redacts all user content.
	PIILevelNone PIILevel = "none"
	// PIILevelHashed keeps the text but replaces contact details with salted hashes.
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull logs text unchanged.
	PIILevelFull PIILevel = "full"
)

const previewRunes = 80

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d{1,3}?[-.\s]?\(?\d{2,3}\)?[-.\s]?\d{3}[-.\s]?\d{3,4}\b`)
	ibanPattern  = regexp.MustCompile(`\b[A-Z]{2}\d{2}(?:\s?[A-Z0-9]{4}){3,7}(?:\s?[A-Z0-9]{1,4})?\b`)
)

// Sanitizer strips contact details from chat text before it is logged.
type Sanitizer struct {
	level PIILevel
	salt  string
}

// NewSanitizer returns a sanitizer for level. Unknown levels behave as hashed.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	switch level {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
	default:
		level = PIILevelHashed
	}
	return &Sanitizer{level: level, salt: salt}
}

// Text sanitizes input according to the configured level.
func (s *Sanitizer) Text(input string) string {
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return input
	}

	// Phones before emails so hashed placeholders are never rescanned as digits.
	result := ibanPattern.ReplaceAllString(input, "[IBAN:REDACTED]")
	result = phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return "[PHONE:" + s.hash(strings.TrimSpace(match)) + "]"
	})
	return emailPattern.ReplaceAllStringFunc(result, func(match string) string {
		return "[EMAIL:" + s.hash(match) + "]"
	})
}

// Preview sanitizes input and truncates it for single-line log fields.
func (s *Sanitizer) Preview(input string) string {
	out := s.Text(strings.Join(strings.Fields(input), " "))
	if utf8.RuneCountInString(out) <= previewRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:previewRunes]) + "…"
}

func (s *Sanitizer) hash(data string) string {
	sum := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}
