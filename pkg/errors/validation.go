package errors

import (
	"strings"
	"unicode"
)

// MaxSourceBytes is the largest diagram source accepted by the engines.
// Large pastes are almost always accidental (binary files, minified JS)
// and would produce unusable diagrams anyway.
const MaxSourceBytes = 1 << 20

// ValidateSource validates diagram source text before it reaches a grammar
// engine. It rejects empty input, oversized input, and text containing
// control characters other than whitespace.
func ValidateSource(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "diagram source cannot be empty")
	}

	if len(text) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (max %d bytes)", MaxSourceBytes)
	}

	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return New(ErrCodeInvalidInput, "diagram source contains control characters")
		}
	}

	return nil
}

// ValidateDiagramID validates a saved-diagram identifier for safety.
// IDs are used in URLs and as storage keys, so path separators and
// control characters are rejected.
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "diagram id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "diagram id too long (max 128 characters)")
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "diagram id contains invalid characters")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "diagram id contains control characters")
		}
	}

	return nil
}
