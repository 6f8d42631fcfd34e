// Package core provides message processing functionality.
package core

import "unicode/utf8"

const (
	// MaxMessageLength is the maximum character length for a Telegram message.
	MaxMessageLength = 4096
	// MaxCaptionLength is the maximum character length for a media caption.
	MaxCaptionLength = 1024
)

// SplitMessage splits a long message into parts of at most MaxMessageLength
// runes. Attempts to split at newlines for cleaner breaks.
func SplitMessage(text string) []string {
	// If text is within limit, return as single part
	textRunes := []rune(text)
	if len(textRunes) <= MaxMessageLength {
		return []string{text}
	}

	var parts []string
	start := 0

	for start < len(textRunes) {
		end := min(start+MaxMessageLength, len(textRunes))

		// Try to split at a newline for cleaner breaks
		if end < len(textRunes) {
			for i := end - 1; i > start+MaxMessageLength/2; i-- {
				if textRunes[i] == '\n' {
					end = i + 1
					break
				}
			}
		}

		parts = append(parts, string(textRunes[start:end]))
		start = end
	}

	return parts
}

// CaptionFits reports whether caption can be sent as a photo caption.
func CaptionFits(caption string) bool {
	return utf8.RuneCountInString(caption) <= MaxCaptionLength
}
