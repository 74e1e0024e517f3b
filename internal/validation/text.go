package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Body limits, counted in runes.
const (
	PostMaxLength    = 280
	CommentMaxLength = 500
	MessageMaxLength = 1000
)

// Text trims s and checks it is non-blank and at most max runes. label names
// the field in the error message.
func Text(label, s string, max int) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", fmt.Errorf("%s must be %d characters or less", label, max)
	}
	return trimmed, nil
}

func PostText(s string) (string, error) {
	return Text("Post text", s, PostMaxLength)
}

func CommentText(s string) (string, error) {
	return Text("Comment", s, CommentMaxLength)
}

func MessageContent(s string) (string, error) {
	return Text("Message", s, MessageMaxLength)
}

// Truncate returns at most max runes of s.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
