package dto

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// fieldErrors collects per-field validation messages keyed by JSON name.
type fieldErrors map[string]any

func (f fieldErrors) minLen(field, value string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		f[field] = fmt.Sprintf("must be at least %d characters", n)
	}
}

// optionalMinLen checks value only when the client sent something.
func (f fieldErrors) optionalMinLen(field, value string, n int) {
	if value != "" {
		f.minLen(field, value, n)
	}
}

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f fieldErrors) email(field, value string) {
	if !validEmail(value) {
		f[field] = "must be a valid email address"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", f)
}

// validEmail accepts a bare addr-spec such as "a@b.co" and nothing else.
func validEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(value, "@")
	return at > 0 && strings.Contains(value[at+1:], ".")
}

func nonEmpty(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
