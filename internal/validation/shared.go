package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/portfolio-valuation/internal/apperrors"
)

// Error collects field-level validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}

// isCurrencyCode reports whether code is three ASCII letters, in any case.
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range strings.ToUpper(code) {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ValidateCurrency checks that code is a three letter currency code.
func ValidateCurrency(code string) error {
	if !isCurrencyCode(code) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
	}
	return nil
}
