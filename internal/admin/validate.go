package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avigsen/estatebot/internal/currency"
)

const (
	minNameLen = 2
	maxNameLen = 100
	maxDescLen = 500
	minHandle  = 3
)

// skipMarker lets admins leave an optional field empty.
const skipMarker = "-"

// validateName trims and checks a category/listing/operator name.
func validateName(input string) (string, string) {
	name := strings.TrimSpace(input)
	n := len([]rune(name))
	if n < minNameLen || n > maxNameLen {
		return "", fmt.Sprintf("The name must be %d to %d characters long. Try again:", minNameLen, maxNameLen)
	}
	return name, ""
}

// validateDescription trims and checks an optional description. The skip
// marker yields an empty description.
func validateDescription(input string) (string, string) {
	desc := strings.TrimSpace(input)
	if desc == skipMarker {
		return "", ""
	}
	if len([]rune(desc)) > maxDescLen {
		return "", fmt.Sprintf("The description is limited to %d characters. Try again or send %q to skip:", maxDescLen, skipMarker)
	}
	return desc, ""
}

// parsePrice wraps currency parsing with admin-facing error messages that
// include input examples.
func parsePrice(input string) (int64, currency.Currency, string) {
	value, cur, err := currency.ParseAmount(input)
	if err == nil {
		return value, cur, ""
	}

	switch {
	case errors.Is(err, currency.ErrBelowFloor):
		return 0, "", fmt.Sprintf(
			"The price is below the minimum (%s or %s). Try again:",
			currency.Format(currency.MinRUB, currency.RUB),
			currency.Format(currency.MinCZK, currency.CZK),
		)
	case errors.Is(err, currency.ErrAboveCeiling):
		return 0, "", fmt.Sprintf(
			"The price exceeds the maximum of %s. Try again:",
			currency.Format(currency.Max, currency.RUB),
		)
	case errors.Is(err, currency.ErrNotPositive):
		return 0, "", "The price must be a positive number. Try again:"
	default:
		return 0, "", "Send the price as a number, optionally with a currency: \"5000000\", \"2000000 CZK\" or \"8000000 руб\". Try again:"
	}
}

// validateHandle normalizes and checks a Telegram handle: a leading @ is
// stripped, the rest must be ASCII letters, digits or underscores.
func validateHandle(input string) (string, string) {
	handle := strings.TrimPrefix(strings.TrimSpace(input), "@")
	if len(handle) < minHandle {
		return "", fmt.Sprintf("The handle must be at least %d characters long (without @). Try again:", minHandle)
	}
	for _, r := range handle {
		isOK := r == '_' ||
			(r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z')
		if !isOK {
			return "", "The handle may only contain latin letters, digits and underscores. Try again:"
		}
	}
	return handle, ""
}
