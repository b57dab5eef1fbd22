// Package currency implements dual-currency price parsing, conversion and
// formatting. RUB is the default currency for bare numeric input; CZK is
// recognized through a small set of language-variant markers. The conversion
// rate is fixed (configured), not a live feed: the derived value is
// display-only and always recomputed from the authoritative one.
package currency

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Currency identifies one of the two supported price currencies.
type Currency string

const (
	RUB Currency = "RUB"
	CZK Currency = "CZK"
)

// Price bounds, shared ceiling and per-currency floors.
const (
	MinRUB int64 = 1_000_000
	MinCZK int64 = 100_000
	Max    int64 = 1_000_000_000
)

var (
	// ErrUnparsable is returned for input that is not a number with an
	// optional currency marker.
	ErrUnparsable = errors.New("currency: unparsable amount")
	// ErrNotPositive is returned for zero or negative amounts.
	ErrNotPositive = errors.New("currency: amount must be positive")
	// ErrBelowFloor is returned when the amount is below the currency minimum.
	ErrBelowFloor = errors.New("currency: amount below minimum")
	// ErrAboveCeiling is returned when the amount exceeds the shared maximum.
	ErrAboveCeiling = errors.New("currency: amount above maximum")
)

// markers maps lowercase currency tokens to canonical currencies.
var markers = map[string]Currency{
	"rub": RUB,
	"руб": RUB,
	"р":   RUB,
	"₽":   RUB,

	"czk":   CZK,
	"kč":    CZK,
	"kc":    CZK,
	"kčs":   CZK,
	"крон":  CZK,
	"крона": CZK,
	"кроны": CZK,
	"крн":   CZK,
}

// ParseAmount parses admin price input: a bare number (defaults to RUB) or a
// number followed by a currency marker. The returned value is validated
// against the per-currency floor and the shared ceiling.
func ParseAmount(input string) (int64, Currency, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 || len(fields) > 2 {
		return 0, "", ErrUnparsable
	}

	cur := RUB
	if len(fields) == 2 {
		marker := strings.ToLower(strings.TrimRight(fields[1], "."))
		c, ok := markers[marker]
		if !ok {
			return 0, "", ErrUnparsable
		}
		cur = c
	}

	value, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", ErrUnparsable
	}
	if value <= 0 {
		return 0, "", ErrNotPositive
	}
	if value > Max {
		return 0, "", ErrAboveCeiling
	}
	if value < Floor(cur) {
		return 0, "", ErrBelowFloor
	}
	return value, cur, nil
}

// Floor returns the minimum accepted price for the given currency.
func Floor(cur Currency) int64 {
	if cur == CZK {
		return MinCZK
	}
	return MinRUB
}

// Pair derives both currency values from the authoritative one using the
// fixed rate (RUB per 1 CZK). The non-authoritative value is rounded to the
// nearest whole unit.
func Pair(value int64, cur Currency, rubPerCzk float64) (rub, czk int64) {
	if rubPerCzk <= 0 {
		rubPerCzk = 4.0
	}
	switch cur {
	case CZK:
		return int64(math.Round(float64(value) * rubPerCzk)), value
	default:
		return value, int64(math.Round(float64(value) / rubPerCzk))
	}
}

// Format renders a value with thin thousands separators and a currency suffix.
func Format(value int64, cur Currency) string {
	neg := value < 0
	if neg {
		value = -value
	}
	digits := strconv.FormatInt(value, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(' ')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(' ')
		}
	}

	switch cur {
	case CZK:
		b.WriteString(" Kč")
	default:
		b.WriteString(" ₽")
	}
	return b.String()
}

// FormatPair renders the authoritative value followed by the derived one,
// e.g. "2 000 000 Kč (~8 000 000 ₽)".
func FormatPair(value int64, cur Currency, rubPerCzk float64) string {
	rub, czk := Pair(value, cur, rubPerCzk)
	if cur == CZK {
		return Format(czk, CZK) + " (~" + Format(rub, RUB) + ")"
	}
	return Format(rub, RUB) + " (~" + Format(czk, CZK) + ")"
}
