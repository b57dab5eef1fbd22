package currency

import (
	"errors"
	"testing"
)

func TestParseAmountBareNumberIsRUB(t *testing.T) {
	value, cur, err := ParseAmount("5000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur != RUB {
		t.Fatalf("expected RUB, got %s", cur)
	}
	if value != 5_000_000 {
		t.Fatalf("expected 5000000, got %d", value)
	}
}

func TestParseAmountMarkers(t *testing.T) {
	cases := []struct {
		input string
		value int64
		cur   Currency
	}{
		{"2000000 CZK", 2_000_000, CZK},
		{"2000000 czk", 2_000_000, CZK},
		{"150000 Kč", 150_000, CZK},
		{"150000 kc", 150_000, CZK},
		{"300000 крон", 300_000, CZK},
		{"300000 кроны", 300_000, CZK},
		{"8000000 руб", 8_000_000, RUB},
		{"8000000 RUB", 8_000_000, RUB},
		{"8000000 ₽", 8_000_000, RUB},
		{"8000000 р.", 8_000_000, RUB},
		{"  5000000  ", 5_000_000, RUB},
	}
	for _, tc := range cases {
		value, cur, err := ParseAmount(tc.input)
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.input, err)
			continue
		}
		if value != tc.value || cur != tc.cur {
			t.Errorf("ParseAmount(%q) = %d %s, want %d %s", tc.input, value, cur, tc.value, tc.cur)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	cases := []struct {
		input string
		want  error
	}{
		{"", ErrUnparsable},
		{"abc", ErrUnparsable},
		{"100 dollars", ErrUnparsable},
		{"1 2 3", ErrUnparsable},
		{"-5000000", ErrNotPositive},
		{"0", ErrNotPositive},
		{"10000 CZK", ErrBelowFloor},
		{"999999", ErrBelowFloor},
		{"1000000001", ErrAboveCeiling},
		{"1000000001 CZK", ErrAboveCeiling},
	}
	for _, tc := range cases {
		_, _, err := ParseAmount(tc.input)
		if !errors.Is(err, tc.want) {
			t.Errorf("ParseAmount(%q) error = %v, want %v", tc.input, err, tc.want)
		}
	}
}

func TestParseAmountFloorBoundaries(t *testing.T) {
	if _, _, err := ParseAmount("1000000"); err != nil {
		t.Errorf("MinRUB should be accepted: %v", err)
	}
	if _, _, err := ParseAmount("100000 CZK"); err != nil {
		t.Errorf("MinCZK should be accepted: %v", err)
	}
	if _, _, err := ParseAmount("1000000000"); err != nil {
		t.Errorf("Max should be accepted: %v", err)
	}
}

func TestPairDerivesDisplayValue(t *testing.T) {
	rub, czk := Pair(2_000_000, CZK, 4.0)
	if czk != 2_000_000 {
		t.Fatalf("authoritative CZK changed: %d", czk)
	}
	if rub != 8_000_000 {
		t.Fatalf("derived RUB = %d, want 8000000", rub)
	}

	rub, czk = Pair(5_000_000, RUB, 4.0)
	if rub != 5_000_000 {
		t.Fatalf("authoritative RUB changed: %d", rub)
	}
	if czk != 1_250_000 {
		t.Fatalf("derived CZK = %d, want 1250000", czk)
	}
}

func TestPairRounding(t *testing.T) {
	_, czk := Pair(1_000_001, RUB, 4.0)
	if czk != 250_000 {
		t.Fatalf("derived CZK = %d, want 250000", czk)
	}
}

func TestPairFallbackRate(t *testing.T) {
	rub, _ := Pair(1_000_000, CZK, 0)
	if rub != 4_000_000 {
		t.Fatalf("zero rate must fall back to 4.0, got rub=%d", rub)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		value int64
		cur   Currency
		want  string
	}{
		{1_000_000, RUB, "1 000 000 ₽"},
		{100_000, CZK, "100 000 Kč"},
		{999, RUB, "999 ₽"},
		{1_234_567_890, CZK, "1 234 567 890 Kč"},
	}
	for _, tc := range cases {
		if got := Format(tc.value, tc.cur); got != tc.want {
			t.Errorf("Format(%d, %s) = %q, want %q", tc.value, tc.cur, got, tc.want)
		}
	}
}

func TestFormatPair(t *testing.T) {
	got := FormatPair(2_000_000, CZK, 4.0)
	want := "2 000 000 Kč (~8 000 000 ₽)"
	if got != want {
		t.Fatalf("FormatPair = %q, want %q", got, want)
	}

	got = FormatPair(8_000_000, RUB, 4.0)
	want = "8 000 000 ₽ (~2 000 000 Kč)"
	if got != want {
		t.Fatalf("FormatPair = %q, want %q", got, want)
	}
}
