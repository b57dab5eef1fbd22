package admin

import (
	"strings"
	"testing"

	"github.com/avigsen/estatebot/internal/currency"
)

func TestValidateName(t *testing.T) {
	if _, msg := validateName("  Riverside flats  "); msg != "" {
		t.Fatalf("valid name rejected: %s", msg)
	}
	name, _ := validateName("  Riverside flats  ")
	if name != "Riverside flats" {
		t.Fatalf("name not trimmed: %q", name)
	}

	if _, msg := validateName("a"); msg == "" {
		t.Fatal("one-char name accepted")
	}
	if _, msg := validateName(strings.Repeat("x", 101)); msg == "" {
		t.Fatal("overlong name accepted")
	}
	if _, msg := validateName("   "); msg == "" {
		t.Fatal("blank name accepted")
	}
	// Length is counted in runes, not bytes.
	if _, msg := validateName("ЖК"); msg != "" {
		t.Fatalf("two-rune cyrillic name rejected: %s", msg)
	}
}

func TestValidateDescription(t *testing.T) {
	if desc, msg := validateDescription("-"); msg != "" || desc != "" {
		t.Fatalf("skip marker not honored: %q / %s", desc, msg)
	}
	if _, msg := validateDescription(strings.Repeat("x", 501)); msg == "" {
		t.Fatal("overlong description accepted")
	}
	desc, msg := validateDescription("  near the river  ")
	if msg != "" || desc != "near the river" {
		t.Fatalf("got %q / %s", desc, msg)
	}
}

func TestParsePriceHappyPath(t *testing.T) {
	value, cur, msg := parsePrice("2000000 CZK")
	if msg != "" {
		t.Fatalf("valid price rejected: %s", msg)
	}
	if value != 2_000_000 || cur != currency.CZK {
		t.Fatalf("got %d %s", value, cur)
	}
}

func TestParsePriceMessages(t *testing.T) {
	cases := []struct {
		input string
		hint  string
	}{
		{"10000 CZK", "below the minimum"},
		{"9999999999", "exceeds the maximum"},
		{"-1", "positive"},
		{"cheap", "Send the price"},
	}
	for _, tc := range cases {
		_, _, msg := parsePrice(tc.input)
		if msg == "" {
			t.Errorf("parsePrice(%q): expected a re-prompt", tc.input)
			continue
		}
		if !strings.Contains(msg, tc.hint) {
			t.Errorf("parsePrice(%q) message %q missing %q", tc.input, msg, tc.hint)
		}
	}
}

func TestValidateHandle(t *testing.T) {
	handle, msg := validateHandle("@john_doe")
	if msg != "" || handle != "john_doe" {
		t.Fatalf("got %q / %s", handle, msg)
	}
	if _, msg := validateHandle("ab"); msg == "" {
		t.Fatal("short handle accepted")
	}
	if _, msg := validateHandle("john doe"); msg == "" {
		t.Fatal("handle with space accepted")
	}
	if _, msg := validateHandle("иван"); msg == "" {
		t.Fatal("non-latin handle accepted")
	}
	if _, msg := validateHandle("John_Doe99"); msg != "" {
		t.Fatalf("valid mixed-case handle rejected: %s", msg)
	}
}
