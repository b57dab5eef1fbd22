package shop

import (
	"strings"
	"testing"

	"github.com/avigsen/estatebot/internal/models"
)

func TestListingDetailTextEscapesUserContent(t *testing.T) {
	l := rubListing("2<3 flats", 5_000_000)
	l.Description = "Cozy & bright"
	l.Specs = map[string]string{"area <m2>": "55 & change"}

	text := listingDetailText(l, 4.0)

	for _, want := range []string{"2&lt;3 flats", "Cozy &amp; bright", "area &lt;m2&gt;", "55 &amp; change"} {
		if !strings.Contains(text, want) {
			t.Fatalf("detail text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "2<3") || strings.Contains(text, "<m2>") {
		t.Fatalf("raw angle brackets leaked into HTML text:\n%s", text)
	}
}

func TestMainMenuTextEscapesFirstName(t *testing.T) {
	text := mainMenuText("Tom & <Co>")
	if !strings.Contains(text, "Tom &amp; &lt;Co&gt;") {
		t.Fatalf("first name not escaped: %s", text)
	}
}

func TestCartTextEscapesLineNames(t *testing.T) {
	var cart Cart
	cart.Add(rubListing("Flat <A>", 4_000_000), 1)

	text := cartText(&cart, 4.0)
	if !strings.Contains(text, "Flat &lt;A&gt;") {
		t.Fatalf("line name not escaped: %s", text)
	}
}

func TestListingsTextEscapesCategory(t *testing.T) {
	cat := &models.Category{Name: "Lofts & studios", Description: "up to <60m2>"}

	text := listingsText(cat)
	if !strings.Contains(text, "Lofts &amp; studios") || !strings.Contains(text, "up to &lt;60m2&gt;") {
		t.Fatalf("category fields not escaped: %s", text)
	}
}

func TestOperatorsTextEscapesNameAndSpecialization(t *testing.T) {
	ops := []models.Operator{{Name: "Ann & Bob", Specialization: "<new builds>"}}

	text := operatorsText(ops)
	if !strings.Contains(text, "Ann &amp; Bob") || !strings.Contains(text, "&lt;new builds&gt;") {
		t.Fatalf("operator fields not escaped: %s", text)
	}
}
