package admin

import (
	"strings"
	"testing"

	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"
)

func TestCatCardTextEscapesUserContent(t *testing.T) {
	cat := &models.Category{Name: "2<3 flats", Description: "Cheap & cheerful", Active: true}

	text := catCardText(cat, nil)
	if !strings.Contains(text, "2&lt;3 flats") || !strings.Contains(text, "Cheap &amp; cheerful") {
		t.Fatalf("category fields not escaped:\n%s", text)
	}
	if strings.Contains(text, "2<3") {
		t.Fatalf("raw angle bracket leaked:\n%s", text)
	}
}

func TestUnitCardTextEscapesUserContent(t *testing.T) {
	l := &models.Listing{
		Name:         "Loft <B>",
		Description:  "View & terrace",
		PriceRUB:     5_000_000,
		BaseCurrency: string(currency.RUB),
		Available:    true,
	}

	text := unitCardText(l, 4.0)
	if !strings.Contains(text, "Loft &lt;B&gt;") || !strings.Contains(text, "View &amp; terrace") {
		t.Fatalf("listing fields not escaped:\n%s", text)
	}
}

func TestOpCardTextEscapesUserContent(t *testing.T) {
	op := &models.Operator{Name: "Ann & Bob", Handle: "annbob", Specialization: "<rentals>"}

	text := opCardText(op)
	if !strings.Contains(text, "Ann &amp; Bob") || !strings.Contains(text, "&lt;rentals&gt;") {
		t.Fatalf("operator fields not escaped:\n%s", text)
	}
}
