package shop

import (
	"testing"

	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func rubListing(name string, price int64) *models.Listing {
	return &models.Listing{
		ID:           primitive.NewObjectID(),
		Name:         name,
		PriceRUB:     price,
		BaseCurrency: string(currency.RUB),
		Available:    true,
	}
}

func czkListing(name string, price int64) *models.Listing {
	return &models.Listing{
		ID:           primitive.NewObjectID(),
		Name:         name,
		PriceCZK:     price,
		BaseCurrency: string(currency.CZK),
		Available:    true,
	}
}

func TestCartAddMergesByListing(t *testing.T) {
	var cart Cart
	l := rubListing("Riverside flat", 5_000_000)

	cart.Add(l, 1)
	cart.Add(l, 2)

	if len(cart.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", line.Quantity)
	}
	if line.LineTotal != 15_000_000 {
		t.Fatalf("line total = %d, want 15000000", line.LineTotal)
	}
}

func TestCartAddKeepsSeparateListings(t *testing.T) {
	var cart Cart
	cart.Add(rubListing("Flat A", 5_000_000), 1)
	cart.Add(rubListing("Flat B", 6_000_000), 1)

	if len(cart.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(cart.Lines))
	}
}

func TestCartAddIgnoresBadInput(t *testing.T) {
	var cart Cart
	cart.Add(nil, 1)
	cart.Add(rubListing("Flat", 5_000_000), 0)
	cart.Add(rubListing("Flat", 5_000_000), -2)

	if !cart.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestCartSnapshotsPriceAtAddTime(t *testing.T) {
	var cart Cart
	l := rubListing("Flat", 5_000_000)
	cart.Add(l, 1)

	l.PriceRUB = 9_000_000
	if cart.Lines[0].UnitPrice != 5_000_000 {
		t.Fatalf("snapshot mutated: %d", cart.Lines[0].UnitPrice)
	}
}

func TestCartTotalsMixedCurrencies(t *testing.T) {
	var cart Cart
	cart.Add(rubListing("Flat", 4_000_000), 1)
	cart.Add(czkListing("Cottage", 2_000_000), 1)

	rub, czk := cart.Totals(4.0)
	if rub != 4_000_000+8_000_000 {
		t.Fatalf("rub total = %d, want 12000000", rub)
	}
	if czk != 1_000_000+2_000_000 {
		t.Fatalf("czk total = %d, want 3000000", czk)
	}
}

func TestCartTotalsRecomputedFromScratch(t *testing.T) {
	var cart Cart
	l := rubListing("Flat", 5_000_000)
	cart.Add(l, 2)

	first, _ := cart.Totals(4.0)
	second, _ := cart.Totals(4.0)
	if first != second || first != 10_000_000 {
		t.Fatalf("totals drifted: %d vs %d", first, second)
	}
}

func TestCartClear(t *testing.T) {
	var cart Cart
	cart.Add(rubListing("Flat", 5_000_000), 1)
	cart.Clear()
	if !cart.Empty() {
		t.Fatal("cart not empty after clear")
	}
	rub, czk := cart.Totals(4.0)
	if rub != 0 || czk != 0 {
		t.Fatalf("totals after clear = %d/%d", rub, czk)
	}
}

func TestSessionStoreLazyCreate(t *testing.T) {
	store := NewSessionStore()

	sess := store.Get(42)
	if sess == nil {
		t.Fatal("nil session")
	}
	if sess.State != StateStart {
		t.Fatalf("default state = %s, want %s", sess.State, StateStart)
	}
	if sess.LastKind != KindText {
		t.Fatalf("default last kind = %s", sess.LastKind)
	}
	if store.Get(42) != sess {
		t.Fatal("second Get returned a different session")
	}
	if store.Len() != 1 {
		t.Fatalf("store len = %d", store.Len())
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	first := store.Get(7)
	first.State = StateReviewingCart

	store.Delete(7)
	if store.Get(7).State != StateStart {
		t.Fatal("delete did not reset the session")
	}
}
