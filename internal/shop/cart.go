package shop

import (
	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one listing's selected quantity with a price snapshot taken at
// add time. The snapshot decouples the line from later listing price edits.
type CartLine struct {
	ListingID primitive.ObjectID
	Name      string
	UnitPrice int64
	Currency  currency.Currency
	Quantity  int
	LineTotal int64
}

// Cart holds lines in insertion order, which is also display order.
type Cart struct {
	Lines []CartLine
}

// Add merges the listing into the cart: re-adding an already present listing
// increments its quantity and recomputes the line total instead of creating a
// duplicate line.
func (c *Cart) Add(l *models.Listing, qty int) {
	if l == nil || qty <= 0 {
		return
	}

	price, cur := basePrice(l)
	for i := range c.Lines {
		if c.Lines[i].ListingID == l.ID {
			c.Lines[i].Quantity += qty
			c.Lines[i].LineTotal = c.Lines[i].UnitPrice * int64(c.Lines[i].Quantity)
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ListingID: l.ID,
		Name:      l.Name,
		UnitPrice: price,
		Currency:  cur,
		Quantity:  qty,
		LineTotal: price * int64(qty),
	})
}

// Totals recomputes the cart total from scratch in both currencies.
// The total is never maintained incrementally, so it cannot drift.
func (c *Cart) Totals(rubPerCzk float64) (rub, czk int64) {
	for _, line := range c.Lines {
		r, k := currency.Pair(line.LineTotal, line.Currency, rubPerCzk)
		rub += r
		czk += k
	}
	return rub, czk
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// basePrice returns the authoritative price and currency of a listing.
func basePrice(l *models.Listing) (int64, currency.Currency) {
	if currency.Currency(l.BaseCurrency) == currency.CZK {
		return l.PriceCZK, currency.CZK
	}
	return l.PriceRUB, currency.RUB
}
