package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups listings for catalog browsing.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Active      bool               `bson:"active"`
	SortOrder   int                `bson:"sort_order"`
}

// Photo is one image attached to a listing. Exactly one photo per listing
// carries Main=true once any photo exists.
type Photo struct {
	FileID  string `bson:"file_id"`
	Caption string `bson:"caption,omitempty"`
	Main    bool   `bson:"main"`
}

// Listing is a catalog item: a property/unit offered for sale.
//
// PriceRUB and PriceCZK are stored in minor-free integer units. BaseCurrency
// marks which of the two was entered by an admin; the other one is derived
// from the fixed conversion rate and is display-only.
type Listing struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CategoryID   primitive.ObjectID `bson:"category_id"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	PriceRUB     int64              `bson:"price_rub"`
	PriceCZK     int64              `bson:"price_czk"`
	BaseCurrency string             `bson:"base_currency"`
	Specs        map[string]string  `bson:"specs,omitempty"`
	Available    bool               `bson:"available"`
	Photos       []Photo            `bson:"photos,omitempty"`
}

// MainPhoto returns the photo flagged as main, or the first one as a fallback.
func (l *Listing) MainPhoto() (Photo, bool) {
	if len(l.Photos) == 0 {
		return Photo{}, false
	}
	for _, p := range l.Photos {
		if p.Main {
			return p, true
		}
	}
	return l.Photos[0], true
}

// Operator is a human contact surfaced to customers and notified about orders.
type Operator struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Handle         string             `bson:"handle"`
	TelegramID     int64              `bson:"telegram_id,omitempty"`
	Active         bool               `bson:"active"`
	Specialization string             `bson:"specialization,omitempty"`
}

// Order payment methods.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
)

// OrderLine is a snapshot of one cart line. Prices are copied by value at
// submission time; later listing edits never change historical orders.
type OrderLine struct {
	ListingID primitive.ObjectID `bson:"listing_id"`
	Name      string             `bson:"name"`
	UnitPrice int64              `bson:"unit_price"`
	Currency  string             `bson:"currency"`
	Quantity  int                `bson:"quantity"`
	LineTotal int64              `bson:"line_total"`
}

// Order is a submitted cart with embedded line snapshots.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	TelegramID    int64              `bson:"telegram_id"`
	Lines         []OrderLine        `bson:"lines"`
	TotalRUB      int64              `bson:"total_rub"`
	TotalCZK      int64              `bson:"total_czk"`
	PaymentMethod string             `bson:"payment_method"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
}

// User is a customer profile with running order aggregates.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID    int64              `bson:"telegram_id"`
	FirstName     string             `bson:"first_name,omitempty"`
	Username      string             `bson:"username,omitempty"`
	OrdersCount   int                `bson:"orders_count"`
	TotalSpentRUB int64              `bson:"total_spent_rub"`
	TotalSpentCZK int64              `bson:"total_spent_czk"`
	CreatedAt     time.Time          `bson:"created_at"`
}
