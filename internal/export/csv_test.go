package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrdersCSV(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			ID:            primitive.NewObjectID(),
			TelegramID:    100,
			PaymentMethod: models.PaymentCard,
			Status:        models.OrderStatusPending,
			TotalRUB:      12_000_000,
			TotalCZK:      3_000_000,
			CreatedAt:     created,
			Lines: []models.OrderLine{
				{Name: "Flat A", Quantity: 2, UnitPrice: 4_000_000, Currency: "RUB", LineTotal: 8_000_000},
				{Name: "Cottage", Quantity: 1, UnitPrice: 1_000_000, Currency: "CZK", LineTotal: 1_000_000},
			},
		},
	}

	var buf bytes.Buffer
	if err := OrdersCSV(&buf, orders); err != nil {
		t.Fatalf("OrdersCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	// header + one row per line
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[0][0] != "order_id" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[1] != "2026-08-01T12:00:00Z" {
		t.Errorf("created_at = %q", row[1])
	}
	if row[2] != "100" || row[3] != models.OrderStatusPending || row[4] != models.PaymentCard {
		t.Errorf("order columns wrong: %v", row)
	}
	if row[5] != "Flat A" || row[6] != "2" || row[9] != "8000000" {
		t.Errorf("line columns wrong: %v", row)
	}
	if records[2][5] != "Cottage" || records[2][8] != "CZK" {
		t.Errorf("second line wrong: %v", records[2])
	}
}

func TestOrdersCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := OrdersCSV(&buf, nil); err != nil {
		t.Fatalf("OrdersCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}
