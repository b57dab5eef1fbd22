// Package export renders order history into CSV for offline bookkeeping.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/avigsen/estatebot/internal/models"
)

// OrdersCSV writes one row per order line, so a spreadsheet can be pivoted by
// order id without unpacking embedded documents.
func OrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)

	header := []string{
		"order_id", "created_at", "telegram_id", "status", "payment_method",
		"listing", "quantity", "unit_price", "currency", "line_total",
		"order_total_rub", "order_total_czk",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range orders {
		base := []string{
			o.ID.Hex(),
			o.CreatedAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(o.TelegramID, 10),
			o.Status,
			o.PaymentMethod,
		}
		for _, line := range o.Lines {
			row := append(append([]string{}, base...),
				line.Name,
				strconv.Itoa(line.Quantity),
				strconv.FormatInt(line.UnitPrice, 10),
				line.Currency,
				strconv.FormatInt(line.LineTotal, 10),
				strconv.FormatInt(o.TotalRUB, 10),
				strconv.FormatInt(o.TotalCZK, 10),
			)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
