package notify

import (
	"strings"
	"testing"

	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderTextEscapesUserContent(t *testing.T) {
	order := models.Order{
		ID: primitive.NewObjectID(),
		Lines: []models.OrderLine{{
			Name:      "Flat <A> & garden",
			UnitPrice: 4_000_000,
			Currency:  "RUB",
			Quantity:  1,
			LineTotal: 4_000_000,
		}},
		TotalRUB:      4_000_000,
		TotalCZK:      1_000_000,
		PaymentMethod: models.PaymentCard,
		Status:        models.OrderStatusPending,
	}
	user := &models.User{TelegramID: 7, FirstName: "Tom & Co", Username: "tom<script>"}

	text := orderText(order, user, 4.0)

	for _, want := range []string{"Flat &lt;A&gt; &amp; garden", "Tom &amp; Co", "tom&lt;script&gt;"} {
		if !strings.Contains(text, want) {
			t.Fatalf("notification missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<script>") {
		t.Fatalf("raw markup leaked into notification:\n%s", text)
	}
}

func TestOrderTextDefaultsCustomerName(t *testing.T) {
	user := &models.User{TelegramID: 7}
	text := orderText(models.Order{}, user, 4.0)
	if !strings.Contains(text, "customer") {
		t.Fatalf("anonymous customer label missing:\n%s", text)
	}
}
