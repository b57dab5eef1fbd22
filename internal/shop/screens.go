package shop

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/avigsen/estatebot/core/telegram/format"
	"github.com/avigsen/estatebot/core/telegram/keyboard"
	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"

	tele "gopkg.in/telebot.v4"
)

// Callback keys for customer screens. Keys are matched by the callback router
// against the registry, payloads carry record ids.
const (
	CBMenu       = "menu"
	CBCategories = "categories"
	CBCategory   = "category"
	CBListing    = "listing"
	CBBuy        = "buy"
	CBQty        = "qty"
	CBCart       = "cart"
	CBCartClear  = "cart_clear"
	CBCheckout   = "checkout"
	CBPay        = "pay"
	CBConfirm    = "confirm_order"
	CBOperators  = "operators"
)

const maxCustomQuantity = 100

func mainMenuText(firstName string) string {
	if firstName == "" {
		return "<b>Welcome!</b>\nBrowse the catalog, collect units into a request list and submit it. An operator will follow up with you."
	}
	return fmt.Sprintf("<b>Welcome, %s!</b>\nBrowse the catalog, collect units into a request list and submit it. An operator will follow up with you.", format.HTML(firstName))
}

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🏠 Catalog", Unique: CBCategories},
		{Text: "🛒 My request list", Unique: CBCart},
		{Text: "📞 Contacts", Unique: CBOperators},
	})
}

func categoriesText(note string) string {
	var b strings.Builder
	if note != "" {
		b.WriteString(note)
		b.WriteString("\n\n")
	}
	b.WriteString("<b>Catalog</b>\nChoose a category:")
	return b.String()
}

func categoriesKeyboard(cats []models.Category) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(cats)+1)
	for _, cat := range cats {
		btns = append(btns, keyboard.InlineBtn{
			Text:   cat.Name,
			Unique: CBCategory,
			Data:   cat.ID.Hex(),
		})
	}
	btns = append(btns, keyboard.InlineBtn{Text: "⬅️ Menu", Unique: CBMenu})
	return keyboard.InlineButtons(btns)
}

func listingsText(cat *models.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", format.HTML(cat.Name))
	if cat.Description != "" {
		b.WriteString(format.HTML(cat.Description))
		b.WriteString("\n")
	}
	b.WriteString("\nAvailable units:")
	return b.String()
}

func listingsKeyboard(listings []models.Listing) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(listings)+1)
	for _, l := range listings {
		price, cur := basePrice(&l)
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   l.Name + " · " + currency.Format(price, cur),
			Unique: CBListing,
			Data:   l.ID.Hex(),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "⬅️ Categories", Unique: CBCategories},
		{Text: "🏠 Menu", Unique: CBMenu},
	})
	return keyboard.InlineButtonsRows(rows...)
}

func listingDetailText(l *models.Listing, rate float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", format.HTML(l.Name))
	if l.Description != "" {
		b.WriteString(format.HTML(l.Description))
		b.WriteString("\n")
	}
	if len(l.Specs) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(l.Specs))
		for k := range l.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "• %s: %s\n", format.HTML(k), format.HTML(l.Specs[k]))
		}
	}
	price, cur := basePrice(l)
	b.WriteString("\n💰 ")
	b.WriteString(currency.FormatPair(price, cur, rate))
	return b.String()
}

func listingKeyboard(l *models.Listing) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "➕ Add to request list", Unique: CBBuy, Data: l.ID.Hex()}},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Back", Unique: CBCategory, Data: l.CategoryID.Hex()},
			{Text: "🏠 Menu", Unique: CBMenu},
		},
	)
}

func quantityText(l *models.Listing) string {
	return fmt.Sprintf("<b>%s</b>\nHow many units?", format.HTML(l.Name))
}

func quantityKeyboard(l *models.Listing) *tele.ReplyMarkup {
	id := l.ID.Hex()
	nums := make([]keyboard.InlineBtn, 0, 5)
	for n := 1; n <= 5; n++ {
		nums = append(nums, keyboard.InlineBtn{
			Text:   strconv.Itoa(n),
			Unique: CBQty,
			Data:   id + "|" + strconv.Itoa(n),
		})
	}
	return keyboard.InlineButtonsRows(
		nums,
		[]keyboard.InlineBtn{{Text: "✍️ Other amount", Unique: CBQty, Data: id + "|custom"}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBListing, Data: id}},
	)
}

func customQuantityText(l *models.Listing) string {
	return fmt.Sprintf("<b>%s</b>\nSend the amount as a number from 1 to %d.", format.HTML(l.Name), maxCustomQuantity)
}

func addedText(l *models.Listing, qty int) string {
	return fmt.Sprintf("✅ Added <b>%s</b> × %d to your request list.", format.HTML(l.Name), qty)
}

func addedKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🏠 Continue browsing", Unique: CBCategories},
		{Text: "🛒 My request list", Unique: CBCart},
	})
}

func cartText(cart *Cart, rate float64) string {
	var b strings.Builder
	b.WriteString("<b>Your request list</b>\n\n")
	for _, line := range cart.Lines {
		fmt.Fprintf(&b, "• %s × %d = %s\n", format.HTML(line.Name), line.Quantity, currency.Format(line.LineTotal, line.Currency))
	}
	rub, czk := cart.Totals(rate)
	b.WriteString("\n<b>Total:</b> ")
	b.WriteString(currency.Format(rub, currency.RUB))
	b.WriteString(" / ")
	b.WriteString(currency.Format(czk, currency.CZK))
	return b.String()
}

func cartKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✅ Checkout", Unique: CBCheckout}},
		[]keyboard.InlineBtn{{Text: "🗑 Clear", Unique: CBCartClear}},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Catalog", Unique: CBCategories},
			{Text: "🏠 Menu", Unique: CBMenu},
		},
	)
}

func emptyCartText() string {
	return "Your request list is empty. Pick something from the catalog first."
}

func emptyCartKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🏠 Catalog", Unique: CBCategories},
		{Text: "⬅️ Menu", Unique: CBMenu},
	})
}

func paymentText() string {
	return "<b>Payment method</b>\nHow would you like to pay?"
}

func paymentKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "💳 Card", Unique: CBPay, Data: models.PaymentCard},
			{Text: "💵 Cash", Unique: CBPay, Data: models.PaymentCash},
		},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBCart}},
	)
}

func paymentLabel(method string) string {
	switch method {
	case models.PaymentCash:
		return "cash"
	default:
		return "card"
	}
}

func confirmText(cart *Cart, method string, rate float64) string {
	var b strings.Builder
	b.WriteString(cartText(cart, rate))
	fmt.Fprintf(&b, "\n\n<b>Payment:</b> %s\n\nSubmit the request?", paymentLabel(method))
	return b.String()
}

func confirmKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✅ Submit", Unique: CBConfirm}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBCheckout}},
	)
}

func submittedText(method string) string {
	if method == models.PaymentCash {
		return "🎉 <b>Request confirmed!</b>\nAn operator will contact you to arrange the details."
	}
	return "🎉 <b>Request submitted!</b>\nAn operator will contact you with payment details."
}

func submittedKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🏠 Menu", Unique: CBMenu},
	})
}

func operatorsText(ops []models.Operator) string {
	if len(ops) == 0 {
		return "No operators are available right now. Please try again later."
	}
	var b strings.Builder
	b.WriteString("<b>Our operators</b>\n\n")
	for _, op := range ops {
		fmt.Fprintf(&b, "• %s", format.HTML(op.Name))
		if op.Specialization != "" {
			fmt.Fprintf(&b, ", %s", format.HTML(op.Specialization))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func operatorsKeyboard(ops []models.Operator) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(ops)+1)
	for _, op := range ops {
		rows = append(rows, []keyboard.InlineBtn{{
			Text: "💬 " + op.Name,
			URL:  "https://t.me/" + strings.TrimPrefix(op.Handle, "@"),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ Menu", Unique: CBMenu}})
	return keyboard.InlineButtonsRows(rows...)
}
