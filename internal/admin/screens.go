package admin

import (
	"fmt"
	"strings"

	"github.com/avigsen/estatebot/core/telegram/format"
	"github.com/avigsen/estatebot/core/telegram/keyboard"
	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"

	tele "gopkg.in/telebot.v4"
)

// Prefix marks management callbacks. The callback router silently drops any
// key with this prefix when the sender is not an admin.
const Prefix = "adm_"

// Callback keys for management screens.
const (
	CBMenu     = Prefix + "menu"
	CBCancel   = Prefix + "cancel"
	CBCats     = Prefix + "cats"
	CBCatAdd   = Prefix + "cat_add"
	CBCat      = Prefix + "cat"
	CBCatName  = Prefix + "cat_rename"
	CBCatFlip  = Prefix + "cat_toggle"
	CBUnitAdd  = Prefix + "unit_add"
	CBUnit     = Prefix + "unit"
	CBUnitName = Prefix + "unit_rename"
	CBUnitCost = Prefix + "unit_price"
	CBUnitDesc = Prefix + "unit_desc"
	CBUnitFlip = Prefix + "unit_toggle"
	CBUnitPic  = Prefix + "unit_photo"
	CBOps      = Prefix + "ops"
	CBOpAdd    = Prefix + "op_add"
	CBOp       = Prefix + "op"
	CBOpName   = Prefix + "op_rename"
	CBOpHandle = Prefix + "op_handle"
	CBOpFlip   = Prefix + "op_toggle"
	CBExport   = Prefix + "export"
)

func flag(on bool) string {
	if on {
		return "✅"
	}
	return "🚫"
}

func menuText() string {
	return "<b>Management</b>\nWhat would you like to do?"
}

func menuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🗂 Categories", Unique: CBCats},
		{Text: "👥 Operators", Unique: CBOps},
		{Text: "📄 Export orders (CSV)", Unique: CBExport},
	})
}

func cancelKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "✖️ Cancel", Unique: CBCancel},
	})
}

func catsText(cats []models.Category) string {
	if len(cats) == 0 {
		return "<b>Categories</b>\n\nNo categories yet."
	}
	return "<b>Categories</b>\n\nChoose one to manage:"
}

func catsKeyboard(cats []models.Category) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+2)
	for _, cat := range cats {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   flag(cat.Active) + " " + cat.Name,
			Unique: CBCat,
			Data:   cat.ID.Hex(),
		}})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "➕ Add category", Unique: CBCatAdd}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBMenu}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func catCardText(cat *models.Category, listings []models.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> %s\n", format.HTML(cat.Name), flag(cat.Active))
	if cat.Description != "" {
		b.WriteString(format.HTML(cat.Description))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nUnits: %d", len(listings))
	return b.String()
}

func catCardKeyboard(cat *models.Category, listings []models.Listing) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(listings)+3)
	for _, l := range listings {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   flag(l.Available) + " " + l.Name,
			Unique: CBUnit,
			Data:   l.ID.Hex(),
		}})
	}
	id := cat.ID.Hex()
	toggle := "Deactivate"
	if !cat.Active {
		toggle = "Activate"
	}
	rows = append(rows,
		[]keyboard.InlineBtn{
			{Text: "➕ Add unit", Unique: CBUnitAdd, Data: id},
			{Text: "✏️ Rename", Unique: CBCatName, Data: id},
		},
		[]keyboard.InlineBtn{{Text: flag(!cat.Active) + " " + toggle, Unique: CBCatFlip, Data: id}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBCats}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func unitCardText(l *models.Listing, rate float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> %s\n", format.HTML(l.Name), flag(l.Available))
	if l.Description != "" {
		b.WriteString(format.HTML(l.Description))
		b.WriteString("\n")
	}
	price := l.PriceRUB
	cur := currency.RUB
	if currency.Currency(l.BaseCurrency) == currency.CZK {
		price = l.PriceCZK
		cur = currency.CZK
	}
	fmt.Fprintf(&b, "\n💰 %s\n📷 Photos: %d", currency.FormatPair(price, cur, rate), len(l.Photos))
	return b.String()
}

func unitCardKeyboard(l *models.Listing) *tele.ReplyMarkup {
	id := l.ID.Hex()
	toggle := "Hide from catalog"
	if !l.Available {
		toggle = "Show in catalog"
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✏️ Rename", Unique: CBUnitName, Data: id},
			{Text: "💰 Price", Unique: CBUnitCost, Data: id},
		},
		[]keyboard.InlineBtn{
			{Text: "📝 Description", Unique: CBUnitDesc, Data: id},
			{Text: "📷 Add photo", Unique: CBUnitPic, Data: id},
		},
		[]keyboard.InlineBtn{{Text: flag(!l.Available) + " " + toggle, Unique: CBUnitFlip, Data: id}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBCat, Data: l.CategoryID.Hex()}},
	)
}

func opsText(ops []models.Operator) string {
	if len(ops) == 0 {
		return "<b>Operators</b>\n\nNo operators yet."
	}
	return "<b>Operators</b>\n\nChoose one to manage:"
}

func opsKeyboard(ops []models.Operator) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(ops)+2)
	for _, op := range ops {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   flag(op.Active) + " " + op.Name,
			Unique: CBOp,
			Data:   op.ID.Hex(),
		}})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "➕ Add operator", Unique: CBOpAdd}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBMenu}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func opCardText(op *models.Operator) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> %s\n@%s\n", format.HTML(op.Name), flag(op.Active), op.Handle)
	if op.Specialization != "" {
		b.WriteString(format.HTML(op.Specialization))
		b.WriteString("\n")
	}
	return b.String()
}

func opCardKeyboard(op *models.Operator) *tele.ReplyMarkup {
	id := op.ID.Hex()
	toggle := "Deactivate"
	if !op.Active {
		toggle = "Activate"
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✏️ Rename", Unique: CBOpName, Data: id},
			{Text: "@ Handle", Unique: CBOpHandle, Data: id},
		},
		[]keyboard.InlineBtn{{Text: flag(!op.Active) + " " + toggle, Unique: CBOpFlip, Data: id}},
		[]keyboard.InlineBtn{{Text: "⬅️ Back", Unique: CBOps}},
	)
}

func photoPromptKeyboard(listingID string) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "✔️ Done", Unique: CBUnit, Data: listingID},
	})
}
