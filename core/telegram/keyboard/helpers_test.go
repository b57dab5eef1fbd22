package keyboard

import "testing"

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "A", Unique: "a"},
		{Text: "B", Unique: "b"},
	})
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("row width = %d, want 1", len(markup.InlineKeyboard[0]))
	}
}

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "A", Unique: "a"}, {Text: "B", Unique: "b"}},
		[]InlineBtn{{Text: "C", Unique: "c"}},
	)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatal("row shapes wrong")
	}
}

func TestInlineButtonsNPerRow(t *testing.T) {
	btns := []InlineBtn{
		{Text: "1", Unique: "q", Data: "1"},
		{Text: "2", Unique: "q", Data: "2"},
		{Text: "3", Unique: "q", Data: "3"},
		{Text: "4", Unique: "q", Data: "4"},
		{Text: "5", Unique: "q", Data: "5"},
	}
	markup := InlineButtonsNPerRow(btns, 3)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 3 || len(markup.InlineKeyboard[1]) != 2 {
		t.Fatal("row shapes wrong")
	}
}

func TestInlineButtonsURL(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Chat", URL: "https://t.me/someone"},
	})
	btn := markup.InlineKeyboard[0][0]
	if btn.URL != "https://t.me/someone" {
		t.Fatalf("url = %q", btn.URL)
	}
	if btn.Unique != "" {
		t.Fatalf("url button should carry no callback unique, got %q", btn.Unique)
	}
}
