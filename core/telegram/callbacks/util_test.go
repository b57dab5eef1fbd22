package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data    string
		unique  string
		payload string
	}{
		{"\fcategory|68a1f2", "category", "68a1f2"},
		{"\\fcategory|68a1f2", "category", "68a1f2"},
		{"\fmenu", "menu", ""},
		{"\fqty|68a1f2|3", "qty", "68a1f2|3"},
		{"plain", "plain", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if unique != tc.unique || payload != tc.payload {
			t.Errorf("ParseCallbackData(%q) = (%q, %q), want (%q, %q)",
				tc.data, unique, payload, tc.unique, tc.payload)
		}
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	if unique != "" || payload != "" {
		t.Fatalf("got (%q, %q)", unique, payload)
	}
}
