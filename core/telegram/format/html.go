package format

import "strings"

// Telegram's HTML parse mode treats only these three characters as special;
// anything else passes through verbatim.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// HTML escapes text for safe interpolation into HTML parse mode messages.
// Unescaped user input breaks the whole message ("can't parse entities"),
// so every dynamic string rendered inside markup must pass through here.
func HTML(text string) string {
	return htmlEscaper.Replace(text)
}
