package callbacks

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type callbackContext struct {
	tele.Context
	cb *tele.Callback
}

func (c *callbackContext) Callback() *tele.Callback { return c.cb }

func ctxWithData(data string) tele.Context {
	return &callbackContext{cb: &tele.Callback{Data: data}}
}

func TestPayloadIDAndArg(t *testing.T) {
	id, arg, err := PayloadIDAndArg(ctxWithData("\fqty|68a1f2aabbccddeeff001122|3"), "|")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "68a1f2aabbccddeeff001122" || arg != "3" {
		t.Fatalf("got (%q, %q)", id, arg)
	}
}

func TestPayloadIDAndArgMalformed(t *testing.T) {
	cases := []string{
		"\fqty",         // empty payload
		"\fqty|onlyone", // single part
		"\fqty||3",      // empty id
		"\fqty|a|b|c",   // too many parts
	}
	for _, data := range cases {
		if _, _, err := PayloadIDAndArg(ctxWithData(data), "|"); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("PayloadIDAndArg(%q) error = %v, want ErrMalformedPayload", data, err)
		}
	}
}

func TestPayloadPartsEmpty(t *testing.T) {
	if _, err := PayloadParts(ctxWithData("\fmenu"), "|"); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("error = %v, want ErrMalformedPayload", err)
	}
}
