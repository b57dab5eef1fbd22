package callbacks

import (
	"errors"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ErrMalformedPayload marks a callback payload that does not match the shape
// the caller expects (empty, wrong part count, missing id).
var ErrMalformedPayload = errors.New("callbacks: malformed payload")

// PayloadInt parses callback payload as int.
func PayloadInt(c tele.Context) (int, error) {
	p := CallbackPayload(c)
	return strconv.Atoi(p)
}

// PayloadParts splits the callback payload into parts using the given separator.
func PayloadParts(c tele.Context, sep string) ([]string, error) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, ErrMalformedPayload
	}
	return strings.Split(p, sep), nil
}

// PayloadIDAndArg parses a payload like "<id>|<arg>" into an id string and
// a trailing argument. The id part must be non-empty.
func PayloadIDAndArg(c tele.Context, sep string) (string, string, error) {
	parts, err := PayloadParts(c, sep)
	if err != nil {
		return "", "", err
	}
	if len(parts) != 2 || parts[0] == "" {
		return "", "", ErrMalformedPayload
	}
	return parts[0], parts[1], nil
}
