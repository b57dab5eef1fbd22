package router

import (
	"strings"
	"time"

	tg "github.com/avigsen/estatebot/core/telegram"
	"github.com/avigsen/estatebot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises routing behaviour for callbacks.
type CallbackOptions struct {
	// AdminPrefix marks callback keys that belong to the admin surface.
	// Presses from non-admins on such keys are dropped silently.
	AdminPrefix string
	IsAdmin     func(userID int64) bool
	NotFound    tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry,
// applying the admin-domain gate before registry dispatch.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key, _ := parseCallback(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if opts.AdminPrefix != "" && strings.HasPrefix(key, opts.AdminPrefix) {
			sender := c.Sender()
			if sender == nil || opts.IsAdmin == nil || !opts.IsAdmin(sender.ID) {
				_ = c.Respond()
				logHandlerSummary(c, name, start, nil, append(extras, slog.String("reason", "admin_drop"))...)
				return nil
			}
		}

		_ = c.Respond()

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
