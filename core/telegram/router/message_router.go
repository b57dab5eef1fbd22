package router

import (
	"strings"
	"time"

	tg "github.com/avigsen/estatebot/core/telegram"
	"github.com/avigsen/estatebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// PromptMachine is the minimal interface of a conversation machine that can
// intercept free-form input for a user.
type PromptMachine interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
	HandlePhoto(c tele.Context) error
}

// MessageOptions controls routing of text and photo updates.
//
// Precedence is first-match-wins: an active admin prompt session (for an
// authorized user) intercepts the update before the shopping machine sees it.
type MessageOptions struct {
	IsAdmin func(userID int64) bool

	// Admin intercepts text/photo while an admin prompt session is active.
	Admin PromptMachine

	// ShopText receives all remaining plain text (custom quantity input etc).
	ShopText tele.HandlerFunc

	// UnexpectedPhoto replies with a corrective message when a photo arrives
	// outside of an active photo-upload prompt.
	UnexpectedPhoto tele.HandlerFunc
}

func (o MessageOptions) adminActive(userID int64) bool {
	if o.Admin == nil {
		return false
	}
	if o.IsAdmin != nil && !o.IsAdmin(userID) {
		return false
	}
	return o.Admin.InProgress(userID)
}

// MessageRoutes builds handlers for text and photo routing.
func MessageRoutes(opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		// Commands are routed by their own endpoints; unknown commands are ignored.
		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			logHandlerSummary(c, "command_text.skip", start, nil)
			return nil
		}

		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if opts.adminActive(sender.ID) {
			return handleWithSummary(c, "admin_prompt", start, func() error {
				return opts.Admin.HandleText(c)
			})
		}

		if opts.ShopText != nil {
			return handleWithSummary(c, "shop_text", start, func() error {
				return opts.ShopText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if opts.adminActive(sender.ID) {
			return handleWithSummary(c, "admin_photo", start, func() error {
				return opts.Admin.HandlePhoto(c)
			})
		}

		if opts.UnexpectedPhoto != nil {
			return handleWithSummary(c, "unexpected_photo", start, func() error {
				return opts.UnexpectedPhoto(c)
			})
		}

		logHandlerSummary(c, "unexpected_photo", start, nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(photoHandler)),
		},
	}
}
