// Package notify fans out order notifications to operators through the
// async sender. Each recipient is an independent job; one failed delivery
// never blocks the rest.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avigsen/estatebot/core/logger"
	"github.com/avigsen/estatebot/core/telegram/format"
	"github.com/avigsen/estatebot/core/telegram/sender"
	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/models"
	"github.com/avigsen/estatebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Notifier delivers order alerts to active operators with a Telegram id.
// It starts unbound; Bind is called once the bot runtime exists.
type Notifier struct {
	store *storage.Store
	rate  float64

	mu         sync.RWMutex
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
}

// NewNotifier creates an unbound notifier. rate is RUB per 1 CZK.
func NewNotifier(store *storage.Store, rate float64) *Notifier {
	return &Notifier{store: store, rate: rate}
}

// Bind attaches the live bot and dispatcher. Until bound, notifications are
// dropped with a warning.
func (n *Notifier) Bind(bot *tele.Bot, dispatcher *sender.Dispatcher) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bot = bot
	n.dispatcher = dispatcher
}

// OrderPlaced notifies every reachable operator about a new order.
func (n *Notifier) OrderPlaced(ctx context.Context, order models.Order, user *models.User) {
	n.mu.RLock()
	bot, dispatcher := n.bot, n.dispatcher
	n.mu.RUnlock()
	if bot == nil || dispatcher == nil {
		logger.SVCNotify.Warn("notify.unbound", "order_id", order.ID.Hex())
		return
	}

	ops, err := n.store.ActiveOperators(ctx)
	if err != nil {
		logger.SVCNotify.Error("notify.operators_load_failed",
			"order_id", order.ID.Hex(),
			"error", err.Error(),
		)
		return
	}

	text := orderText(order, user, n.rate)
	sent := 0
	for _, op := range ops {
		if op.TelegramID == 0 {
			continue
		}
		recipient := tele.ChatID(op.TelegramID)
		err := dispatcher.Enqueue(ctx, "order_notify", "sendMessage", func() error {
			_, err := bot.Send(recipient, text, tele.ModeHTML)
			return err
		})
		if err != nil {
			logger.SVCNotify.Warn("notify.enqueue_failed",
				"order_id", order.ID.Hex(),
				"operator_id", op.ID.Hex(),
				"error", err.Error(),
			)
			continue
		}
		sent++
	}

	logger.SVCNotify.Info("notify.order_placed",
		"order_id", order.ID.Hex(),
		"operators", sent,
	)
}

func orderText(order models.Order, user *models.User, rate float64) string {
	var b strings.Builder
	b.WriteString("🔔 <b>New request</b>\n\n")

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "• %s × %d = %s\n",
			format.HTML(line.Name), line.Quantity,
			currency.Format(line.LineTotal, currency.Currency(line.Currency)),
		)
	}
	fmt.Fprintf(&b, "\n<b>Total:</b> %s / %s\n",
		currency.Format(order.TotalRUB, currency.RUB),
		currency.Format(order.TotalCZK, currency.CZK),
	)
	fmt.Fprintf(&b, "<b>Payment:</b> %s\n<b>Status:</b> %s\n\n", order.PaymentMethod, order.Status)

	if user != nil {
		name := user.FirstName
		if name == "" {
			name = "customer"
		}
		fmt.Fprintf(&b, "<b>Customer:</b> %s", format.HTML(name))
		if user.Username != "" {
			fmt.Fprintf(&b, " (@%s)", format.HTML(user.Username))
		}
		fmt.Fprintf(&b, "\n<b>Telegram id:</b> %d", user.TelegramID)
		if user.OrdersCount > 0 {
			fmt.Fprintf(&b, "\n<b>Past orders:</b> %d", user.OrdersCount)
		}
	}
	return b.String()
}
