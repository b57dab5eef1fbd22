// Package shop implements the customer-facing state machine: catalog
// browsing, the request list (cart), checkout and order submission. All
// per-user state lives in memory; only submitted orders and user profiles
// touch the database.
package shop

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/avigsen/estatebot/core/logger"
	"github.com/avigsen/estatebot/core/telegram/callbacks"
	"github.com/avigsen/estatebot/core/telegram/format"
	"github.com/avigsen/estatebot/core/telegram/helpers"
	"github.com/avigsen/estatebot/internal/models"
	"github.com/avigsen/estatebot/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	tele "gopkg.in/telebot.v4"
)

// Notifier delivers order notifications to operators. Delivery is
// fire-and-forget from the machine's perspective.
type Notifier interface {
	OrderPlaced(ctx context.Context, order models.Order, user *models.User)
}

// Storage is the slice of the data layer the customer flow reads and writes.
// *storage.Store satisfies it.
type Storage interface {
	UpsertUser(ctx context.Context, telegramID int64, firstName, username string) (*models.User, error)
	UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	ActiveCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	ListingsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Listing, error)
	ListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	ActiveOperators(ctx context.Context) ([]models.Operator, error)
	CreateOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error)
}

// Machine drives the customer flow. One instance serves all users; per-user
// state lives in the session store.
type Machine struct {
	store    Storage
	sessions *SessionStore
	rate     float64
	notifier Notifier
}

// NewMachine wires the shopping machine. rate is RUB per 1 CZK.
func NewMachine(store Storage, sessions *SessionStore, rate float64, notifier Notifier) *Machine {
	return &Machine{store: store, sessions: sessions, rate: rate, notifier: notifier}
}

// Sessions exposes the session store for wiring and tests.
func (m *Machine) Sessions() *SessionStore { return m.sessions }

// Start handles /start: refreshes the user profile and shows the main menu.
// The cart survives a restart of the dialog.
func (m *Machine) Start(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()

	if _, err := m.store.UpsertUser(ctx, sender.ID, sender.FirstName, sender.Username); err != nil {
		logger.SVCOrders.Warn("user.upsert_failed", "error", err.Error())
	}

	sess := m.sessions.Get(sender.ID)
	sess.State = StateChoosingAction
	return RenderTextFresh(c, sess, mainMenuText(sender.FirstName), mainMenuKeyboard())
}

// Menu returns to the main menu.
func (m *Machine) Menu(c tele.Context) error {
	sess := m.sessions.Get(c.Sender().ID)
	sess.State = StateChoosingAction
	return RenderText(c, sess, mainMenuText(c.Sender().FirstName), mainMenuKeyboard())
}

// Categories shows the active category list.
func (m *Machine) Categories(c tele.Context) error {
	return m.showCategories(c, "")
}

func (m *Machine) showCategories(c tele.Context, note string) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	cats, err := m.store.ActiveCategories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		sess.State = StateChoosingAction
		return RenderText(c, sess, "The catalog is empty for now. Check back soon!", mainMenuKeyboard())
	}

	sess.State = StateBrowsingCategories
	return RenderText(c, sess, categoriesText(note), categoriesKeyboard(cats))
}

// Category shows available listings of the selected category. An empty or
// vanished category re-renders the category list with a note instead of
// leaving a dead screen.
func (m *Machine) Category(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.showCategories(c, "That category is no longer available.")
	}

	cat, err := m.store.CategoryByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return m.showCategories(c, "That category is no longer available.")
	}
	if err != nil {
		return err
	}

	listings, err := m.store.ListingsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return m.showCategories(c, "No available units in "+format.HTML(cat.Name)+" right now.")
	}

	sess.CurrentCategory = id
	sess.State = StateBrowsingListings
	return RenderText(c, sess, listingsText(cat), listingsKeyboard(listings))
}

// Listing shows the detail screen, as a photo when the listing has one.
func (m *Machine) Listing(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	l, ok, err := m.resolveListing(ctx, callbacks.CallbackPayload(c))
	if err != nil {
		return err
	}
	if !ok {
		return m.showCategories(c, "That unit is no longer available.")
	}

	sess.CurrentListing = l.ID
	sess.State = StateViewingListing

	detail := listingDetailText(l, m.rate)
	if photo, has := l.MainPhoto(); has {
		return RenderPhoto(c, sess, photo.FileID, detail, listingKeyboard(l))
	}
	return RenderText(c, sess, detail, listingKeyboard(l))
}

// Buy shows the quantity picker for a listing.
func (m *Machine) Buy(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	l, ok, err := m.resolveListing(ctx, callbacks.CallbackPayload(c))
	if err != nil {
		return err
	}
	if !ok {
		return m.showCategories(c, "That unit is no longer available.")
	}

	sess.CurrentListing = l.ID
	sess.State = StateChoosingQuantity
	return RenderText(c, sess, quantityText(l), quantityKeyboard(l))
}

// Quantity handles a picked quantity button, or switches to free-text input
// for the custom amount.
func (m *Machine) Quantity(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	idHex, arg, err := callbacks.PayloadIDAndArg(c, "|")
	if err != nil {
		return m.showCategories(c, "")
	}
	l, ok, err := m.resolveListing(ctx, idHex)
	if err != nil {
		return err
	}
	if !ok {
		return m.showCategories(c, "That unit is no longer available.")
	}

	if arg == "custom" {
		sess.CurrentListing = l.ID
		sess.State = StateWaitingCustomQuantity
		return RenderText(c, sess, customQuantityText(l), quantityKeyboard(l))
	}

	qty, err := strconv.Atoi(arg)
	if err != nil || qty < 1 || qty > 5 {
		return m.showCategories(c, "")
	}
	return m.addToCart(c, sess, l, qty)
}

// HandleText consumes free-text input. Only the custom quantity state expects
// text; anything else falls back to the main menu so the user is never stuck.
func (m *Machine) HandleText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	if sess.State != StateWaitingCustomQuantity {
		DeleteInbound(c)
		sess.State = StateChoosingAction
		return RenderText(c, sess, mainMenuText(c.Sender().FirstName), mainMenuKeyboard())
	}

	l, ok, err := m.resolveListing(ctx, sess.CurrentListing.Hex())
	if err != nil {
		return err
	}
	if !ok {
		DeleteInbound(c)
		return m.showCategories(c, "That unit is no longer available.")
	}

	qty, convErr := strconv.Atoi(strings.TrimSpace(c.Text()))
	DeleteInbound(c)
	if convErr != nil || qty < 1 || qty > maxCustomQuantity {
		// Invalid input re-prompts without touching the state.
		return RenderText(c, sess, customQuantityText(l), quantityKeyboard(l))
	}
	return m.addToCart(c, sess, l, qty)
}

func (m *Machine) addToCart(c tele.Context, sess *Session, l *models.Listing, qty int) error {
	sess.Cart.Add(l, qty)
	sess.State = StateChoosingAction
	logger.SVCOrders.Debug("cart.added",
		"user_id", c.Sender().ID,
		"listing_id", l.ID.Hex(),
		"qty", qty,
		"lines", len(sess.Cart.Lines),
	)
	return RenderText(c, sess, addedText(l, qty), addedKeyboard())
}

// Cart shows the request list review screen.
func (m *Machine) Cart(c tele.Context) error {
	sess := m.sessions.Get(c.Sender().ID)

	if sess.Cart.Empty() {
		sess.State = StateChoosingAction
		return RenderText(c, sess, emptyCartText(), emptyCartKeyboard())
	}
	sess.State = StateReviewingCart
	return RenderText(c, sess, cartText(&sess.Cart, m.rate), cartKeyboard())
}

// CartClear drops all lines.
func (m *Machine) CartClear(c tele.Context) error {
	sess := m.sessions.Get(c.Sender().ID)
	sess.Cart.Clear()
	sess.State = StateChoosingAction
	return RenderText(c, sess, "Request list cleared.", mainMenuKeyboard())
}

// Checkout moves to payment method selection; an empty cart short-circuits
// back to the empty-cart screen.
func (m *Machine) Checkout(c tele.Context) error {
	sess := m.sessions.Get(c.Sender().ID)

	if sess.Cart.Empty() {
		sess.State = StateChoosingAction
		return RenderText(c, sess, emptyCartText(), emptyCartKeyboard())
	}
	sess.State = StateSelectingPayment
	return RenderText(c, sess, paymentText(), paymentKeyboard())
}

// Pay records the chosen payment method and shows the final summary.
func (m *Machine) Pay(c tele.Context) error {
	sess := m.sessions.Get(c.Sender().ID)

	if sess.Cart.Empty() {
		sess.State = StateChoosingAction
		return RenderText(c, sess, emptyCartText(), emptyCartKeyboard())
	}

	method := callbacks.CallbackPayload(c)
	if method != models.PaymentCard && method != models.PaymentCash {
		sess.State = StateSelectingPayment
		return RenderText(c, sess, paymentText(), paymentKeyboard())
	}

	sess.PaymentMethod = method
	sess.State = StateAwaitingConfirmation
	return RenderText(c, sess, confirmText(&sess.Cart, method, m.rate), confirmKeyboard())
}

// Confirm submits the order: snapshots the cart, persists it, notifies
// operators, then clears the cart and resets the dialog.
func (m *Machine) Confirm(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()
	sess := m.sessions.Get(sender.ID)

	if sess.Cart.Empty() {
		sess.State = StateChoosingAction
		return RenderText(c, sess, emptyCartText(), emptyCartKeyboard())
	}

	user, err := m.store.UserByTelegramID(ctx, sender.ID)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = m.store.UpsertUser(ctx, sender.ID, sender.FirstName, sender.Username)
	}
	if err != nil {
		return err
	}

	method := sess.PaymentMethod
	if method == "" {
		method = models.PaymentCard
	}
	order := m.buildOrder(sess, user, method)

	start := time.Now()
	orderID, err := m.store.CreateOrder(ctx, order)
	if err != nil {
		return err
	}
	order.ID = orderID
	logger.SVCOrders.Info("order.created",
		"order_id", orderID.Hex(),
		"user_id", sender.ID,
		"lines", len(order.Lines),
		"total_rub", order.TotalRUB,
		"payment", method,
		"took", logger.Took(start),
	)

	m.notifier.OrderPlaced(ctx, order, user)

	sess.Cart.Clear()
	sess.PaymentMethod = ""
	sess.CurrentCategory = primitive.NilObjectID
	sess.CurrentListing = primitive.NilObjectID
	sess.State = StateStart
	return RenderText(c, sess, submittedText(method), submittedKeyboard())
}

// Operators shows active operator contacts with direct chat links.
func (m *Machine) Operators(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sess := m.sessions.Get(c.Sender().ID)

	ops, err := m.store.ActiveOperators(ctx)
	if err != nil {
		return err
	}
	sess.State = StateChoosingAction
	if len(ops) == 0 {
		return RenderText(c, sess, operatorsText(nil), mainMenuKeyboard())
	}
	return RenderText(c, sess, operatorsText(ops), operatorsKeyboard(ops))
}

// buildOrder snapshots the cart into a persistable order. Cash orders are
// confirmed immediately, card orders stay pending until an operator settles
// the payment.
func (m *Machine) buildOrder(sess *Session, user *models.User, method string) models.Order {
	lines := make([]models.OrderLine, 0, len(sess.Cart.Lines))
	for _, line := range sess.Cart.Lines {
		lines = append(lines, models.OrderLine{
			ListingID: line.ListingID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Currency:  string(line.Currency),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	rub, czk := sess.Cart.Totals(m.rate)

	status := models.OrderStatusPending
	if method == models.PaymentCash {
		status = models.OrderStatusConfirmed
	}
	return models.Order{
		UserID:        user.ID,
		TelegramID:    user.TelegramID,
		Lines:         lines,
		TotalRUB:      rub,
		TotalCZK:      czk,
		PaymentMethod: method,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}

// resolveListing loads an available listing by hex id. The boolean is false
// for malformed ids, missing records and listings toggled unavailable.
func (m *Machine) resolveListing(ctx context.Context, idHex string) (*models.Listing, bool, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, false, nil
	}
	l, err := m.store.ListingByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !l.Available {
		return nil, false, nil
	}
	return l, true, nil
}
