// Package admin implements the management flow: catalog and operator CRUD
// driven by multi-step text prompts, photo uploads and a CSV order export.
// Prompt state lives in an in-memory session store with idle expiry.
package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avigsen/estatebot/core/logger"
	"github.com/avigsen/estatebot/core/telegram/callbacks"
	"github.com/avigsen/estatebot/core/telegram/format"
	"github.com/avigsen/estatebot/core/telegram/helpers"
	"github.com/avigsen/estatebot/internal/currency"
	"github.com/avigsen/estatebot/internal/export"
	"github.com/avigsen/estatebot/internal/models"
	"github.com/avigsen/estatebot/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	tele "gopkg.in/telebot.v4"
)

const exportWindow = 30 * 24 * time.Hour

// Machine drives the management flow and implements the message router's
// prompt machine contract.
type Machine struct {
	store     *storage.Store
	sessions  *Store
	rate      float64
	menuDelay time.Duration
}

// NewMachine wires the management machine. rate is RUB per 1 CZK, menuDelay
// is how long a confirmation stays on screen before returning to the menu.
func NewMachine(store *storage.Store, sessions *Store, rate float64, menuDelay time.Duration) *Machine {
	return &Machine{store: store, sessions: sessions, rate: rate, menuDelay: menuDelay}
}

// Sessions exposes the session store for wiring and tests.
func (m *Machine) Sessions() *Store { return m.sessions }

// InProgress reports whether the admin has an active prompt session.
func (m *Machine) InProgress(userID int64) bool {
	_, ok := m.sessions.Get(userID)
	return ok
}

// respond edits the callback's message in place, or sends a new one for
// command and text events.
func respond(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup, tele.ModeHTML); err == nil {
			return nil
		}
	}
	return c.Send(text, markup, tele.ModeHTML)
}

// Menu handles the /admin command.
func (m *Machine) Menu(c tele.Context) error {
	m.sessions.Delete(c.Sender().ID)
	return respond(c, menuText(), menuKeyboard())
}

// MenuCB returns to the management menu from a callback.
func (m *Machine) MenuCB(c tele.Context) error {
	m.sessions.Delete(c.Sender().ID)
	return respond(c, menuText(), menuKeyboard())
}

// Cancel aborts the active prompt session.
func (m *Machine) Cancel(c tele.Context) error {
	m.sessions.Delete(c.Sender().ID)
	return respond(c, "Cancelled.\n\n"+menuText(), menuKeyboard())
}

// Categories shows the category management list.
func (m *Machine) Categories(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	cats, err := m.store.AllCategories(ctx)
	if err != nil {
		return err
	}
	return respond(c, catsText(cats), catsKeyboard(cats))
}

// CategoryAdd starts the add-category prompt chain.
func (m *Machine) CategoryAdd(c tele.Context) error {
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptCategoryName})
	return respond(c, "Send the category name:", cancelKeyboard())
}

// Category shows one category's management card.
func (m *Machine) Category(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	return m.showCategory(c, ctx, id)
}

func (m *Machine) showCategory(c tele.Context, ctx context.Context, id primitive.ObjectID) error {
	cat, err := m.store.CategoryByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return m.Categories(c)
	}
	if err != nil {
		return err
	}
	listings, err := m.store.ListingsByCategoryAll(ctx, id)
	if err != nil {
		return err
	}
	return respond(c, catCardText(cat, listings), catCardKeyboard(cat, listings))
}

// CategoryRename starts the rename prompt for a category.
func (m *Machine) CategoryRename(c tele.Context) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptCategoryRename, CategoryID: id})
	return respond(c, "Send the new category name:", cancelKeyboard())
}

// CategoryToggle flips a category's active flag.
func (m *Machine) CategoryToggle(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	cat, err := m.store.CategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.UpdateCategory(ctx, id, bson.M{"active": !cat.Active}); err != nil {
		return err
	}
	logger.SVCAdmin.Info("category.toggled", "category_id", id.Hex(), "active", !cat.Active)
	return m.showCategory(c, ctx, id)
}

// UnitAdd starts the add-listing prompt chain for a category.
func (m *Machine) UnitAdd(c tele.Context) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptListingName, CategoryID: id})
	return respond(c, "Send the unit name:", cancelKeyboard())
}

// Unit shows one listing's management card.
func (m *Machine) Unit(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	return m.showUnit(c, ctx, id)
}

func (m *Machine) showUnit(c tele.Context, ctx context.Context, id primitive.ObjectID) error {
	l, err := m.store.ListingByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return m.Categories(c)
	}
	if err != nil {
		return err
	}
	return respond(c, unitCardText(l, m.rate), unitCardKeyboard(l))
}

// unitPrompt starts a single-field edit prompt for a listing.
func (m *Machine) unitPrompt(c tele.Context, prompt promptType, ask string) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: prompt, ListingID: id})
	return respond(c, ask, cancelKeyboard())
}

// UnitRename starts the rename prompt for a listing.
func (m *Machine) UnitRename(c tele.Context) error {
	return m.unitPrompt(c, promptListingRename, "Send the new unit name:")
}

// UnitReprice starts the price prompt for a listing.
func (m *Machine) UnitReprice(c tele.Context) error {
	return m.unitPrompt(c, promptListingReprice, priceAsk())
}

// UnitRedescribe starts the description prompt for a listing.
func (m *Machine) UnitRedescribe(c tele.Context) error {
	return m.unitPrompt(c, promptListingRedesc, descAsk())
}

// UnitPhoto starts the photo upload session for a listing.
func (m *Machine) UnitPhoto(c tele.Context) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptListingPhoto, ListingID: id})
	return respond(c, "Send a photo for this unit. The first photo becomes the cover.", photoPromptKeyboard(id.Hex()))
}

// UnitToggle flips a listing's availability.
func (m *Machine) UnitToggle(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Categories(c)
	}
	l, err := m.store.ListingByID(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.UpdateListing(ctx, id, bson.M{"available": !l.Available}); err != nil {
		return err
	}
	logger.SVCAdmin.Info("listing.toggled", "listing_id", id.Hex(), "available", !l.Available)
	return m.showUnit(c, ctx, id)
}

// Operators shows the operator management list.
func (m *Machine) Operators(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	ops, err := m.store.AllOperators(ctx)
	if err != nil {
		return err
	}
	return respond(c, opsText(ops), opsKeyboard(ops))
}

// OperatorAdd starts the add-operator prompt chain.
func (m *Machine) OperatorAdd(c tele.Context) error {
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptOperatorName})
	return respond(c, "Send the operator name:", cancelKeyboard())
}

// Operator shows one operator's management card.
func (m *Machine) Operator(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Operators(c)
	}
	return m.showOperator(c, ctx, id)
}

func (m *Machine) showOperator(c tele.Context, ctx context.Context, id primitive.ObjectID) error {
	op, err := m.store.OperatorByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return m.Operators(c)
	}
	if err != nil {
		return err
	}
	return respond(c, opCardText(op), opCardKeyboard(op))
}

// OperatorRename starts the rename prompt for an operator.
func (m *Machine) OperatorRename(c tele.Context) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Operators(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptOperatorRename, OperatorID: id})
	return respond(c, "Send the new operator name:", cancelKeyboard())
}

// OperatorRehandle starts the handle prompt for an operator.
func (m *Machine) OperatorRehandle(c tele.Context) error {
	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Operators(c)
	}
	m.sessions.Set(c.Sender().ID, &Session{Prompt: promptOperatorRehandle, OperatorID: id})
	return respond(c, "Send the new Telegram handle (with or without @):", cancelKeyboard())
}

// OperatorToggle flips an operator's active flag.
func (m *Machine) OperatorToggle(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	id, err := primitive.ObjectIDFromHex(callbacks.CallbackPayload(c))
	if err != nil {
		return m.Operators(c)
	}
	op, err := m.store.OperatorByID(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.UpdateOperator(ctx, id, bson.M{"active": !op.Active}); err != nil {
		return err
	}
	logger.SVCAdmin.Info("operator.toggled", "operator_id", id.Hex(), "active", !op.Active)
	return m.showOperator(c, ctx, id)
}

// Export sends the last 30 days of orders as a CSV document.
func (m *Machine) Export(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	m.sessions.Delete(c.Sender().ID)

	now := time.Now().UTC()
	orders, err := m.store.OrdersBetween(ctx, now.Add(-exportWindow), now)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return respond(c, "No orders in the last 30 days.\n\n"+menuText(), menuKeyboard())
	}

	var buf bytes.Buffer
	if err := export.OrdersCSV(&buf, orders); err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromReader(&buf),
		FileName: "orders_" + now.Format("20060102") + ".csv",
		MIME:     "text/csv",
	}
	if err := c.Send(doc); err != nil {
		return err
	}
	logger.SVCAdmin.Info("orders.exported", "orders", len(orders), "user_id", c.Sender().ID)
	return nil
}

// HandleText consumes one step of the active prompt session. Validation
// failures re-prompt and leave the session untouched; successful terminal
// steps clear the session and return to the menu after a short delay.
func (m *Machine) HandleText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	sess, ok := m.sessions.Get(userID)
	if !ok {
		return respond(c, menuText(), menuKeyboard())
	}

	input := c.Text()
	switch sess.Prompt {
	case promptCategoryName:
		return m.stepCategoryName(c, ctx, sess, input)
	case promptCategoryDesc:
		return m.stepCategoryDesc(c, ctx, sess, input)
	case promptCategoryRename:
		return m.stepCategoryRename(c, ctx, sess, input)
	case promptListingName:
		return m.stepListingName(c, sess, input)
	case promptListingPrice:
		return m.stepListingPrice(c, sess, input)
	case promptListingDesc:
		return m.stepListingDesc(c, ctx, sess, input)
	case promptListingRename:
		return m.stepListingRename(c, ctx, sess, input)
	case promptListingReprice:
		return m.stepListingReprice(c, ctx, sess, input)
	case promptListingRedesc:
		return m.stepListingRedesc(c, ctx, sess, input)
	case promptListingPhoto:
		m.sessions.Touch(userID)
		return respond(c, "Expected a photo. Send one, or press Done.", photoPromptKeyboard(sess.ListingID.Hex()))
	case promptOperatorName:
		return m.stepOperatorName(c, sess, input)
	case promptOperatorHandle:
		return m.stepOperatorHandle(c, ctx, sess, input)
	case promptOperatorRename:
		return m.stepOperatorRename(c, ctx, sess, input)
	case promptOperatorRehandle:
		return m.stepOperatorRehandle(c, ctx, sess, input)
	default:
		m.sessions.Delete(userID)
		logger.SVCAdmin.Warn("session.unknown_prompt", "user_id", userID, "prompt", string(sess.Prompt))
		return respond(c, "This session has expired. Start again from the menu.", menuKeyboard())
	}
}

// HandlePhoto consumes a photo upload during an active session.
func (m *Machine) HandlePhoto(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	sess, ok := m.sessions.Get(userID)
	if !ok || sess.Prompt != promptListingPhoto {
		return respond(c, "Not expecting a photo right now.", menuKeyboard())
	}

	photo := c.Message().Photo
	if photo == nil {
		return respond(c, "Could not read that photo, try again.", photoPromptKeyboard(sess.ListingID.Hex()))
	}

	err := m.store.AppendPhoto(ctx, sess.ListingID, models.Photo{
		FileID:  photo.FileID,
		Caption: c.Message().Caption,
	})
	if errors.Is(err, storage.ErrNotFound) {
		m.sessions.Delete(userID)
		return respond(c, "That unit no longer exists.", menuKeyboard())
	}
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}

	m.sessions.Touch(userID)
	logger.SVCAdmin.Info("listing.photo_added", "listing_id", sess.ListingID.Hex(), "user_id", userID)
	return respond(c, "📷 Photo added. Send another, or press Done.", photoPromptKeyboard(sess.ListingID.Hex()))
}

func priceAsk() string {
	return "Send the price: a number, optionally with a currency.\nExamples: \"5000000\" (rubles), \"2000000 CZK\", \"8000000 руб\"."
}

func descAsk() string {
	return fmt.Sprintf("Send the description, or %q to leave it empty:", skipMarker)
}

// reprompt keeps the session alive and repeats the question.
func (m *Machine) reprompt(c tele.Context, userID int64, msg string) error {
	m.sessions.Touch(userID)
	return respond(c, msg, cancelKeyboard())
}

// finish clears the session, shows a confirmation and schedules the return
// to the menu. Acting again before the delay fires cancels the return.
func (m *Machine) finish(c tele.Context, userID int64, confirmation string) error {
	m.sessions.Delete(userID)

	msg, err := c.Bot().Send(c.Chat(), confirmation, tele.ModeHTML)
	if err != nil {
		return err
	}
	bot := c.Bot()
	m.sessions.Defer(userID, m.menuDelay, func() {
		if _, err := bot.Edit(msg, menuText(), menuKeyboard(), tele.ModeHTML); err != nil {
			logger.SVCAdmin.Debug("menu.return_failed", "error", err.Error())
		}
	})
	return nil
}

func (m *Machine) stepCategoryName(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	exists, err := m.store.CategoryNameExists(ctx, name, primitive.NilObjectID)
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	if exists {
		return m.reprompt(c, userID, "A category with this name already exists. Try another:")
	}
	sess.DraftName = name
	sess.Prompt = promptCategoryDesc
	m.sessions.Set(userID, sess)
	return respond(c, descAsk(), cancelKeyboard())
}

func (m *Machine) stepCategoryDesc(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	desc, msg := validateDescription(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	id, err := m.store.CreateCategory(ctx, models.Category{
		Name:        sess.DraftName,
		Description: desc,
		Active:      true,
	})
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("category.created", "category_id", id.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Category <b>%s</b> created.", format.HTML(sess.DraftName)))
}

func (m *Machine) stepCategoryRename(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	exists, err := m.store.CategoryNameExists(ctx, name, sess.CategoryID)
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	if exists {
		return m.reprompt(c, userID, "A category with this name already exists. Try another:")
	}
	if err := m.store.UpdateCategory(ctx, sess.CategoryID, bson.M{"name": name}); err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("category.renamed", "category_id", sess.CategoryID.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Category renamed to <b>%s</b>.", format.HTML(name)))
}

func (m *Machine) stepListingName(c tele.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	sess.DraftName = name
	sess.Prompt = promptListingPrice
	m.sessions.Set(userID, sess)
	return respond(c, priceAsk(), cancelKeyboard())
}

func (m *Machine) stepListingPrice(c tele.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	value, cur, msg := parsePrice(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	sess.DraftPrice = value
	sess.DraftCurrency = cur
	sess.Prompt = promptListingDesc
	m.sessions.Set(userID, sess)
	return respond(c, descAsk(), cancelKeyboard())
}

func (m *Machine) stepListingDesc(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	desc, msg := validateDescription(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	rub, czk := currency.Pair(sess.DraftPrice, sess.DraftCurrency, m.rate)
	id, err := m.store.CreateListing(ctx, models.Listing{
		CategoryID:   sess.CategoryID,
		Name:         sess.DraftName,
		Description:  desc,
		PriceRUB:     rub,
		PriceCZK:     czk,
		BaseCurrency: string(sess.DraftCurrency),
		Available:    true,
	})
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("listing.created",
		"listing_id", id.Hex(),
		"category_id", sess.CategoryID.Hex(),
		"user_id", userID,
	)
	return m.finish(c, userID, fmt.Sprintf(
		"✅ Unit <b>%s</b> created at %s. Add photos from its card.",
		format.HTML(sess.DraftName), currency.FormatPair(sess.DraftPrice, sess.DraftCurrency, m.rate),
	))
}

func (m *Machine) stepListingRename(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	if err := m.store.UpdateListing(ctx, sess.ListingID, bson.M{"name": name}); err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("listing.renamed", "listing_id", sess.ListingID.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Unit renamed to <b>%s</b>.", format.HTML(name)))
}

func (m *Machine) stepListingReprice(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	value, cur, msg := parsePrice(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	rub, czk := currency.Pair(value, cur, m.rate)
	err := m.store.UpdateListing(ctx, sess.ListingID, bson.M{
		"price_rub":     rub,
		"price_czk":     czk,
		"base_currency": string(cur),
	})
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("listing.repriced", "listing_id", sess.ListingID.Hex(), "user_id", userID)
	return m.finish(c, userID, "✅ Price updated: "+currency.FormatPair(value, cur, m.rate))
}

func (m *Machine) stepListingRedesc(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	desc, msg := validateDescription(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	if err := m.store.UpdateListing(ctx, sess.ListingID, bson.M{"description": desc}); err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("listing.redescribed", "listing_id", sess.ListingID.Hex(), "user_id", userID)
	return m.finish(c, userID, "✅ Description updated.")
}

func (m *Machine) stepOperatorName(c tele.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	sess.DraftName = name
	sess.Prompt = promptOperatorHandle
	m.sessions.Set(userID, sess)
	return respond(c, "Send the operator's Telegram handle (with or without @):", cancelKeyboard())
}

func (m *Machine) stepOperatorHandle(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	handle, msg := validateHandle(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	taken, err := m.store.HandleExists(ctx, handle, primitive.NilObjectID)
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	if taken {
		return m.reprompt(c, userID, "This handle is already assigned to another operator. Try another:")
	}
	id, err := m.store.CreateOperator(ctx, models.Operator{
		Name:   sess.DraftName,
		Handle: handle,
		Active: true,
	})
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("operator.created", "operator_id", id.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Operator <b>%s</b> (@%s) created.", format.HTML(sess.DraftName), handle))
}

func (m *Machine) stepOperatorRename(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	name, msg := validateName(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	if err := m.store.UpdateOperator(ctx, sess.OperatorID, bson.M{"name": name}); err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("operator.renamed", "operator_id", sess.OperatorID.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Operator renamed to <b>%s</b>.", format.HTML(name)))
}

func (m *Machine) stepOperatorRehandle(c tele.Context, ctx context.Context, sess *Session, input string) error {
	userID := c.Sender().ID
	handle, msg := validateHandle(input)
	if msg != "" {
		return m.reprompt(c, userID, msg)
	}
	taken, err := m.store.HandleExists(ctx, handle, sess.OperatorID)
	if err != nil {
		m.sessions.Delete(userID)
		return err
	}
	if taken {
		return m.reprompt(c, userID, "This handle is already assigned to another operator. Try another:")
	}
	if err := m.store.UpdateOperator(ctx, sess.OperatorID, bson.M{"handle": handle}); err != nil {
		m.sessions.Delete(userID)
		return err
	}
	logger.SVCAdmin.Info("operator.rehandled", "operator_id", sess.OperatorID.Hex(), "user_id", userID)
	return m.finish(c, userID, fmt.Sprintf("✅ Handle updated to @%s.", handle))
}
