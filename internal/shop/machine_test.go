package shop

import (
	"context"
	"testing"

	"github.com/avigsen/estatebot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	tele "gopkg.in/telebot.v4"
)

// fakeContext covers the slice of tele.Context the handlers touch. The
// embedded interface stays nil, so any method the flow should not reach
// panics loudly.
type fakeContext struct {
	tele.Context
	sender *tele.User
	chat   *tele.Chat
	text   string
	kv     map[string]interface{}
}

func (f *fakeContext) Sender() *tele.User         { return f.sender }
func (f *fakeContext) Chat() *tele.Chat           { return f.chat }
func (f *fakeContext) Text() string               { return f.text }
func (f *fakeContext) Update() tele.Update        { return tele.Update{} }
func (f *fakeContext) Message() *tele.Message     { return nil }
func (f *fakeContext) Get(key string) interface{} { return f.kv[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	if f.kv == nil {
		f.kv = map[string]interface{}{}
	}
	f.kv[key] = v
}

// fakeAPI records outbound screen operations.
type fakeAPI struct {
	sent    []interface{}
	edits   int
	deleted []tele.Editable
	editErr error
	nextID  int
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sent = append(f.sent, what)
	f.nextID++
	return &tele.Message{ID: f.nextID, Chat: &tele.Chat{ID: 100}}, nil
}

func (f *fakeAPI) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits++
	return &tele.Message{}, nil
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	f.deleted = append(f.deleted, msg)
	return nil
}

func newFakeContext(api *fakeAPI) *fakeContext {
	c := &fakeContext{
		sender: &tele.User{ID: 100, FirstName: "Tom"},
		chat:   &tele.Chat{ID: 100},
	}
	c.Set(screenAPIKey, api)
	return c
}

type fakeStorage struct {
	Storage
	user        *models.User
	orders      []models.Order
	userLookups int
}

func (f *fakeStorage) UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	f.userLookups++
	return f.user, nil
}

func (f *fakeStorage) CreateOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	f.orders = append(f.orders, order)
	return primitive.NewObjectID(), nil
}

type fakeNotifier struct {
	orders []models.Order
}

func (f *fakeNotifier) OrderPlaced(ctx context.Context, order models.Order, user *models.User) {
	f.orders = append(f.orders, order)
}

func TestConfirmClearsCartAndResetsDialog(t *testing.T) {
	db := &fakeStorage{user: &models.User{ID: primitive.NewObjectID(), TelegramID: 100}}
	notifier := &fakeNotifier{}
	m := NewMachine(db, NewSessionStore(), 4.0, notifier)

	sess := m.sessions.Get(100)
	sess.Cart.Add(rubListing("Flat", 5_000_000), 2)
	sess.CurrentCategory = primitive.NewObjectID()
	sess.CurrentListing = primitive.NewObjectID()
	sess.PaymentMethod = models.PaymentCash
	sess.State = StateAwaitingConfirmation

	api := &fakeAPI{}
	if err := m.Confirm(newFakeContext(api)); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if len(db.orders) != 1 {
		t.Fatalf("orders persisted = %d, want 1", len(db.orders))
	}
	if len(notifier.orders) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.orders))
	}
	if db.orders[0].Status != models.OrderStatusConfirmed {
		t.Fatalf("cash order status = %s", db.orders[0].Status)
	}
	if !sess.Cart.Empty() {
		t.Fatal("cart not cleared after submission")
	}
	if sess.PaymentMethod != "" {
		t.Fatalf("payment method not reset: %q", sess.PaymentMethod)
	}
	if !sess.CurrentCategory.IsZero() || !sess.CurrentListing.IsZero() {
		t.Fatal("navigation ids not reset")
	}
	if sess.State != StateStart {
		t.Fatalf("state = %s, want %s", sess.State, StateStart)
	}
}

func TestConfirmWithEmptyCartShortCircuits(t *testing.T) {
	db := &fakeStorage{}
	notifier := &fakeNotifier{}
	m := NewMachine(db, NewSessionStore(), 4.0, notifier)

	sess := m.sessions.Get(100)
	sess.State = StateAwaitingConfirmation

	api := &fakeAPI{}
	if err := m.Confirm(newFakeContext(api)); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if db.userLookups != 0 || len(db.orders) != 0 {
		t.Fatal("empty cart must not touch the database")
	}
	if len(notifier.orders) != 0 {
		t.Fatal("empty cart must not notify operators")
	}
	if sess.State != StateChoosingAction {
		t.Fatalf("state = %s, want %s", sess.State, StateChoosingAction)
	}
}

func TestBuildOrderSnapshotsCart(t *testing.T) {
	m := &Machine{rate: 4.0}
	sess := &Session{}
	sess.Cart.Add(rubListing("Flat", 5_000_000), 2)
	sess.Cart.Add(czkListing("Cottage", 1_000_000), 1)

	user := &models.User{ID: primitive.NewObjectID(), TelegramID: 100}
	order := m.buildOrder(sess, user, models.PaymentCard)

	if len(order.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(order.Lines))
	}
	if order.UserID != user.ID || order.TelegramID != 100 {
		t.Fatal("order not bound to user")
	}
	if order.TotalRUB != 10_000_000+4_000_000 {
		t.Fatalf("total rub = %d", order.TotalRUB)
	}
	if order.TotalCZK != 2_500_000+1_000_000 {
		t.Fatalf("total czk = %d", order.TotalCZK)
	}
	if order.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	// Clearing the cart afterwards must not affect the snapshot.
	name := order.Lines[0].Name
	sess.Cart.Clear()
	if order.Lines[0].Name != name {
		t.Fatal("order lines share memory with the cart")
	}
}

func TestBuildOrderStatusByPaymentMethod(t *testing.T) {
	m := &Machine{rate: 4.0}
	user := &models.User{ID: primitive.NewObjectID()}

	sess := &Session{}
	sess.Cart.Add(rubListing("Flat", 5_000_000), 1)

	card := m.buildOrder(sess, user, models.PaymentCard)
	if card.Status != models.OrderStatusPending {
		t.Fatalf("card order status = %s, want pending", card.Status)
	}

	cash := m.buildOrder(sess, user, models.PaymentCash)
	if cash.Status != models.OrderStatusConfirmed {
		t.Fatalf("cash order status = %s, want confirmed", cash.Status)
	}
}
