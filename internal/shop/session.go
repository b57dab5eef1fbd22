package shop

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	tele "gopkg.in/telebot.v4"
)

// State identifies a screen of the customer flow. The set is closed: any
// value outside these constants is treated as corrupt and reset to StateStart.
type State string

const (
	StateStart                 State = "start"
	StateChoosingAction        State = "choosing_action"
	StateBrowsingCategories    State = "browsing_categories"
	StateBrowsingListings      State = "browsing_listings"
	StateViewingListing        State = "viewing_listing"
	StateChoosingQuantity      State = "choosing_quantity"
	StateWaitingCustomQuantity State = "waiting_custom_quantity"
	StateReviewingCart         State = "reviewing_cart"
	StateSelectingPayment      State = "selecting_payment"
	StateAwaitingConfirmation  State = "awaiting_confirmation"
)

// MessageKind tracks what kind of message is currently on screen, which
// drives the edit-vs-send decision on the next render.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindPhoto MessageKind = "photo"
)

// Session is the per-user shopping state: cart, navigation position and the
// on-screen message bookkeeping. It lives for the process lifetime and is
// mutated only by the shopping machine.
type Session struct {
	State           State
	Cart            Cart
	CurrentCategory primitive.ObjectID
	CurrentListing  primitive.ObjectID
	PaymentMethod   string

	ChatID   int64
	LastMsg  *tele.StoredMessage
	LastKind MessageKind
}

// SessionStore maps Telegram user ids to shopping sessions. Safe for
// interleaved access across different users; events for the same user are
// assumed serial (transport delivery order), which is a documented risk, not
// an enforced lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewSessionStore constructs an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for a user, lazily creating a default one.
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[userID]; ok {
		return sess
	}
	sess = &Session{State: StateStart, LastKind: KindText}
	s.sessions[userID] = sess
	return sess
}

// Delete removes the session for a user.
func (s *SessionStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len reports the number of live sessions (diagnostics).
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
