package admin

import (
	"sync"
	"time"

	"github.com/avigsen/estatebot/core/logger"
	"github.com/avigsen/estatebot/internal/currency"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// promptType identifies what the active admin session is waiting for. The set
// is closed: a session carrying an unknown value is treated as expired.
type promptType string

const (
	promptCategoryName     promptType = "category_name"
	promptCategoryDesc     promptType = "category_description"
	promptCategoryRename   promptType = "category_rename"
	promptListingName      promptType = "listing_name"
	promptListingPrice     promptType = "listing_price"
	promptListingDesc      promptType = "listing_description"
	promptListingRename    promptType = "listing_rename"
	promptListingReprice   promptType = "listing_reprice"
	promptListingRedesc    promptType = "listing_redescribe"
	promptListingPhoto     promptType = "listing_photo"
	promptOperatorName     promptType = "operator_name"
	promptOperatorHandle   promptType = "operator_handle"
	promptOperatorRename   promptType = "operator_rename"
	promptOperatorRehandle promptType = "operator_rehandle"
)

func knownPrompt(p promptType) bool {
	switch p {
	case promptCategoryName, promptCategoryDesc, promptCategoryRename,
		promptListingName, promptListingPrice, promptListingDesc,
		promptListingRename, promptListingReprice, promptListingRedesc,
		promptListingPhoto,
		promptOperatorName, promptOperatorHandle,
		promptOperatorRename, promptOperatorRehandle:
		return true
	}
	return false
}

// Session is one admin's in-flight multi-step operation. A new operation
// replaces the previous session wholesale; there is at most one per admin.
type Session struct {
	Prompt     promptType
	CategoryID primitive.ObjectID
	ListingID  primitive.ObjectID
	OperatorID primitive.ObjectID

	// Draft fields accumulated across prompt steps.
	DraftName     string
	DraftDesc     string
	DraftPrice    int64
	DraftCurrency currency.Currency

	UpdatedAt time.Time
}

// Store holds admin prompt sessions with idle expiry. Expired sessions are
// dropped silently by a background sweep; the admin learns about it only when
// their next message falls through to the regular flow.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	timers   map[int64]*time.Timer
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		sessions: make(map[int64]*Session),
		timers:   make(map[int64]*time.Timer),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

// Get returns the admin's active session, if any. Expired sessions count as
// absent even before the sweeper has collected them.
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	if time.Since(sess.UpdatedAt) > s.ttl {
		delete(s.sessions, userID)
		return nil, false
	}
	return sess, true
}

// Set installs a session for the admin, replacing any previous one and
// cancelling its pending deferred action.
func (s *Store) Set(userID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now()
	s.sessions[userID] = sess
	s.cancelTimerLocked(userID)
}

// Touch refreshes the idle deadline of an existing session.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.UpdatedAt = time.Now()
	}
}

// Delete removes the admin's session and cancels any pending deferred action.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	s.cancelTimerLocked(userID)
}

// Defer schedules fn to run after delay unless the admin acts again first.
// Set, Delete and a subsequent Defer all cancel the pending call.
func (s *Store) Defer(userID int64, delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked(userID)
	s.timers[userID] = time.AfterFunc(delay, fn)
}

func (s *Store) cancelTimerLocked(userID int64) {
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
}

// StartSweeper launches the background TTL sweep. Call StopSweeper on
// shutdown.
func (s *Store) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// StopSweeper terminates the background sweep.
func (s *Store) StopSweeper() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	now := time.Now()

	s.mu.Lock()
	var expired []int64
	for userID, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.ttl {
			delete(s.sessions, userID)
			expired = append(expired, userID)
		}
	}
	s.mu.Unlock()

	for _, userID := range expired {
		logger.SVCAdmin.Debug("session.expired", "user_id", userID)
	}
}
