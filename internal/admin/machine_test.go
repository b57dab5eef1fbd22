package admin

import (
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

// fakeContext covers the slice of tele.Context the handlers touch. The
// embedded interface stays nil, so any method the flow should not reach
// panics loudly.
type fakeContext struct {
	tele.Context
	sender *tele.User
	sent   []string
	kv     map[string]interface{}
}

func (f *fakeContext) Sender() *tele.User         { return f.sender }
func (f *fakeContext) Chat() *tele.Chat           { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Callback() *tele.Callback   { return nil }
func (f *fakeContext) Update() tele.Update        { return tele.Update{} }
func (f *fakeContext) Get(key string) interface{} { return f.kv[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	if f.kv == nil {
		f.kv = map[string]interface{}{}
	}
	f.kv[key] = v
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		f.sent = append(f.sent, text)
	}
	return nil
}

func TestHandlePhotoWithoutSessionIsRejected(t *testing.T) {
	// A nil store guarantees the test fails loudly if the gate ever lets a
	// stray photo reach the database.
	m := NewMachine(nil, NewStore(time.Minute), 4.0, 0)
	c := &fakeContext{sender: &tele.User{ID: 7}}

	if err := m.HandlePhoto(c); err != nil {
		t.Fatalf("handle photo: %v", err)
	}
	if len(c.sent) != 1 || !strings.Contains(c.sent[0], "Not expecting a photo") {
		t.Fatalf("corrective reply missing: %v", c.sent)
	}
	if m.InProgress(7) {
		t.Fatal("rejecting a stray photo must not open a session")
	}
}

func TestHandlePhotoDuringTextPromptIsRejected(t *testing.T) {
	m := NewMachine(nil, NewStore(time.Minute), 4.0, 0)
	m.sessions.Set(7, &Session{Prompt: promptCategoryName})
	c := &fakeContext{sender: &tele.User{ID: 7}}

	if err := m.HandlePhoto(c); err != nil {
		t.Fatalf("handle photo: %v", err)
	}
	if len(c.sent) != 1 || !strings.Contains(c.sent[0], "Not expecting a photo") {
		t.Fatalf("corrective reply missing: %v", c.sent)
	}

	sess, ok := m.sessions.Get(7)
	if !ok || sess.Prompt != promptCategoryName {
		t.Fatal("stray photo must not disturb the active text prompt")
	}
}
