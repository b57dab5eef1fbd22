package admin

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreGetAbsent(t *testing.T) {
	store := NewStore(time.Minute)
	if _, ok := store.Get(1); ok {
		t.Fatal("expected no session")
	}
}

func TestStoreSetReplacesSession(t *testing.T) {
	store := NewStore(time.Minute)
	store.Set(1, &Session{Prompt: promptCategoryName})
	store.Set(1, &Session{Prompt: promptOperatorName})

	sess, ok := store.Get(1)
	if !ok {
		t.Fatal("session missing")
	}
	if sess.Prompt != promptOperatorName {
		t.Fatalf("prompt = %s, want %s", sess.Prompt, promptOperatorName)
	}
}

func TestStoreGetExpiresIdleSession(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	store.Set(1, &Session{Prompt: promptCategoryName})

	time.Sleep(80 * time.Millisecond)
	if _, ok := store.Get(1); ok {
		t.Fatal("idle session should be treated as expired")
	}
}

func TestStoreTouchExtendsSession(t *testing.T) {
	store := NewStore(80 * time.Millisecond)
	store.Set(1, &Session{Prompt: promptCategoryName})

	time.Sleep(50 * time.Millisecond)
	store.Touch(1)
	time.Sleep(50 * time.Millisecond)

	if _, ok := store.Get(1); !ok {
		t.Fatal("touched session should still be alive")
	}
}

func TestSweepDropsOnlyIdleSessions(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	store.Set(1, &Session{Prompt: promptCategoryName})
	store.Set(2, &Session{Prompt: promptOperatorName})

	time.Sleep(30 * time.Millisecond)
	store.Touch(2)
	time.Sleep(30 * time.Millisecond)
	store.sweep()

	store.mu.Lock()
	_, gone := store.sessions[1]
	_, kept := store.sessions[2]
	store.mu.Unlock()

	if gone {
		t.Fatal("idle session survived the sweep")
	}
	if !kept {
		t.Fatal("fresh session was swept")
	}
}

func TestDeferRunsAfterDelay(t *testing.T) {
	store := NewStore(time.Minute)
	var fired atomic.Bool

	store.Defer(1, 20*time.Millisecond, func() { fired.Store(true) })
	time.Sleep(60 * time.Millisecond)

	if !fired.Load() {
		t.Fatal("deferred action did not run")
	}
}

func TestDeferCancelledByNewSession(t *testing.T) {
	store := NewStore(time.Minute)
	var fired atomic.Bool

	store.Defer(1, 40*time.Millisecond, func() { fired.Store(true) })
	store.Set(1, &Session{Prompt: promptCategoryName})
	time.Sleep(80 * time.Millisecond)

	if fired.Load() {
		t.Fatal("deferred action should have been cancelled by Set")
	}
}

func TestDeferCancelledByDelete(t *testing.T) {
	store := NewStore(time.Minute)
	var fired atomic.Bool

	store.Defer(1, 40*time.Millisecond, func() { fired.Store(true) })
	store.Delete(1)
	time.Sleep(80 * time.Millisecond)

	if fired.Load() {
		t.Fatal("deferred action should have been cancelled by Delete")
	}
}

func TestDeferZeroDelayRunsInline(t *testing.T) {
	store := NewStore(time.Minute)
	ran := false
	store.Defer(1, 0, func() { ran = true })
	if !ran {
		t.Fatal("zero delay should run inline")
	}
}
