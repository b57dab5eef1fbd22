package shop

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestRenderTextEditsTextScreenInPlace(t *testing.T) {
	api := &fakeAPI{}
	c := newFakeContext(api)

	sess := &Session{
		LastKind: KindText,
		LastMsg:  &tele.StoredMessage{MessageID: "1", ChatID: 100},
	}

	if err := RenderText(c, sess, "next screen", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if api.edits != 1 {
		t.Fatalf("edits = %d, want 1", api.edits)
	}
	if len(api.sent) != 0 {
		t.Fatalf("sent = %d, want 0 (text over text edits in place)", len(api.sent))
	}
	if sess.LastKind != KindText {
		t.Fatalf("last kind = %s", sess.LastKind)
	}
}

func TestRenderTextAfterPhotoSendsNewAndDeletesOld(t *testing.T) {
	api := &fakeAPI{}
	c := newFakeContext(api)

	old := &tele.StoredMessage{MessageID: "1", ChatID: 100}
	sess := &Session{LastKind: KindPhoto, LastMsg: old}

	if err := RenderText(c, sess, "back to text", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if api.edits != 0 {
		t.Fatal("photo screens must never be edited into text")
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(api.sent))
	}
	if len(api.deleted) != 1 || api.deleted[0] != tele.Editable(old) {
		t.Fatal("previous photo screen not deleted")
	}
	if sess.LastKind != KindText {
		t.Fatalf("last kind = %s, want %s", sess.LastKind, KindText)
	}
	if sess.LastMsg == old {
		t.Fatal("screen tracking still points at the old message")
	}
}

func TestRenderTextFallsBackToSendWhenEditFails(t *testing.T) {
	api := &fakeAPI{editErr: errors.New("message to edit not found")}
	c := newFakeContext(api)

	sess := &Session{
		LastKind: KindText,
		LastMsg:  &tele.StoredMessage{MessageID: "1", ChatID: 100},
	}

	if err := RenderText(c, sess, "next screen", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent = %d, want 1 after failed edit", len(api.sent))
	}
}

func TestRenderPhotoAlwaysSendsNew(t *testing.T) {
	api := &fakeAPI{}
	c := newFakeContext(api)

	old := &tele.StoredMessage{MessageID: "1", ChatID: 100}
	sess := &Session{LastKind: KindText, LastMsg: old}

	if err := RenderPhoto(c, sess, "file-id", "caption", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if api.edits != 0 {
		t.Fatal("photos must never be rendered via edit")
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(api.sent))
	}
	if _, ok := api.sent[0].(*tele.Photo); !ok {
		t.Fatalf("sent %T, want *tele.Photo", api.sent[0])
	}
	if len(api.deleted) != 1 {
		t.Fatal("previous text screen not deleted")
	}
	if sess.LastKind != KindPhoto {
		t.Fatalf("last kind = %s, want %s", sess.LastKind, KindPhoto)
	}
}
