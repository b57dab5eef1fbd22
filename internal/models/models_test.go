package models

import "testing"

func TestMainPhoto(t *testing.T) {
	var l Listing
	if _, ok := l.MainPhoto(); ok {
		t.Fatal("empty listing reported a main photo")
	}

	l.Photos = []Photo{
		{FileID: "first"},
		{FileID: "second", Main: true},
	}
	photo, ok := l.MainPhoto()
	if !ok || photo.FileID != "second" {
		t.Fatalf("got %q, want the flagged photo", photo.FileID)
	}

	// Without a flagged photo the first one serves as a fallback.
	l.Photos[1].Main = false
	photo, ok = l.MainPhoto()
	if !ok || photo.FileID != "first" {
		t.Fatalf("got %q, want fallback to first", photo.FileID)
	}
}
