package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentPutKeepsOrder(t *testing.T) {
	var doc Document
	doc.Put("A", []string{"AM_1"})
	doc.Put("B", []string{"AM_9"})
	doc.Put("A", []string{"AM_1", "PM_2_Y"})

	want := Document{Senders: []Record{
		{SenderName: "A", GeneratedKeys: []string{"AM_1", "PM_2_Y"}},
		{SenderName: "B", GeneratedKeys: []string{"AM_9"}},
	}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentRemove(t *testing.T) {
	doc := Document{Senders: []Record{
		{SenderName: "A", GeneratedKeys: []string{"AM_1"}},
		{SenderName: "B", GeneratedKeys: []string{"AM_2"}},
	}}

	if !doc.Remove("A") {
		t.Fatalf("expected A to be removed")
	}
	if doc.Remove("A") {
		t.Fatalf("second remove should report nothing removed")
	}
	if diff := cmp.Diff([]string{"B"}, doc.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestWrap(t *testing.T) {
	if Wrap("saving", nil) != nil {
		t.Fatalf("wrapping nil should return nil")
	}
	cause := errors.New("disk full")
	err := Wrap("saving", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("wrapped error should match both ErrStorage and the cause: %v", err)
	}
}
