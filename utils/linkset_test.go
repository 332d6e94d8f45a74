package utils

import "testing"

func link(s string) *string { return &s }

func TestLinkSetNoDuplicates(t *testing.T) {
	s := NewLinkSet()

	if !s.Add(link("/imovel/1")) {
		t.Error("first Add should return true")
	}
	if s.Add(link("/imovel/1")) {
		t.Error("second Add of same link should return false")
	}
	if !s.Contains(link("/imovel/1")) {
		t.Error("Contains should report an added link")
	}
	if s.Unique() != 1 {
		t.Errorf("Unique: got %d, want 1", s.Unique())
	}
}

func TestLinkSetMissingLink(t *testing.T) {
	s := NewLinkSet()

	if s.Contains(nil) {
		t.Error("empty set should not contain a missing link")
	}
	if !s.Add(nil) {
		t.Error("first missing link should be added")
	}
	if s.Add(nil) {
		t.Error("second missing link should be a duplicate")
	}
	if s.Unique() != 0 {
		t.Errorf("Unique should not count missing links, got %d", s.Unique())
	}
}
