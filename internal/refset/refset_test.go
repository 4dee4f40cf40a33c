package refset_test

import (
	"reflect"
	"testing"

	"reel/internal/refset"
)

func TestAddKeepsFirstInsertionOrder(t *testing.T) {
	t.Parallel()

	s := refset.New()
	for _, name := range []string{"a.png", "b.png", "a.png", "c.png", "b.png"} {
		s.Add(name)
	}
	want := []string{"a.png", "b.png", "c.png"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestAddSanitizesPaths(t *testing.T) {
	t.Parallel()

	s := refset.New()
	if !s.Add("gallery/outputs/hero.png") {
		t.Fatal("expected add to succeed")
	}
	if s.Add(`C:\gallery\hero.png`) {
		t.Fatal("expected sanitized duplicate to be rejected")
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"hero.png"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := refset.New("a.png", "b.png", "c.png")
	if !s.Remove("b.png") {
		t.Fatal("expected remove to report change")
	}
	if s.Remove("missing.png") {
		t.Fatal("expected remove of absent name to be a no-op")
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"a.png", "c.png"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestMoveBounds(t *testing.T) {
	t.Parallel()

	s := refset.New("a.png", "b.png", "c.png")
	if s.MoveUp(0) {
		t.Fatal("MoveUp(0) must be a no-op")
	}
	if s.MoveDown(2) {
		t.Fatal("MoveDown on last entry must be a no-op")
	}
	if s.MoveUp(5) || s.MoveDown(-1) {
		t.Fatal("out-of-range moves must be no-ops")
	}
	if !s.MoveUp(2) {
		t.Fatal("MoveUp(2) should swap")
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"a.png", "c.png", "b.png"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestReplaceFromText(t *testing.T) {
	t.Parallel()

	s := refset.New("stale.png")
	s.ReplaceFromText("a.png, b.png\nA/B/c.png\n\n ,a.png")
	want := []string{"a.png", "b.png", "c.png"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestMergeInboxIdempotent(t *testing.T) {
	t.Parallel()

	s := refset.New("a.png")
	if added := s.MergeInbox([]string{"x.png", "a.png"}); added != 1 {
		t.Fatalf("first merge added %d, want 1", added)
	}
	want := s.Names()
	if added := s.MergeInbox([]string{"x.png", "a.png"}); added != 0 {
		t.Fatalf("second merge added %d, want 0", added)
	}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("repeated merge changed set: %v vs %v", got, want)
	}
}
