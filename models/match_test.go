package models

import "testing"

func TestCanonicalPair(t *testing.T) {
	low, high := CanonicalPair("bob", "alice")
	if low != "alice" || high != "bob" {
		t.Fatalf("expected (alice, bob), got (%s, %s)", low, high)
	}

	low2, high2 := CanonicalPair("alice", "bob")
	if low2 != low || high2 != high {
		t.Fatalf("canonical order must not depend on argument order")
	}
}

func TestMatchOtherUser(t *testing.T) {
	m := Match{UserLow: "alice", UserHigh: "bob"}
	if got := m.OtherUser("alice"); got != "bob" {
		t.Fatalf("expected bob, got %s", got)
	}
	if got := m.OtherUser("bob"); got != "alice" {
		t.Fatalf("expected alice, got %s", got)
	}
}

func TestIsValidMood(t *testing.T) {
	for _, mood := range Moods {
		if !IsValidMood(mood) {
			t.Fatalf("%s should be valid", mood)
		}
	}
	if IsValidMood("Grumpy") {
		t.Fatalf("Grumpy is not a known mood")
	}
	if IsValidMood("") {
		t.Fatalf("empty mood is not valid")
	}
	if IsValidMood("happy") {
		t.Fatalf("moods are case sensitive")
	}
}
