package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", "value")
	got, ok := c.Get("a")
	if !ok || got != "value" {
		t.Errorf("expected hit with value, got %q %v", got, ok)
	}
}

func TestNonPositiveTTL(t *testing.T) {
	c := New[int](0)

	c.Set("a", 1)
	if got, ok := c.Get("a"); !ok || got != 1 {
		t.Errorf("expected a usable cache with zero TTL, got %d %v", got, ok)
	}

	c = New[int](-time.Minute)
	c.Set("b", 2)
	if _, ok := c.Get("b"); !ok {
		t.Error("expected a usable cache with negative TTL")
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](20 * time.Millisecond)

	c.Set("a", 1)
	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestDelete(t *testing.T) {
	c := New[int](time.Minute)

	c.Set("a", 1)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Error("expected deleted entry to miss")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := New[int](time.Minute)

	c.Set("user-1:metrics", 1)
	c.Set("user-1:revenue:6", 2)
	c.Set("user-2:metrics", 3)

	c.DeletePrefix("user-1:")

	if _, ok := c.Get("user-1:metrics"); ok {
		t.Error("expected user-1 metrics dropped")
	}
	if _, ok := c.Get("user-1:revenue:6"); ok {
		t.Error("expected user-1 revenue dropped")
	}
	if _, ok := c.Get("user-2:metrics"); !ok {
		t.Error("expected user-2 entry kept")
	}
}
