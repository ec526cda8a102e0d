package rate

import (
	"testing"
	"time"
)

func TestLimiterBlocksOverLimit(t *testing.T) {
	l := NewLimiter()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, time.Minute) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k", 3, time.Minute) {
		t.Fatal("fourth attempt should be blocked")
	}
	if !l.Allow("other", 3, time.Minute) {
		t.Fatal("different key must not be affected")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	l := NewLimiter()
	if !l.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("second attempt inside the window should be blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("attempt after the window should be allowed")
	}
}
