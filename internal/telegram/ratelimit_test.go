package telegram

import "testing"

func TestLimiterAllow(t *testing.T) {
	rl := NewLimiter(3)
	defer rl.Stop()

	const chatID = int64(1001)
	for i := 0; i < 3; i++ {
		if !rl.Allow(chatID) {
			t.Fatalf("message %d should be allowed", i+1)
		}
	}
	if rl.Allow(chatID) {
		t.Error("message over the limit should be rejected")
	}
}

func TestLimiterIsPerChat(t *testing.T) {
	rl := NewLimiter(1)
	defer rl.Stop()

	if !rl.Allow(1) {
		t.Fatal("first message from chat 1 should be allowed")
	}
	if rl.Allow(1) {
		t.Error("second message from chat 1 should be rejected")
	}
	if !rl.Allow(2) {
		t.Error("chat 2 should have its own budget")
	}
	if rl.ActiveChats() != 2 {
		t.Errorf("ActiveChats = %d, want 2", rl.ActiveChats())
	}
}

func TestLimiterDefaultsOnBadConfig(t *testing.T) {
	rl := NewLimiter(0)
	defer rl.Stop()

	if !rl.Allow(1) {
		t.Error("limiter with defaulted config should allow messages")
	}
}
