package telegram

import (
	"sync"
	"time"
)

// Limiter rate-limits message handling per chat so one chat spamming the
// bot cannot exhaust the store's API quota.
type Limiter struct {
	mu           sync.Mutex
	chats        map[int64]*chatInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	messagesPerMinute int
	cleanupInterval   time.Duration
}

type chatInfo struct {
	lastMessage time.Time
	messages    int
}

// NewLimiter creates a per-chat rate limiter allowing messagesPerMinute
// messages in any rolling minute.
func NewLimiter(messagesPerMinute int) *Limiter {
	if messagesPerMinute <= 0 {
		messagesPerMinute = 20
	}

	rl := &Limiter{
		chats:             make(map[int64]*chatInfo),
		stopCleanup:       make(chan struct{}),
		messagesPerMinute: messagesPerMinute,
		cleanupInterval:   5 * time.Minute,
	}
	go rl.startCleanup()
	return rl
}

// Allow checks if a message from the given chat should be handled
func (rl *Limiter) Allow(chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	chat, exists := rl.chats[chatID]

	if !exists {
		rl.chats[chatID] = &chatInfo{
			lastMessage: now,
			messages:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(chat.lastMessage) > time.Minute {
		chat.messages = 1
		chat.lastMessage = now
		return true
	}

	chat.messages++
	chat.lastMessage = now

	return chat.messages <= rl.messagesPerMinute
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes chat entries idle for more than 10 minutes
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for id, chat := range rl.chats {
		if chat.lastMessage.Before(cutoff) {
			delete(rl.chats, id)
		}
	}
}

// ActiveChats returns the number of currently tracked chats
func (rl *Limiter) ActiveChats() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.chats)
}

// Stop gracefully shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
