package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/vaultstamp/vaultstamp/internal/journal"
)

// Publish runs on whatever goroutine fired a debounce timer, so several
// broadcasts can race each other while the hub is dropping slow clients.
// Every client here has a full one-slot buffer, forcing each Publish to
// disconnect it while the other publishers are still sending.
func TestConcurrentPublish_SlowClients_NoPanic(t *testing.T) {
	h := New(journal.New())

	const clients = 300
	for i := 0; i < clients; i++ {
		c := &client{send: make(chan []byte, 1)}
		c.send <- []byte("backlog")
		h.register(c)
	}

	entry := journal.Entry{
		Path:      "notes/today.md",
		Key:       "updated",
		Value:     "2024-03-07 14:05:09",
		StampedAt: time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC),
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Publish(entry)
			}
		}()
	}
	wg.Wait()

	if got := h.Count(); got != 0 {
		t.Errorf("clients still registered after broadcasts = %d, want 0", got)
	}
}

// Dropping the same client from two goroutines must close its channel once.
func TestUnregister_Concurrent_ClosesOnce(t *testing.T) {
	h := New(journal.New())

	c := &client{send: make(chan []byte, 1)}
	h.register(c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.unregister(c)
		}()
	}
	wg.Wait()

	if ok := c.trySend([]byte("late")); ok {
		t.Error("trySend after unregister = true, want false")
	}
	if got := h.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}
