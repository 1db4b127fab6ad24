package services

import (
	"sync"
	"time"
)

// Refresher runs a callback on a fixed interval until stopped. It backs
// the one-second countdown/search refresh and exists so the tick can be
// torn down cleanly when a session ends, instead of leaking a global
// timer.
type Refresher struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewRefresher starts the tick immediately.
func NewRefresher(interval time.Duration, fn func(now time.Time)) *Refresher {
	r := &Refresher{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				fn(now)
			case <-r.stop:
				return
			}
		}
	}()

	return r
}

// Stop cancels the tick and waits for the loop to exit. Safe to call
// more than once.
func (r *Refresher) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	<-r.done
}
