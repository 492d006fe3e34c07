// internal/poller/runner.go
package poller

import (
	"sync"
	"time"
)

// Scheduler is the event source that drives poll ticks.
// fn may run before Every returns. The returned cancel stops future
// ticks; it does not interrupt a tick in flight and must be safe to call
// from inside fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// TickerScheduler runs fn from one goroutine per registration.
// No overlap. No retries.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// cancel wins over a tick that raced with it
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}
