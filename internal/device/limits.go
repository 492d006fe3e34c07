// internal/device/limits.go
package device

import (
	"sync"
	"time"
)

// Limits are the software session limits that end an acquisition.
// A zero limit is unset and never trips. Counters only grow until
// AcquisitionStart resets them.
type Limits struct {
	mu sync.Mutex

	maxSamples  uint64
	maxMsec     uint64
	samplesRead uint64
	start       time.Time

	now func() time.Time
}

// NewLimits returns unset limits using the wall clock.
func NewLimits() *Limits {
	return &Limits{now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (l *Limits) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *Limits) SetMaxSamples(n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxSamples = n
}

func (l *Limits) SetMaxMsec(ms uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxMsec = ms
}

func (l *Limits) MaxSamples() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxSamples
}

func (l *Limits) MaxMsec() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxMsec
}

// SamplesRead is the number of frames emitted since AcquisitionStart.
func (l *Limits) SamplesRead() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.samplesRead
}

// AcquisitionStart resets counters and arms the start time.
func (l *Limits) AcquisitionStart() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samplesRead = 0
	l.start = l.now()
}

// UpdateSamplesRead adds n emitted samples.
func (l *Limits) UpdateSamplesRead(n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samplesRead += n
}

// Check reports whether any configured limit has been reached.
func (l *Limits) Check() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxSamples > 0 && l.samplesRead >= l.maxSamples {
		return true
	}
	if l.maxMsec > 0 && !l.start.IsZero() {
		elapsed := l.now().Sub(l.start)
		if elapsed >= time.Duration(l.maxMsec)*time.Millisecond {
			return true
		}
	}
	return false
}
