// internal/status/snapshot.go
package status

// Snapshot is exactly what the status writer delivers.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	Samples        uint32
}

// Tracker owns the snapshot of one instrument and applies the health
// transitions. Each method reports whether the snapshot changed.
// Not safe for concurrent use.
type Tracker struct {
	snap Snapshot
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Reset returns to the boot state at stream start.
func (t *Tracker) Reset() bool {
	changed := t.snap != Snapshot{}
	t.snap = Snapshot{Health: HealthUnknown}
	return changed
}

// Frame records one delivered frame: healthy, error state cleared.
func (t *Tracker) Frame() bool {
	prev := t.snap
	t.snap.Health = HealthOK
	t.snap.LastErrorCode = 0
	t.snap.SecondsInError = 0
	t.snap.Samples++
	return t.snap != prev
}

// Error records a failed tick. seconds_in_error advances on Tick only.
func (t *Tracker) Error(code uint16) bool {
	prev := t.snap
	t.snap.Health = HealthError
	t.snap.LastErrorCode = code
	return t.snap != prev
}

// Stale marks the stream as ended.
func (t *Tracker) Stale() bool {
	prev := t.snap
	t.snap.Health = HealthStale
	return t.snap != prev
}

// Tick advances seconds_in_error by one while the instrument is unhealthy.
// The counter saturates; it never wraps.
func (t *Tracker) Tick() bool {
	switch t.snap.Health {
	case HealthOK, HealthStale, HealthDisabled:
		return false
	}
	if t.snap.SecondsInError == 0xFFFF {
		return false
	}
	t.snap.SecondsInError++
	return true
}
