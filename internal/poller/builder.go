// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/modbus-instrument/internal/config"
)

// BuildConfig converts the acquisition section of the config into the
// poller runtime config. Session limits are not part of it: they are set
// on the instance through the configuration interface.
func BuildConfig(a cfg.AcquisitionConfig, sink Sink, sched Scheduler, onError func(error)) Config {
	return Config{
		Interval:  time.Duration(a.IntervalMs) * time.Millisecond,
		Scheduler: sched,
		Sink:      sink,
		OnError:   onError,
	}
}
