// internal/publisher/payload.go
package publisher

import (
	"encoding/json"
	"math"
	"time"

	"github.com/tamzrod/modbus-instrument/internal/poller"
)

// Stream states published on the state topic.
const (
	StateRunning = "running"
	StateStopped = "stopped"
	StateOffline = "offline"
)

// FrameTopic is where completed frames are published.
func FrameTopic(prefix, serial string) string { return prefix + "/" + serial + "/frame" }

// StateTopic carries the retained stream state.
func StateTopic(prefix, serial string) string { return prefix + "/" + serial + "/state" }

// ChannelValue is one channel inside a frame payload.
type ChannelValue struct {
	Channel  string  `json:"channel"`
	Quantity string  `json:"quantity"`
	Unit     string  `json:"unit"`
	Value    float64 `json:"value"`
}

// FramePayload is the JSON document of one frame.
type FramePayload struct {
	Model     string         `json:"model"`
	Serial    string         `json:"serial"`
	Timestamp time.Time      `json:"timestamp"`
	Channels  []ChannelValue `json:"channels"`
}

// StatePayload is the JSON document on the state topic.
type StatePayload struct {
	State     string     `json:"state"`
	Model     string     `json:"model,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

func channelValue(a *poller.Analog) ChannelValue {
	// display digits; drops float noise such as 12.340000000000002
	p := math.Pow10(a.Digits)
	return ChannelValue{
		Channel:  a.Channel.Name,
		Quantity: a.Quantity.String(),
		Unit:     a.Unit.String(),
		Value:    math.Round(a.Value*p) / p,
	}
}

// statePayload encodes a state document; a zero at omits the timestamp.
func statePayload(state, model string, at time.Time) []byte {
	sp := StatePayload{State: state, Model: model}
	if !at.IsZero() {
		ts := at.UTC()
		sp.Timestamp = &ts
	}
	b, _ := json.Marshal(sp) // strings and a time only; cannot fail
	return b
}
