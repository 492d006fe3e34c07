// internal/publisher/options.go
package publisher

import (
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/modbus-instrument/internal/config"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultMaxInflightFrames = 64
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultKeepAlive         = 30 * time.Second
	maxReconnectInterval     = 30 * time.Second
)

// buildClientOptions maps the mqtt config section onto paho options.
// The will marks the instrument offline on its retained state topic.
func buildClientOptions(cfg config.MQTTConfig, serial string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID + "-" + serial)

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetMaxReconnectInterval(maxReconnectInterval)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	opts.SetWill(StateTopic(cfg.TopicPrefix, serial), string(statePayload(StateOffline, "", time.Time{})), 1, true)

	return opts
}
