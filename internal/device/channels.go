// internal/device/channels.go
package device

// ChannelKind classifies a channel.
type ChannelKind int

const (
	ChannelAnalog ChannelKind = iota
	ChannelLogic
)

// Channel is one named measurement channel.
type Channel struct {
	Index   int
	Name    string
	Kind    ChannelKind
	Enabled bool
}

// ChannelGroup scopes configuration calls on multi-channel hardware.
type ChannelGroup struct {
	Name     string
	Channels []*Channel
}

// Channel names in emission order. Capacity ("C") is computed by the
// poller but has no channel.
const (
	ChanVoltage = "V"
	ChanCurrent = "I"
	ChanPower   = "P"
	ChanEnergy  = "E"
	ChanTemp1   = "T1"
	ChanTemp2   = "T2"
)

var powerSupplyChannels = [...]string{ChanVoltage, ChanCurrent, ChanPower, ChanEnergy, ChanTemp1, ChanTemp2}

// powerSupplyTopology builds the single group "1" holding every analog channel.
func powerSupplyTopology() ([]*Channel, []*ChannelGroup) {
	chs := make([]*Channel, 0, len(powerSupplyChannels))
	for i, name := range powerSupplyChannels {
		chs = append(chs, &Channel{Index: i, Name: name, Kind: ChannelAnalog, Enabled: true})
	}
	return chs, []*ChannelGroup{{Name: "1", Channels: chs}}
}
