// internal/status/constants.go
package status

// Instrument status block layout.
// These values define the mirror protocol and are not configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per instrument block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the acquisition health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last transport error code
// (Modbus exception code, or 1 when the error carries none).
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (seconds) the instrument has been unhealthy.
const SlotSecondsInError = 2

// SlotSamplesHi and SlotSamplesLo hold the frames mirrored since the
// stream start, high word first.
const (
	SlotSamplesHi = 3
	SlotSamplesLo = 4
)

// ---- RESERVED RANGE ----

// Slots 5-10 are reserved and always written as zero.
const (
	SlotReservedStart = 5
	SlotReservedEnd   = 10
)

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot of the device name.
// The name always sits at the end of the block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last device name slot (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

const (
	HealthUnknown  uint16 = 0 // boot, or stream started with no frame yet
	HealthOK       uint16 = 1
	HealthError    uint16 = 2 // last tick failed
	HealthStale    uint16 = 3 // stream ended
	HealthDisabled uint16 = 4
)
