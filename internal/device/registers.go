// internal/device/registers.go
package device

// Register is one named address on the RD60xx holding-register map.
// Width is the number of 16-bit words (1 or 2).
type Register struct {
	Name    string
	Address uint16
	Width   uint16
}

// Holding-register addresses. Descriptive only, never mutated.
const (
	RegModel            uint16 = 0
	RegSerial           uint16 = 1  // two registers
	RegFirmware         uint16 = 3
	RegTempInternal     uint16 = 4  // two registers: sign, magnitude
	RegTempInternalF    uint16 = 6  // two registers
	RegVoltageTarget    uint16 = 8
	RegCurrentLimit     uint16 = 9
	RegVoltage          uint16 = 10
	RegCurrent          uint16 = 11
	RegPower            uint16 = 13
	RegInputVoltage     uint16 = 14
	RegProtectionStatus uint16 = 16 // bit0 OVP, bit1 OCP
	RegRegulationStatus uint16 = 17 // 0 CV, 1 CC
	RegEnable           uint16 = 18
	RegBatteryMode      uint16 = 32
	RegBatteryVoltage   uint16 = 33
	RegTempExternal     uint16 = 34 // two registers: sign, magnitude
	RegTempExternalF    uint16 = 36 // two registers
	RegCapacity         uint16 = 38 // two registers
	RegEnergy           uint16 = 40 // two registers
	RegDateYear         uint16 = 48
	RegDateMonth        uint16 = 49
	RegDateDay          uint16 = 50
	RegTimeHour         uint16 = 51
	RegTimeMin          uint16 = 52
	RegTimeSec          uint16 = 53
	RegBacklight        uint16 = 72
	RegOVPThreshold     uint16 = 82
	RegOCPThreshold     uint16 = 83
)

// Protection status bits.
const (
	ProtectionOVP uint16 = 1 << 0
	ProtectionOCP uint16 = 1 << 1
)

// IdentBlock is the fixed identification read: model, serial (2), firmware.
const IdentBlock uint16 = 4

// RegisterMap lists every register of the RD60xx family in address order.
var RegisterMap = [...]Register{
	{"model", RegModel, 1},
	{"serial", RegSerial, 2},
	{"firmware", RegFirmware, 1},
	{"temp_internal", RegTempInternal, 2},
	{"temp_internal_f", RegTempInternalF, 2},
	{"voltage_target", RegVoltageTarget, 1},
	{"current_limit", RegCurrentLimit, 1},
	{"voltage", RegVoltage, 1},
	{"current", RegCurrent, 1},
	{"power", RegPower, 1},
	{"input_voltage", RegInputVoltage, 1},
	{"protection_status", RegProtectionStatus, 1},
	{"regulation_status", RegRegulationStatus, 1},
	{"enable", RegEnable, 1},
	{"battery_mode", RegBatteryMode, 1},
	{"battery_voltage", RegBatteryVoltage, 1},
	{"temp_external", RegTempExternal, 2},
	{"temp_external_f", RegTempExternalF, 2},
	{"capacity", RegCapacity, 2},
	{"energy", RegEnergy, 2},
	{"date_year", RegDateYear, 1},
	{"date_month", RegDateMonth, 1},
	{"date_day", RegDateDay, 1},
	{"time_hour", RegTimeHour, 1},
	{"time_min", RegTimeMin, 1},
	{"time_sec", RegTimeSec, 1},
	{"backlight", RegBacklight, 1},
	{"ovp_threshold", RegOVPThreshold, 1},
	{"ocp_threshold", RegOCPThreshold, 1},
}

// LookupRegister returns the map entry at addr.
func LookupRegister(addr uint16) (Register, bool) {
	for _, r := range RegisterMap {
		if r.Address == addr {
			return r, true
		}
	}
	return Register{}, false
}
