// internal/transport/serialcomm.go
package transport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goburrow/serial"
)

// DefaultSerialComm is the framing used when the caller gives none.
const DefaultSerialComm = "115200/8n1"

var (
	ErrSerialCommFormat   = errors.New("serialcomm: expected <baud>/<bits><parity><stop>")
	ErrSerialCommBaud     = errors.New("serialcomm: invalid baud rate")
	ErrSerialCommDataBits = errors.New("serialcomm: invalid data bits")
	ErrSerialCommParity   = errors.New("serialcomm: invalid parity")
	ErrSerialCommStopBits = errors.New("serialcomm: invalid stop bits")
)

// ParseSerialComm parses a "115200/8n1" style framing string.
// Address and Timeout of the returned config are left zero.
func ParseSerialComm(s string) (serial.Config, error) {
	var cfg serial.Config

	baud, frame, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || len(frame) != 3 {
		return cfg, fmt.Errorf("%w: %q", ErrSerialCommFormat, s)
	}

	b, err := strconv.Atoi(baud)
	if err != nil || b <= 0 {
		return cfg, fmt.Errorf("%w: %q", ErrSerialCommBaud, baud)
	}
	cfg.BaudRate = b

	switch frame[0] {
	case '5', '6', '7', '8':
		cfg.DataBits = int(frame[0] - '0')
	default:
		return cfg, fmt.Errorf("%w: %q", ErrSerialCommDataBits, frame[0:1])
	}

	switch frame[1] {
	case 'n', 'N':
		cfg.Parity = "N"
	case 'e', 'E':
		cfg.Parity = "E"
	case 'o', 'O':
		cfg.Parity = "O"
	default:
		return cfg, fmt.Errorf("%w: %q", ErrSerialCommParity, frame[1:2])
	}

	switch frame[2] {
	case '1', '2':
		cfg.StopBits = int(frame[2] - '0')
	default:
		return cfg, fmt.Errorf("%w: %q", ErrSerialCommStopBits, frame[2:3])
	}

	return cfg, nil
}
