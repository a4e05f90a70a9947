package domain

import (
	"fmt"
	"strconv"
)

const (
	// MaxDevice is the highest IEEE-488 primary address a device can use.
	MaxDevice = 30

	// DefaultDevice is the address the PET loader listens on.
	DefaultDevice DeviceAddress = 30
)

// DeviceAddress is the bus target identifier, always within [0, MaxDevice].
type DeviceAddress uint8

// ParseDevice parses a decimal device id.
func ParseDevice(s string) (DeviceAddress, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, &Error{Kind: KindInvalidDevice, Msg: s}
	}
	if v > MaxDevice {
		return 0, &Error{
			Kind: KindInvalidDevice,
			Msg:  fmt.Sprintf("device ID must be between 0 and %d, got %d", MaxDevice, v),
		}
	}
	return DeviceAddress(v), nil
}

func (d DeviceAddress) String() string {
	return strconv.Itoa(int(d))
}
