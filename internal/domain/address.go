package domain

import (
	"fmt"
	"strconv"
)

// MaxAddressDigits is the longest accepted hex address.
const MaxAddressDigits = 4

// ParseAddress parses a 16-bit address written as 1 to 4 hex digits with no
// 0x or $ prefix.
func ParseAddress(s string) (uint16, error) {
	if len(s) == 0 || len(s) > MaxAddressDigits {
		return 0, &Error{Kind: KindInvalidAddress, Msg: s}
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, &Error{Kind: KindInvalidAddress, Msg: s}
	}
	return uint16(v), nil
}

// FormatAddress renders an address as 4 upper-case hex digits.
func FormatAddress(a uint16) string {
	return fmt.Sprintf("%04X", a)
}
