package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// IPv4Address is an IPv4 address in network byte order.
type IPv4Address [4]byte

// ParseIPv4 parses a dotted-decimal IPv4 address. Each of the four
// components must be a decimal integer in [0,255]; leading zeros are
// accepted and read as decimal.
func ParseIPv4(s string) (IPv4Address, error) {
	var addr IPv4Address

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return addr, fmt.Errorf("%w: %q has %d components, want 4", ErrAddressFormat, s, len(parts))
	}

	for i, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return addr, fmt.Errorf("%w: %q component %d is not a decimal integer", ErrAddressFormat, s, i+1)
		}
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return addr, fmt.Errorf("%w: %q component %d out of range 0-255", ErrAddressFormat, s, i+1)
		}
		addr[i] = byte(n)
	}

	return addr, nil
}

// ParseAddressPair parses address-source text holding exactly two
// whitespace-separated addresses: source first, destination second.
func ParseAddressPair(text string) (src, dst IPv4Address, err error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return src, dst, fmt.Errorf("%w: expected 2 addresses, found %d", ErrAddressFormat, len(fields))
	}

	if src, err = ParseIPv4(fields[0]); err != nil {
		return src, dst, err
	}
	if dst, err = ParseIPv4(fields[1]); err != nil {
		return src, dst, err
	}
	return src, dst, nil
}

// String returns the dotted-decimal form.
func (a IPv4Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}
