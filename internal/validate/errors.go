package validate

import "errors"

// Validation errors. They are always caller-input errors, never transient.
var (
	// ErrAddressFormat indicates address text that is not a dotted-decimal
	// IPv4 address, or an address source without exactly two addresses
	ErrAddressFormat = errors.New("malformed IPv4 address")

	// ErrSegmentTooShort indicates a segment too short to hold the checksum
	// field at offset 16
	ErrSegmentTooShort = errors.New("TCP segment too short to contain a checksum")

	// ErrSegmentTooLong indicates a segment whose length does not fit the
	// 16-bit pseudo-header length field
	ErrSegmentTooLong = errors.New("TCP segment longer than 65535 bytes")
)

// IsAddressFormat returns true if the error is an address parsing error.
func IsAddressFormat(err error) bool {
	return errors.Is(err, ErrAddressFormat)
}

// IsSegmentTooShort returns true if the error indicates an undersized segment.
func IsSegmentTooShort(err error) bool {
	return errors.Is(err, ErrSegmentTooShort)
}
