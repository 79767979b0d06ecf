package batch

import "errors"

// Batch-related errors.
var (
	// ErrNoItems indicates a source that yielded nothing to validate
	ErrNoItems = errors.New("no address/data pairs found")

	// ErrInvalidWorkers indicates the worker count is out of range
	ErrInvalidWorkers = errors.New("workers must be between 1 and 256")

	// ErrNotIPv4 indicates a datagram that is not an IPv4 packet
	ErrNotIPv4 = errors.New("not an IPv4 datagram")

	// ErrNotTCP indicates an IPv4 datagram that does not carry TCP
	ErrNotTCP = errors.New("IPv4 datagram does not carry TCP")

	// ErrFragment indicates an IPv4 fragment, which holds only part of
	// a segment
	ErrFragment = errors.New("IPv4 fragment cannot be validated on its own")

	// ErrTruncatedCapture indicates a packet captured with a snap length
	// shorter than the packet
	ErrTruncatedCapture = errors.New("packet truncated by capture snap length")
)
