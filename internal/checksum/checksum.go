// Package checksum implements the Internet checksum (RFC 1071).
package checksum

// Checksum calculates the Internet Checksum (RFC 1071) over data.
// Words are read big-endian; an odd trailing byte is summed as if followed
// by a zero byte. data is never modified.
func Checksum(data []byte) uint16 {
	return ^fold(sum(data))
}

// Verify reports whether data, which already carries its checksum in place,
// sums to 0xFFFF.
func Verify(data []byte) bool {
	return fold(sum(data)) == 0xffff
}

// sum adds all 16-bit big-endian words of data into a 64-bit accumulator,
// which cannot overflow for any slice that fits in memory.
func sum(data []byte) uint64 {
	var s uint64

	for i := 0; i < len(data)-1; i += 2 {
		s += uint64(data[i])<<8 | uint64(data[i+1])
	}

	// Left-over byte is the high half of a zero-padded word
	if len(data)%2 == 1 {
		s += uint64(data[len(data)-1]) << 8
	}

	return s
}

// fold applies end-around carry until the sum fits in 16 bits.
func fold(s uint64) uint16 {
	for s > 0xffff {
		s = (s >> 16) + (s & 0xffff)
	}
	return uint16(s)
}
