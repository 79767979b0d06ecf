// Package validate checks the TCP checksum of captured segments against a
// recomputation over the IPv4 pseudo-header and the segment.
package validate

import (
	"encoding/binary"
	"fmt"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/checksum"
)

const (
	// ProtocolTCP is the IP protocol number carried in the pseudo-header.
	ProtocolTCP = 6

	// PseudoHeaderLen is the size of the IPv4 pseudo-header.
	PseudoHeaderLen = 12

	// ChecksumOffset is the offset of the checksum field in a TCP header.
	// The field sits in the fixed part of the header, so it does not depend
	// on the data offset.
	ChecksumOffset = 16

	// MinSegmentLen is the shortest segment whose checksum field can be read.
	MinSegmentLen = ChecksumOffset + 2

	// MaxSegmentLen is the largest length the pseudo-header can describe.
	MaxSegmentLen = 0xffff
)

// Verdict is the outcome of comparing the embedded and computed checksums.
type Verdict int

const (
	// Fail means the checksums differ or the segment could not be checked
	Fail Verdict = iota
	// Pass means the embedded checksum matches the recomputed one
	Pass
)

// String returns "PASS" or "FAIL".
func (v Verdict) String() string {
	if v == Pass {
		return "PASS"
	}
	return "FAIL"
}

// PseudoHeader is the IPv4 pseudo-header prepended to a TCP segment for
// checksum computation.
type PseudoHeader [PseudoHeaderLen]byte

// NewPseudoHeader builds source(4) + destination(4) + zero + protocol(6) +
// TCP length (big-endian).
func NewPseudoHeader(src, dst IPv4Address, tcpLength int) PseudoHeader {
	var ph PseudoHeader
	copy(ph[0:4], src[:])
	copy(ph[4:8], dst[:])
	ph[8] = 0
	ph[9] = ProtocolTCP
	binary.BigEndian.PutUint16(ph[10:12], uint16(tcpLength))
	return ph
}

// Result holds the details of one checksum validation.
type Result struct {
	Source      IPv4Address
	Destination IPv4Address
	Length      int
	Embedded    uint16
	Computed    uint16
	Verdict     Verdict
}

// EmbeddedChecksum returns the big-endian checksum stored at bytes [16,18).
func EmbeddedChecksum(segment []byte) (uint16, error) {
	if len(segment) < MinSegmentLen {
		return 0, fmt.Errorf("%w: %d bytes, need at least %d", ErrSegmentTooShort, len(segment), MinSegmentLen)
	}
	return binary.BigEndian.Uint16(segment[ChecksumOffset : ChecksumOffset+2]), nil
}

// Check recomputes the checksum of segment for the given addresses and
// compares it to the embedded one. segment is not modified. On error the
// returned Result has Verdict Fail.
func Check(src, dst IPv4Address, segment []byte) (Result, error) {
	result := Result{
		Source:      src,
		Destination: dst,
		Length:      len(segment),
		Verdict:     Fail,
	}

	embedded, err := EmbeddedChecksum(segment)
	if err != nil {
		return result, err
	}
	if len(segment) > MaxSegmentLen {
		return result, fmt.Errorf("%w: %d bytes", ErrSegmentTooLong, len(segment))
	}
	result.Embedded = embedded

	ph := NewPseudoHeader(src, dst, len(segment))

	buf := make([]byte, PseudoHeaderLen+len(segment))
	copy(buf, ph[:])
	copy(buf[PseudoHeaderLen:], segment)

	// Zero the checksum field in the copy only
	field := PseudoHeaderLen + ChecksumOffset
	buf[field] = 0
	buf[field+1] = 0

	result.Computed = checksum.Checksum(buf)
	if result.Computed == result.Embedded {
		result.Verdict = Pass
	}

	return result, nil
}

// Validate parses the two dotted-decimal addresses and checks segment.
func Validate(srcIP, dstIP string, segment []byte) (Verdict, error) {
	src, err := ParseIPv4(srcIP)
	if err != nil {
		return Fail, fmt.Errorf("source address: %w", err)
	}

	dst, err := ParseIPv4(dstIP)
	if err != nil {
		return Fail, fmt.Errorf("destination address: %w", err)
	}

	result, err := Check(src, dst, segment)
	return result.Verdict, err
}
