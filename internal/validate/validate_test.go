package validate

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/checksum"
)

// seal returns a copy of segment carrying the correct checksum for src/dst.
func seal(t *testing.T, src, dst string, segment []byte) []byte {
	t.Helper()

	s, err := ParseIPv4(src)
	require.NoError(t, err)
	d, err := ParseIPv4(dst)
	require.NoError(t, err)

	out := append([]byte{}, segment...)
	out[16], out[17] = 0, 0

	ph := NewPseudoHeader(s, d, len(out))
	sum := checksum.Checksum(append(ph[:], out...))
	binary.BigEndian.PutUint16(out[16:18], sum)
	return out
}

// serializeTCP builds an IPv4/TCP packet with gopacket and returns the TCP
// segment with the checksum gopacket computed.
func serializeTCP(t *testing.T, src, dst string, payload []byte) []byte {
	t.Helper()

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
	tcp := &layers.TCP{
		SrcPort: 43210,
		DstPort: 443,
		Seq:     0x01020304,
		Ack:     0x0a0b0c0d,
		ACK:     true,
		PSH:     true,
		Window:  65535,
	}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, tcp, gopacket.Payload(payload)))

	return append([]byte{}, buf.Bytes()[20:]...)
}

func TestNewPseudoHeader(t *testing.T) {
	src := IPv4Address{192, 168, 1, 1}
	dst := IPv4Address{10, 0, 0, 2}

	ph := NewPseudoHeader(src, dst, 0x0123)

	want := PseudoHeader{192, 168, 1, 1, 10, 0, 0, 2, 0x00, 0x06, 0x01, 0x23}
	assert.Equal(t, want, ph)
}

func TestEmbeddedChecksum(t *testing.T) {
	segment := make([]byte, 20)
	segment[16], segment[17] = 0xab, 0xcd

	sum, err := EmbeddedChecksum(segment)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xabcd), sum)

	_, err = EmbeddedChecksum(segment[:17])
	assert.True(t, IsSegmentTooShort(err))
}

func TestCheckMinimumSegment(t *testing.T) {
	// 18 zero bytes; pseudo-header sum is 0x141b
	segment := make([]byte, 18)
	segment[16], segment[17] = 0xeb, 0xe4

	verdict, err := Validate("10.0.0.1", "10.0.0.2", segment)
	require.NoError(t, err)
	assert.Equal(t, Pass, verdict)

	verdict, err = Validate("10.0.0.1", "10.0.0.3", segment)
	require.NoError(t, err)
	assert.Equal(t, Fail, verdict)
}

func TestCheckZeroSegment(t *testing.T) {
	src, dst, err := ParseAddressPair("192.168.1.1 192.168.1.2")
	require.NoError(t, err)

	segment := make([]byte, 20)
	segment[16], segment[17] = 0x7c, 0x91

	result, err := Check(src, dst, segment)
	require.NoError(t, err)
	assert.Equal(t, Pass, result.Verdict)
	assert.Equal(t, uint16(0x7c91), result.Embedded)
	assert.Equal(t, uint16(0x7c91), result.Computed)
	assert.Equal(t, 20, result.Length)

	result, err = Check(src, dst, segment[:10])
	require.Error(t, err)
	assert.True(t, IsSegmentTooShort(err))
	assert.Equal(t, Fail, result.Verdict)
}

func TestCheckSegmentTooLong(t *testing.T) {
	segment := make([]byte, MaxSegmentLen+1)

	_, err := Validate("10.0.0.1", "10.0.0.2", segment)
	assert.ErrorIs(t, err, ErrSegmentTooLong)
}

func TestCheckDoesNotMutateSegment(t *testing.T) {
	segment := seal(t, "172.16.0.1", "172.16.0.9", bytes.Repeat([]byte{0x5a}, 33))
	orig := append([]byte{}, segment...)

	verdict, err := Validate("172.16.0.1", "172.16.0.9", segment)
	require.NoError(t, err)
	assert.Equal(t, Pass, verdict)
	assert.Equal(t, orig, segment)
}

func TestCheckDetectsSingleBitFlips(t *testing.T) {
	payload := []byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")
	segment := seal(t, "192.0.2.10", "198.51.100.20", append(make([]byte, 20), payload...))

	verdict, err := Validate("192.0.2.10", "198.51.100.20", segment)
	require.NoError(t, err)
	require.Equal(t, Pass, verdict)

	for i := range segment {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte{}, segment...)
			corrupted[i] ^= 1 << bit

			verdict, err := Validate("192.0.2.10", "198.51.100.20", corrupted)
			require.NoError(t, err)
			if verdict != Fail {
				t.Fatalf("flip of byte %d bit %d not detected", i, bit)
			}
		}
	}
}

func TestCheckAgainstGopacket(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dst     string
		payload []byte
	}{
		{"header only", "10.1.2.3", "10.3.2.1", nil},
		{"even payload", "192.168.0.10", "8.8.8.8", []byte("ping")},
		{"odd payload", "203.0.113.7", "198.51.100.200", []byte("hello")},
		{"large payload", "100.64.0.1", "100.64.0.2", bytes.Repeat([]byte{0xff}, 1461)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segment := serializeTCP(t, tt.src, tt.dst, tt.payload)

			verdict, err := Validate(tt.src, tt.dst, segment)
			require.NoError(t, err)
			assert.Equal(t, Pass, verdict)

			// Swapped addresses give the same sum; a new source does not
			verdict, err = Validate("127.0.0.1", tt.dst, segment)
			require.NoError(t, err)
			assert.Equal(t, Fail, verdict)
		})
	}
}

func TestCheckVerifyOracle(t *testing.T) {
	segment := serializeTCP(t, "10.9.8.7", "10.7.8.9", []byte("abc"))
	src, dst, err := ParseAddressPair("10.9.8.7\n10.7.8.9\n")
	require.NoError(t, err)

	ph := NewPseudoHeader(src, dst, len(segment))
	assert.True(t, checksum.Verify(append(ph[:], segment...)))

	result, err := Check(src, dst, segment)
	require.NoError(t, err)
	assert.Equal(t, Pass, result.Verdict)
}

func TestValidateAddressErrors(t *testing.T) {
	segment := make([]byte, 20)

	_, err := Validate("not.an.ip", "10.0.0.1", segment)
	assert.True(t, IsAddressFormat(err))

	_, err = Validate("10.0.0.1", "10.0.0.256", segment)
	assert.True(t, IsAddressFormat(err))

	// Address errors win over a short segment
	_, err = Validate("1.2.3", "10.0.0.1", segment[:4])
	assert.True(t, IsAddressFormat(err))
	assert.False(t, IsSegmentTooShort(err))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "FAIL", Fail.String())

	var zero Verdict
	assert.Equal(t, Fail, zero)
}
