package batch

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/checksum"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// sealedSegment returns an n byte segment carrying a correct checksum.
func sealedSegment(t *testing.T, addrs string, n int) []byte {
	t.Helper()

	src, dst, err := validate.ParseAddressPair(addrs)
	require.NoError(t, err)

	segment := make([]byte, n)
	for i := range segment {
		segment[i] = byte(i * 7)
	}
	segment[16], segment[17] = 0, 0

	ph := validate.NewPseudoHeader(src, dst, n)
	binary.BigEndian.PutUint16(segment[16:18], checksum.Checksum(append(ph[:], segment...)))
	return segment
}

// writePair writes tcp_addrs_<id>.txt and tcp_data_<id>.dat into dir.
func writePair(t *testing.T, dir, id, addrs string, segment []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AddrPrefix+id+AddrSuffix), []byte(addrs), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataPrefix+id+DataSuffix), segment, 0644))
}

// buildIPv4 serializes an IPv4 datagram carrying TCP (or UDP when udp is
// set) with correct checksums, optionally behind an Ethernet header.
func buildIPv4(t *testing.T, src, dst string, payload []byte, udp, ethernet bool) []byte {
	t.Helper()

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}

	var transport gopacket.SerializableLayer
	if udp {
		ip.Protocol = layers.IPProtocolUDP
		u := &layers.UDP{SrcPort: 5353, DstPort: 53}
		require.NoError(t, u.SetNetworkLayerForChecksum(ip))
		transport = u
	} else {
		tcp := &layers.TCP{SrcPort: 50000, DstPort: 80, Seq: 1000, SYN: true, Window: 29200}
		require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
		transport = tcp
	}

	var stack []gopacket.SerializableLayer
	if ethernet {
		stack = append(stack, &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
			DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
			EthernetType: layers.EthernetTypeIPv4,
		})
	}
	stack = append(stack, ip, transport, gopacket.Payload(payload))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, stack...))

	return append([]byte(nil), buf.Bytes()...)
}
