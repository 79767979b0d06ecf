package batch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"
)

// pcapngMagic is the block type of a pcapng Section Header Block.
var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// packetReader is implemented by pcapgo.Reader and pcapgo.NgReader.
type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Pcap reads TCP segments from a pcap or pcapng capture file. Every
// unfragmented IPv4 packet carrying TCP becomes one item.
type Pcap struct {
	Path   string
	Logger logrus.FieldLogger
}

// Name returns the capture file path.
func (p *Pcap) Name() string {
	return p.Path
}

// Items decodes the capture file.
func (p *Pcap) Items(ctx context.Context) ([]Item, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	r, err := newPacketReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading capture header of %s: %w", p.Path, err)
	}

	var items []Item
	skipped := 0

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, ci, err := r.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading packet %d of %s: %w", n, p.Path, err)
		}

		packet := gopacket.NewPacket(data, r.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		ip, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
		if !ok || ip.Protocol != layers.IPProtocolTCP {
			skipped++
			continue
		}
		if ip.Flags&layers.IPv4MoreFragments != 0 || ip.FragOffset != 0 {
			if p.Logger != nil {
				p.Logger.WithField("packet", n).Debug("skipping IPv4 fragment")
			}
			skipped++
			continue
		}

		item := Item{
			Index:     len(items),
			Label:     fmt.Sprintf("%s #%d", p.Path, n),
			DataFile:  p.Path,
			Addresses: ip.SrcIP.String() + " " + ip.DstIP.String(),
			Segment:   append([]byte(nil), ip.Payload...),
		}
		if ci.CaptureLength < ci.Length {
			item.Err = fmt.Errorf("%w: captured %d of %d bytes", ErrTruncatedCapture, ci.CaptureLength, ci.Length)
		}
		items = append(items, item)
	}

	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{
			"file":     p.Path,
			"segments": len(items),
			"skipped":  skipped,
		}).Debug("capture decoded")
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoItems, p.Path)
	}

	return items, nil
}

// newPacketReader picks the pcapng or classic pcap reader from the magic.
func newPacketReader(r *bufio.Reader) (packetReader, error) {
	magic, err := r.Peek(4)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(r, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, err
		}
		return ng, nil
	}

	classic, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, err
	}
	return classic, nil
}
