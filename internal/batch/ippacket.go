package batch

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/net/ipv4"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// IPPacketFile is a data file holding one whole IPv4 datagram. Addresses
// come from the IPv4 header; the segment is the datagram payload.
type IPPacketFile struct {
	Path string
}

// Name returns the file path.
func (p *IPPacketFile) Name() string {
	return p.Path
}

// Items returns the single datagram as an item.
func (p *IPPacketFile) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item := Item{Label: p.Path, DataFile: p.Path}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		item.Err = fmt.Errorf("reading data file: %w", err)
		return []Item{item}, nil
	}

	item.Addresses, item.Segment, item.Err = splitIPv4(data)
	return []Item{item}, nil
}

// splitIPv4 parses an IPv4 header and returns the address text and a copy
// of the TCP segment it carries.
func splitIPv4(b []byte) (string, []byte, error) {
	h, err := ipv4.ParseHeader(b)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotIPv4, err)
	}
	if h.Version != ipv4.Version || h.Len < ipv4.HeaderLen {
		return "", nil, fmt.Errorf("%w: version %d, header length %d", ErrNotIPv4, h.Version, h.Len)
	}
	if h.Protocol != validate.ProtocolTCP {
		return "", nil, fmt.Errorf("%w: protocol %d", ErrNotTCP, h.Protocol)
	}
	if h.Flags&ipv4.MoreFragments != 0 || h.FragOff != 0 {
		return "", nil, fmt.Errorf("%w: offset %d", ErrFragment, h.FragOff)
	}

	// Stored datagrams are in network byte order; h.TotalLen follows the
	// raw socket conventions of the host instead. Trailing link-layer
	// padding is not part of the segment.
	end := len(b)
	if total := int(binary.BigEndian.Uint16(b[2:4])); total >= h.Len && total <= len(b) {
		end = total
	}

	addrs := h.Src.String() + " " + h.Dst.String()
	return addrs, append([]byte(nil), b[h.Len:end]...), nil
}
