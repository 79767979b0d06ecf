// Package batch loads captured TCP segments from files and validates them
// concurrently, keeping results in input order.
package batch

import (
	"context"
	"fmt"
	"os"
)

// Item is one (addresses, segment) pair to validate.
type Item struct {
	// Index is the position of the item in its source
	Index int

	// Label identifies the item in reports
	Label string

	// AddrFile and DataFile are the files the item was read from, if any
	AddrFile string
	DataFile string

	// Addresses holds the source and destination addresses as
	// whitespace-separated dotted-decimal text
	Addresses string

	// Segment is the raw TCP segment
	Segment []byte

	// Err is set when the item could not be loaded
	Err error
}

// Source yields an ordered list of items.
type Source interface {
	// Name describes the source in reports.
	Name() string

	// Items loads every item. Per-item problems are reported through
	// Item.Err; a returned error means the source itself is unusable.
	Items(ctx context.Context) ([]Item, error)
}

// FilePair is a single address file and data file.
type FilePair struct {
	AddrFile string
	DataFile string
}

// Name returns the source description.
func (p *FilePair) Name() string {
	return fmt.Sprintf("%s and %s", p.AddrFile, p.DataFile)
}

// Items returns the single item of the pair.
func (p *FilePair) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Item{loadPair(0, p.AddrFile, p.DataFile)}, nil
}

// loadPair reads an address file and a data file into an item.
func loadPair(index int, addrFile, dataFile string) Item {
	item := Item{
		Index:    index,
		Label:    fmt.Sprintf("%s and %s", addrFile, dataFile),
		AddrFile: addrFile,
		DataFile: dataFile,
	}

	addrs, err := os.ReadFile(addrFile)
	if err != nil {
		item.Err = fmt.Errorf("reading address file: %w", err)
		return item
	}
	item.Addresses = string(addrs)

	segment, err := os.ReadFile(dataFile)
	if err != nil {
		item.Err = fmt.Errorf("reading data file: %w", err)
		return item
	}
	item.Segment = segment

	return item
}
