package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// File naming used in a packets directory.
const (
	AddrPrefix = "tcp_addrs_"
	AddrSuffix = ".txt"
	DataPrefix = "tcp_data_"
	DataSuffix = ".dat"
)

// DefaultDir is the directory scanned when no files are given.
const DefaultDir = "packets"

var digitsRe = regexp.MustCompile(`\d+`)

// Dir pairs tcp_addrs_N.txt with tcp_data_N.dat files in a directory.
//
// Both lists are sorted by the first number in the file name and paired by
// position. Unmatched files at the end of the longer list are ignored.
type Dir struct {
	Path   string
	Logger logrus.FieldLogger
}

// Name returns the directory path.
func (d *Dir) Name() string {
	return d.Path
}

// Items reads every address/data pair in the directory.
func (d *Dir) Items(ctx context.Context) ([]Item, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("reading packets directory: %w", err)
	}

	var addrFiles, dataFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, AddrPrefix) && strings.HasSuffix(name, AddrSuffix):
			addrFiles = append(addrFiles, name)
		case strings.HasPrefix(name, DataPrefix) && strings.HasSuffix(name, DataSuffix):
			dataFiles = append(dataFiles, name)
		}
	}

	sortNumeric(addrFiles)
	sortNumeric(dataFiles)

	n := len(addrFiles)
	if len(dataFiles) < n {
		n = len(dataFiles)
	}

	if len(addrFiles) != len(dataFiles) && d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"dir":        d.Path,
			"addr_files": len(addrFiles),
			"data_files": len(dataFiles),
		}).Warn("address and data file counts differ, extra files ignored")
	}

	if n == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoItems, d.Path)
	}

	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items = append(items, loadPair(i,
			filepath.Join(d.Path, addrFiles[i]),
			filepath.Join(d.Path, dataFiles[i])))
	}

	return items, nil
}

// sortNumeric orders names by their first embedded number. Names without a
// number sort after numbered ones; ties fall back to the name.
func sortNumeric(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, iok := numericKey(names[i])
		nj, jok := numericKey(names[j])
		switch {
		case iok && jok && ni != nj:
			return ni < nj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
}

// numericKey returns the first decimal number in name.
func numericKey(name string) (int, bool) {
	m := digitsRe.FindString(name)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
