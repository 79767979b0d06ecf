package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "numeric not lexical",
			input: []string{"tcp_data_10.dat", "tcp_data_2.dat", "tcp_data_1.dat"},
			want:  []string{"tcp_data_1.dat", "tcp_data_2.dat", "tcp_data_10.dat"},
		},
		{
			name:  "names without numbers last",
			input: []string{"tcp_data_xx.dat", "tcp_data_3.dat", "tcp_data_ab.dat"},
			want:  []string{"tcp_data_3.dat", "tcp_data_ab.dat", "tcp_data_xx.dat"},
		},
		{
			name:  "equal numbers by name",
			input: []string{"tcp_data_01.dat", "tcp_data_1.dat"},
			want:  []string{"tcp_data_01.dat", "tcp_data_1.dat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := append([]string{}, tt.input...)
			sortNumeric(names)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNumericKey(t *testing.T) {
	n, ok := numericKey("tcp_addrs_42.txt")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = numericKey("tcp_addrs_xx.txt")
	assert.False(t, ok)
}

func TestDirItems(t *testing.T) {
	dir := t.TempDir()

	for _, id := range []string{"0", "1", "2", "10"} {
		writePair(t, dir, id, "10.0.0."+id+" 10.0.1."+id+"\n", []byte("segment-"+id))
	}
	// Unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tcp_data_99.dat"), 0755))

	src := &Dir{Path: dir}
	items, err := src.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, id := range []string{"0", "1", "2", "10"} {
		item := items[i]
		assert.Equal(t, i, item.Index)
		assert.NoError(t, item.Err)
		assert.Equal(t, filepath.Join(dir, AddrPrefix+id+AddrSuffix), item.AddrFile)
		assert.Equal(t, filepath.Join(dir, DataPrefix+id+DataSuffix), item.DataFile)
		assert.Equal(t, "10.0.0."+id+" 10.0.1."+id+"\n", item.Addresses)
		assert.Equal(t, []byte("segment-"+id), item.Segment)
		assert.Equal(t, item.AddrFile+" and "+item.DataFile, item.Label)
	}
}

func TestDirItemsUnevenCounts(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "0", "10.0.0.1 10.0.0.2", make([]byte, 20))
	writePair(t, dir, "1", "10.0.0.1 10.0.0.2", make([]byte, 20))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tcp_addrs_2.txt"), []byte("10.0.0.1 10.0.0.2"), 0644))

	items, err := (&Dir{Path: dir}).Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestDirItemsEmpty(t *testing.T) {
	_, err := (&Dir{Path: t.TempDir()}).Items(context.Background())
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = (&Dir{Path: filepath.Join(t.TempDir(), "missing")}).Items(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilePairMissingFile(t *testing.T) {
	dir := t.TempDir()
	addr := filepath.Join(dir, "addrs.txt")
	require.NoError(t, os.WriteFile(addr, []byte("10.0.0.1 10.0.0.2"), 0644))

	pair := &FilePair{AddrFile: addr, DataFile: filepath.Join(dir, "nope.dat")}
	items, err := pair.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.ErrorIs(t, items[0].Err, os.ErrNotExist)
	assert.Contains(t, pair.Name(), "nope.dat")
}
