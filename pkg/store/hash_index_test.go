package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIndexBasicOperations(t *testing.T) {
	idx := NewHashIndex()

	idx.Put([]byte("key1"), &IndexEntry{Offset: 0, Size: 20})
	idx.Put([]byte("key2"), &IndexEntry{Offset: 20, Size: 24})

	entry, found := idx.Get([]byte("key1"))
	require.True(t, found)
	assert.Equal(t, int64(0), entry.Offset)

	entry, found = idx.Get([]byte("key2"))
	require.True(t, found)
	assert.Equal(t, int64(20), entry.Offset)

	_, found = idx.Get([]byte("missing"))
	assert.False(t, found)

	assert.Equal(t, 2, idx.Size())

	idx.Delete([]byte("key1"))
	_, found = idx.Get([]byte("key1"))
	assert.False(t, found)
	assert.Equal(t, 1, idx.Size())

	idx.Clear()
	assert.Equal(t, 0, idx.Size())
}

func TestHashIndexOverwrite(t *testing.T) {
	idx := NewHashIndex()

	idx.Put([]byte("key"), &IndexEntry{Offset: 0, Size: 20})
	idx.Put([]byte("key"), &IndexEntry{Offset: 20, Size: 24})

	entry, found := idx.Get([]byte("key"))
	require.True(t, found)
	assert.Equal(t, int64(20), entry.Offset)
	assert.Equal(t, 1, idx.Size())
}

func TestHashIndexKeysWithPrefix(t *testing.T) {
	idx := NewHashIndex()
	idx.Put([]byte("user:1"), &IndexEntry{})
	idx.Put([]byte("user:2"), &IndexEntry{})
	idx.Put([]byte("order:1"), &IndexEntry{})

	keys := idx.KeysWithPrefix("user:")
	assert.ElementsMatch(t, []string{"user:1", "user:2"}, keys)

	keys = idx.KeysWithPrefix("")
	assert.Len(t, keys, 3)
}

func TestHashIndexBuildFromLog(t *testing.T) {
	filePath := writeTestLog(t, [][2]string{
		{"key1", "value1"},
		{"key2", "value2"},
		{"key1", "updated"},
	})

	reader, err := NewLogReader(LogReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer reader.Close()

	idx := NewHashIndex()
	records, goodOffset, err := idx.BuildFromLog(reader)
	require.NoError(t, err)

	assert.Equal(t, 3, records)
	assert.Equal(t, 2, idx.Size())

	stat, err := reader.file.Stat()
	require.NoError(t, err)
	assert.Equal(t, stat.Size(), goodOffset)

	// key1's entry must point at the third frame, not the first.
	entry, found := idx.Get([]byte("key1"))
	require.True(t, found)
	rec, err := reader.ReadAt(entry.Offset)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), rec.Value)
}

func TestHashIndexBuildFromLogTombstone(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.log")

	writer, err := NewLogWriter(LogWriterConfig{FilePath: filePath})
	require.NoError(t, err)
	_, err = writer.Put([]byte("key1"), []byte("value1"))
	require.NoError(t, err)
	_, err = writer.Append(NewRecord([]byte("key1"), nil))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer reader.Close()

	idx := NewHashIndex()
	records, _, err := idx.BuildFromLog(reader)
	require.NoError(t, err)

	assert.Equal(t, 2, records)
	assert.Equal(t, 0, idx.Size())
}

func TestHashIndexBuildFromLogCorruptTail(t *testing.T) {
	filePath := writeTestLog(t, [][2]string{
		{"key1", "value1"},
		{"key2", "value2"},
	})

	// Flip a byte inside the second frame's payload.
	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	data[len(data)-3] ^= 0xff
	require.NoError(t, os.WriteFile(filePath, data, 0600))

	reader, err := NewLogReader(LogReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer reader.Close()

	idx := NewHashIndex()
	records, goodOffset, err := idx.BuildFromLog(reader)
	assert.Equal(t, ErrCorruption, err)
	assert.Equal(t, 1, records)
	assert.Equal(t, 1, idx.Size())

	// The offset marks the end of the last intact frame.
	rec, readErr := reader.ReadAt(0)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("key1"), rec.Key)
	assert.Greater(t, goodOffset, int64(0))
}
