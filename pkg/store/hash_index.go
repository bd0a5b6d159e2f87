package store

import (
	"io"
	"strings"
	"sync"
)

// HashIndex provides O(1) average-case lookups for key locations.
type HashIndex struct {
	entries map[string]*IndexEntry
	mutex   sync.RWMutex
}

// NewHashIndex creates a new hash index.
func NewHashIndex() *HashIndex {
	return &HashIndex{
		entries: make(map[string]*IndexEntry),
	}
}

// Put adds or updates an index entry for a key.
func (idx *HashIndex) Put(key []byte, entry *IndexEntry) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries[string(key)] = entry
}

// Get retrieves the index entry for a key.
func (idx *HashIndex) Get(key []byte) (*IndexEntry, bool) {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	entry, exists := idx.entries[string(key)]
	return entry, exists
}

// Delete removes a key from the index.
func (idx *HashIndex) Delete(key []byte) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	delete(idx.entries, string(key))
}

// Size returns the number of keys in the index.
func (idx *HashIndex) Size() int {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	return len(idx.entries)
}

// Clear removes all entries from the index.
func (idx *HashIndex) Clear() {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries = make(map[string]*IndexEntry)
}

// Keys returns all keys in the index.
func (idx *HashIndex) Keys() []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	keys := make([]string, 0, len(idx.entries))
	for key := range idx.entries {
		keys = append(keys, key)
	}
	return keys
}

// KeysWithPrefix returns all keys that start with the given prefix.
func (idx *HashIndex) KeysWithPrefix(prefix string) []string {
	idx.mutex.RLock()
	defer idx.mutex.RUnlock()

	var keys []string
	for key := range idx.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

// BuildFromLog scans a log file and populates the index. Tombstones remove
// their key. The scan stops at a clean EOF or at the first corrupt frame;
// the returned offset is the end of the last intact frame, letting the
// caller truncate a corrupt tail.
func (idx *HashIndex) BuildFromLog(reader *LogReader) (records int, goodOffset int64, err error) {
	idx.mutex.Lock()
	defer idx.mutex.Unlock()

	idx.entries = make(map[string]*IndexEntry)

	if err := reader.Seek(0); err != nil {
		return 0, 0, err
	}

	for {
		frameStart := reader.Offset()
		record, err := reader.ReadNext()
		if err == io.EOF {
			return records, frameStart, nil
		}
		if err != nil {
			return records, frameStart, err
		}

		records++
		if record.Tombstone() {
			delete(idx.entries, string(record.Key))
			continue
		}
		idx.entries[string(record.Key)] = &IndexEntry{
			Offset:    frameStart,
			Size:      uint32(reader.Offset() - frameStart),
			Timestamp: record.Timestamp,
		}
	}
}
