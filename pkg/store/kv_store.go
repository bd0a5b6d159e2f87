package store

import (
	"os"
	"path/filepath"
	"sync"
)

// KVStore is a log-structured key-value store. Every record on disk is a
// msgpack-encoded Record frame; the latest offset per key lives in an
// in-memory hash index rebuilt on Open.
type KVStore struct {
	config   KVStoreConfig
	writer   *LogWriter
	index    *HashIndex
	dataFile string
	mutex    sync.Mutex
	isOpen   bool
}

// NewKVStore creates a new key-value store instance.
func NewKVStore(config KVStoreConfig) (*KVStore, error) {
	if err := os.MkdirAll(config.DataDir, 0750); err != nil {
		return nil, err
	}

	return &KVStore{
		config:   config,
		dataFile: filepath.Join(config.DataDir, "active.data"),
		index:    NewHashIndex(),
	}, nil
}

// Open initializes the store: the index is rebuilt from the log and a
// corrupt tail, if present, is truncated so appends resume from the last
// intact frame.
func (kv *KVStore) Open() (*RecoveryResult, error) {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if kv.isOpen {
		return &RecoveryResult{}, nil
	}

	result := &RecoveryResult{}

	if _, err := os.Stat(kv.dataFile); err == nil {
		reader, err := NewLogReader(LogReaderConfig{FilePath: kv.dataFile})
		if err != nil {
			return nil, err
		}
		records, goodOffset, scanErr := kv.index.BuildFromLog(reader)
		reader.Close()

		result.RecordsIndexed = records
		if scanErr == ErrCorruption {
			if err := os.Truncate(kv.dataFile, goodOffset); err != nil {
				return nil, err
			}
			result.RecordsTruncated = true
		} else if scanErr != nil {
			return nil, scanErr
		}
	}

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      kv.dataFile,
		FsyncInterval: kv.config.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	kv.writer = writer
	result.FileSizeAfter = writer.Size()
	kv.isOpen = true

	return result, nil
}

// Put stores a key-value pair. Empty keys and empty values are rejected; an
// empty value is the tombstone marker and is written only by Delete.
func (kv *KVStore) Put(key, value []byte) error {
	if len(key) == 0 || len(value) == 0 {
		return ErrInvalidKey
	}
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	if !kv.isOpen {
		return ErrNotOpen
	}

	rec := NewRecord(key, value)
	offset, err := kv.writer.Append(rec)
	if err != nil {
		return err
	}

	kv.index.Put(key, &IndexEntry{
		Offset:    offset,
		Size:      uint32(kv.writer.Size() - offset),
		Timestamp: rec.Timestamp,
	})
	return nil
}

// Get returns the latest value for a key.
func (kv *KVStore) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	if !kv.isOpen {
		return nil, ErrNotOpen
	}

	entry, ok := kv.index.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	// Flush buffered writes so the read sees the frame.
	if err := kv.writer.Sync(); err != nil {
		return nil, err
	}

	reader, err := NewLogReader(LogReaderConfig{FilePath: kv.dataFile})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	rec, err := reader.ReadAt(entry.Offset)
	if err != nil {
		return nil, err
	}
	if rec.Tombstone() {
		return nil, ErrKeyNotFound
	}
	return rec.Value, nil
}

// Delete removes a key by appending a tombstone record.
func (kv *KVStore) Delete(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	if !kv.isOpen {
		return ErrNotOpen
	}

	if _, ok := kv.index.Get(key); !ok {
		return ErrKeyNotFound
	}

	if _, err := kv.writer.Append(NewRecord(key, nil)); err != nil {
		return err
	}
	kv.index.Delete(key)
	return nil
}

// ListKeys returns the keys currently live in the store, optionally
// filtered by prefix.
func (kv *KVStore) ListKeys(prefix []byte) ([]string, error) {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	if !kv.isOpen {
		return nil, ErrNotOpen
	}

	if len(prefix) == 0 {
		return kv.index.Keys(), nil
	}
	return kv.index.KeysWithPrefix(string(prefix)), nil
}

// Stats summarizes the store.
func (kv *KVStore) Stats() *StoreStats {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	stats := &StoreStats{Keys: kv.index.Size()}
	if kv.writer != nil {
		stats.LogSize = kv.writer.Size()
	}
	return stats
}

// Close flushes and closes the store.
func (kv *KVStore) Close() error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if !kv.isOpen {
		return nil
	}
	kv.isOpen = false
	return kv.writer.Close()
}
