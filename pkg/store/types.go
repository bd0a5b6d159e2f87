package store

import "time"

// IndexEntry records the location of a key's latest record in the log.
type IndexEntry struct {
	Offset    int64  // Byte offset of the frame within the file
	Size      uint32 // Size of the frame in bytes
	Timestamp uint64 // Record timestamp
}

// LogWriterConfig holds configuration for the log writer.
type LogWriterConfig struct {
	FilePath      string        // Path to the active data file
	FsyncInterval time.Duration // How often to fsync (0 = every write)
	BufferSize    int           // Write buffer size
}

// LogReaderConfig holds configuration for the log reader.
type LogReaderConfig struct {
	FilePath    string // Path to the data file
	StartOffset int64  // Offset to start reading from
}

// KVStoreConfig holds configuration for the key-value store.
type KVStoreConfig struct {
	DataDir       string        // Directory for data files
	FsyncInterval time.Duration // Fsync interval for durability
}

// RecoveryResult describes what Open found while rebuilding the index.
type RecoveryResult struct {
	RecordsIndexed   int   // Live records indexed
	RecordsTruncated bool  // Whether a corrupt tail was cut off
	FileSizeAfter    int64 // Log size after recovery
}

// StoreStats summarizes the store's current state.
type StoreStats struct {
	Keys    int
	LogSize int64
}

// RecordIterator provides streaming access to records. After Next returns
// false, Err distinguishes a clean end of log from a read failure.
type RecordIterator interface {
	Next() bool
	Record() *Record
	Err() error
	Close() error
}

// Errors
var (
	ErrKeyNotFound = &KVError{"key not found"}
	ErrInvalidKey  = &KVError{"invalid key"}
	ErrCorruption  = &KVError{"data corruption detected"}
	ErrNotOpen     = &KVError{"store is not open"}
)

// KVError represents a key-value store error.
type KVError struct {
	Message string
}

func (e *KVError) Error() string {
	return e.Message
}
