// Package storage provides a pebble-backed blob store for packed objects,
// keyed by ksuid identifiers.
package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
)

// ObjectStore persists opaque byte blobs and packed objects in a pebble
// database. Each stored object is addressed by a generated ksuid.
type ObjectStore struct {
	db *pebble.DB
}

// NewObjectStore opens (or creates) a pebble database at path.
func NewObjectStore(path string) (*ObjectStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{db: db}, nil
}

// Create stores raw bytes under a fresh id.
func (s *ObjectStore) Create(data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return nil, err
	}
	return &id, nil
}

// Read returns the bytes stored under id.
func (s *ObjectStore) Read(id *ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// The returned slice is only valid until the closer is closed.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Update replaces the bytes stored under id.
func (s *ObjectStore) Update(id *ksuid.KSUID, data []byte) error {
	return s.db.Set(id.Bytes(), data, pebble.NoSync)
}

// Delete removes the object stored under id.
func (s *ObjectStore) Delete(id *ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

// CreateObject packs v and stores the encoding under a fresh id.
func (s *ObjectStore) CreateObject(v msgpack.Packable) (*ksuid.KSUID, error) {
	data, err := msgpack.Pack(v)
	if err != nil {
		return nil, err
	}
	return s.Create(data)
}

// ReadObject loads the bytes stored under id and unpacks them into v.
func (s *ObjectStore) ReadObject(id *ksuid.KSUID, v msgpack.Packable) error {
	data, err := s.Read(id)
	if err != nil {
		return err
	}
	u := msgpack.NewUnpacker(data)
	v.Pack(u)
	return u.Err()
}

// Close closes the underlying database.
func (s *ObjectStore) Close() error {
	return s.db.Close()
}
