package api

import "github.com/brokkr-io/brokkr/pkg/store"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string
	DataDir string
}

// KVStore defines the store operations the API surfaces.
type KVStore interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	ListKeys(prefix []byte) ([]string, error)
	Stats() *store.StoreStats
}
