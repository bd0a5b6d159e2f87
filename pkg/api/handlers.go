package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brokkr-io/brokkr/pkg/msgpack"
)

// Server holds the API server state
type Server struct {
	store   KVStore
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store KVStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handlePut stores the request body as the value of key.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.metrics.RecordStoreOperation("put", false, time.Since(start))
		sendError(w, "Invalid key", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordStoreOperation("put", false, time.Since(start))
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		s.metrics.RecordStoreOperation("put", false, time.Since(start))
		sendError(w, "Value is required", http.StatusBadRequest)
		return
	}

	if err := s.store.Put([]byte(key), body); err != nil {
		s.metrics.RecordStoreOperation("put", false, time.Since(start))
		sendStoreError(w, "put key-value", err)
		return
	}

	s.metrics.RecordStoreOperation("put", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "Key-value pair stored successfully"})
}

// handleGet returns the raw value bytes for key.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.metrics.RecordStoreOperation("get", false, time.Since(start))
		sendError(w, "Invalid key", http.StatusBadRequest)
		return
	}

	value, err := s.store.Get([]byte(key))
	if err != nil {
		s.metrics.RecordStoreOperation("get", false, time.Since(start))
		sendStoreError(w, "get value", err)
		return
	}

	s.metrics.RecordStoreOperation("get", true, time.Since(start))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(value); err != nil {
		sendError(w, "Failed to write response", http.StatusInternalServerError)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		s.metrics.RecordStoreOperation("delete", false, time.Since(start))
		sendError(w, "Invalid key", http.StatusBadRequest)
		return
	}

	if err := s.store.Delete([]byte(key)); err != nil {
		s.metrics.RecordStoreOperation("delete", false, time.Since(start))
		sendStoreError(w, "delete key", err)
		return
	}

	s.metrics.RecordStoreOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "Key deleted successfully"})
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	keys, err := s.store.ListKeys([]byte(prefix))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list keys: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]interface{}{"keys": keys})
}

// handleInspect transcodes a packed request body into JSON. Binary payloads
// inside the value appear base64-encoded, per encoding/json.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordInspect(false)
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		s.metrics.RecordInspect(false)
		sendError(w, "Request body is required", http.StatusBadRequest)
		return
	}

	value, err := msgpack.UnpackValue(body)
	if err != nil {
		s.metrics.RecordInspect(false)
		sendError(w, fmt.Sprintf("Failed to decode payload: %v", err), http.StatusBadRequest)
		return
	}

	s.metrics.RecordInspect(true)
	sendSuccess(w, map[string]interface{}{"value": value})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	s.metrics.UpdateStoreStats(stats.Keys, stats.LogSize)
	sendSuccess(w, map[string]interface{}{
		"keys":     stats.Keys,
		"log_size": stats.LogSize,
	})
}

// startMetricsUpdater periodically refreshes the store gauges.
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := s.store.Stats()
		s.metrics.UpdateStoreStats(stats.Keys, stats.LogSize)
	}
}
