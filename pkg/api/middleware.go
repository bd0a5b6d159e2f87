package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brokkr-io/brokkr/pkg/store"
)

// apiKeyMiddleware rejects requests whose X-API-Key header does not match
// the configured key. The comparison is constant-time so response timing
// does not leak how much of a guessed key was correct.
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	expected := []byte(expectedKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sendSuccess writes data inside the standard response envelope.
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// sendError writes message inside the standard response envelope with the
// given status code.
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}

// sendStoreError maps a store error to the matching HTTP status: missing
// keys are 404, rejected input is 400, anything else is a 500 with the
// action named for context.
func sendStoreError(w http.ResponseWriter, action string, err error) {
	switch err {
	case store.ErrKeyNotFound:
		sendError(w, "Key not found", http.StatusNotFound)
	case store.ErrInvalidKey:
		sendError(w, "Invalid key", http.StatusBadRequest)
	default:
		sendError(w, fmt.Sprintf("Failed to %s: %v", action, err), http.StatusInternalServerError)
	}
}
