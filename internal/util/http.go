package util

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serves the console's machine endpoints (health and readiness);
// browser-facing pages render HTML and never go through here.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
