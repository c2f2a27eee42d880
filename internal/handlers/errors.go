package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"
)

// errorEnvelope is the JSON shape every HTTP-level error is normalized
// to, 400s and routing errors alike.
type errorEnvelope struct {
	OK          int    `json:"ok"`
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, errorEnvelope{
		OK:          0,
		Code:        status,
		Name:        http.StatusText(status),
		Description: description,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}
