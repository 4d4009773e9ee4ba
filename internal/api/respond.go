package api

import (
	"encoding/json"
	"net/http"

	"goldcatalog/internal/pricing"
)

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []pricing.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
