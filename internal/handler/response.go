package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse builds the stable error body shape. Storage errors never
// reach the client; callers pass a generic message for those.
func errorResponse(msg string) map[string]string {
	return map[string]string{"message": msg}
}
