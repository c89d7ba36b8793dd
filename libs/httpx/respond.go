package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON marshals v and writes it with the given status. Marshal
// failures fall back to a plain 500 since headers are not yet written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
