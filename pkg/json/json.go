package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrMissingBody = errors.New("missing request body")

func ParseJSON(r *http.Request, model any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrMissingBody
	}

	if err := json.NewDecoder(r.Body).Decode(model); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}
