package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields FieldErrors) {
	JSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"errors": fields,
	})
}

// DecodeJSON parses the JSON body into v and handles invalid JSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		JSONError(w, http.StatusBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			JSONError(w, http.StatusBadRequest, "empty request body")
			return err
		}
		JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return err
	}

	return nil
}
