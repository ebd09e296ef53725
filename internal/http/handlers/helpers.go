package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"talnurt/internal/common"
)

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required", nil)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath extracts the path segment at the given index and parses it as a
// UUID. Index counts non-empty segments, so for "/reports/{id}/read" the id
// sits at index 1.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index < 0 || index >= len(segments) {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "id is required"})
	}
	parsed, err := common.ParseUUID(segments[index])
	if err != nil {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "actor context is required", nil)
}
