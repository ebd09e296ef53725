package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"talnurt/internal/common"
)

type ErrorCollector interface {
	IncErrors()
}

var collector ErrorCollector

func SetErrorCollector(c ErrorCollector) {
	collector = c
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func Error(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		if collector != nil {
			collector.IncErrors()
		}
		// Storage details stay out of the response body.
		log.Printf("internal error: %v", err)
		JSON(w, status, errorBody{Error: string(common.CodeInternal), Message: "internal error"})
		return
	}
	body := errorBody{Error: string(code), Message: err.Error()}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		body.Fields = appErr.Fields
	}
	JSON(w, status, body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeInvalidState, common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
