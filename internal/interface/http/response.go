package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Step    int      `json:"step,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeEnvelope(w, status, JSONResponse{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeList(w http.ResponseWriter, r *http.Request, data interface{}, total int) {
	writeEnvelope(w, http.StatusOK, JSONResponse{
		Success:   true,
		Data:      data,
		Meta:      &Meta{Total: total, Timestamp: time.Now().UTC().Format(time.RFC3339)},
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeAPIError(w, r, status, &APIError{Code: code, Message: message})
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError) {
	writeEnvelope(w, status, JSONResponse{
		Success:   false,
		Error:     apiErr,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps a core error to its HTTP status and error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
	}
	writeAPIError(w, r, status, apiErr)
}

func mapError(err error) (int, *APIError) {
	if ve, ok := shared.AsValidation(err); ok {
		return http.StatusUnprocessableEntity, &APIError{
			Code:    "validation_error",
			Message: ve.Message,
			Fields:  ve.Fields,
			Step:    ve.Step,
		}
	}
	if te, ok := shared.AsTransition(err); ok {
		return http.StatusConflict, &APIError{Code: "invalid_transition", Message: te.Error()}
	}

	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, &APIError{Code: "unauthorized", Message: domainMessage(err)}
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, &APIError{Code: "forbidden", Message: domainMessage(err)}
	case shared.IsNotFound(err):
		return http.StatusNotFound, &APIError{Code: "not_found", Message: domainMessage(err)}
	case shared.IsConflict(err):
		return http.StatusConflict, &APIError{Code: "conflict", Message: domainMessage(err)}
	case errors.Is(err, shared.ErrInvalidState):
		return http.StatusConflict, &APIError{Code: "invalid_state", Message: domainMessage(err)}
	case errors.Is(err, shared.ErrNotQualified):
		return http.StatusUnprocessableEntity, &APIError{
			Code:    "not_qualified",
			Message: domainMessage(err),
			Details: missingRequirements(err),
		}
	default:
		return http.StatusInternalServerError, &APIError{Code: "internal_error", Message: "An unexpected error occurred"}
	}
}

// domainMessage returns the human message of a DomainError, or err's text.
func domainMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

// missingRequirements unpacks the requirement list wrapped by AssignMentor.
func missingRequirements(err error) []string {
	var de *shared.DomainError
	if !errors.As(err, &de) || de.Err == nil {
		return nil
	}
	return strings.Split(de.Err.Error(), "; ")
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes the request body into dst, rejecting unknown fields.
// An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return shared.NewValidationError("DecodeRequest", "malformed request body: "+err.Error())
	}
	return nil
}
