// Package response writes the API's JSON envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes one page of a list result.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta derives page numbers from a limit/offset pair.
func NewMeta(limit, offset int, total int64) *Meta {
	if limit <= 0 {
		return &Meta{Page: 1, Limit: limit, Total: total, TotalPages: 1}
	}
	return &Meta{
		Page:       offset/limit + 1,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

func JSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Warnf("Failed to encode %d response: %+v", statusCode, err)
	}
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	JSON(w, statusCode, Response{Success: false, Message: message, Error: err})
}

// ValidationError reports field errors keyed by JSON name.
func ValidationError(w http.ResponseWriter, fields interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", fields)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message, nil)
}

// Conflict answers 409; data carries what the caller needs to resubmit.
func Conflict(w http.ResponseWriter, message string, data interface{}) {
	if message == "" {
		message = http.StatusText(http.StatusConflict)
	}
	JSON(w, http.StatusConflict, Response{Success: false, Message: message, Data: data})
}
