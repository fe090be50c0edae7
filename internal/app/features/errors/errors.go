// internal/app/features/errors/errors.go

// Package errors turns domain errors into JSON error responses.
//
//	{"error":{"code":"car_full","message":"car is full"}}
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/app/leghub"
	tripstore "github.com/automaatje/automaatje/internal/app/store/trips"
	"github.com/automaatje/automaatje/internal/app/system/limits"
	"github.com/automaatje/automaatje/internal/app/system/reqval"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
	"go.uber.org/zap"
)

// Detail is the body of an error response.
type Detail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Body wraps Detail under "error".
type Body struct {
	Error Detail `json:"error"`
}

// ErrBadRequest marks malformed request bodies.
var ErrBadRequest = stderrors.New("malformed request body")

// Classify maps err onto an HTTP status and a stable error code.
func Classify(err error) (int, string) {
	var verr *reqval.Error
	switch {
	case stderrors.As(err, &verr):
		return http.StatusUnprocessableEntity, "invalid_input"
	case stderrors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case stderrors.Is(err, tripaccess.ErrNoClass):
		return http.StatusUnauthorized, "unauthorized"
	case stderrors.Is(err, tripstore.ErrNotFound),
		stderrors.Is(err, tripstore.ErrBadID),
		stderrors.Is(err, leghub.ErrTripGone),
		stderrors.Is(err, assign.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case stderrors.Is(err, assign.ErrCarFull):
		return http.StatusConflict, "car_full"
	case stderrors.Is(err, assign.ErrCapacityBelowAssigned):
		return http.StatusConflict, "capacity_below_assigned"
	case stderrors.Is(err, assign.ErrInvalidCapacity):
		return http.StatusUnprocessableEntity, "invalid_capacity"
	case stderrors.Is(err, assign.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	case stderrors.Is(err, leghub.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_failure"
	case stderrors.Is(err, leghub.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "timeout"
	case stderrors.Is(err, assign.ErrCorruptLeg):
		return http.StatusInternalServerError, "corrupt_leg"
	}
	return http.StatusInternalServerError, "internal"
}

// New builds the body for err. Messages of server errors are not exposed.
func New(err error) (int, Body) {
	status, code := Classify(err)
	d := Detail{Code: code, Message: err.Error()}
	var verr *reqval.Error
	if stderrors.As(err, &verr) {
		d.Fields = verr.Fields
	}
	if status == http.StatusInternalServerError {
		d.Message = http.StatusText(status)
	}
	return status, Body{Error: d}
}

// Write sends err as a JSON error response and logs server-side failures.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, body := New(err)
	if status >= 500 && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	JSON(w, status, body)
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a JSON body into v and validates it. Unknown fields are rejected.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return stderrors.Join(ErrBadRequest, err)
	}
	return reqval.Struct(v)
}
