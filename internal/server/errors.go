package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

// Error codes returned in APIError.Code.
const (
	CodeInvalidColumn       = "INVALID_COLUMN"
	CodeNotNumeric          = "NOT_NUMERIC"
	CodeInsufficientNumeric = "INSUFFICIENT_NUMERIC_COLUMNS"
	CodeDatasetNotLoaded    = "DATASET_NOT_LOADED"
	CodeInternal            = "INTERNAL_ERROR"
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Code       string `json:"code"`
}

// Error implements the error interface.
func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError builds an APIError.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{StatusCode: status, Code: code, Message: message}
}

var errNotLoaded = NewAPIError(http.StatusInternalServerError, CodeDatasetNotLoaded, "dataset not loaded")

// toAPIError maps domain errors to HTTP responses. Bad column requests are
// client errors; anything else is a 500.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, dataset.ErrColumnNotFound):
		return NewAPIError(http.StatusBadRequest, CodeInvalidColumn, err.Error())
	case errors.Is(err, analysis.ErrNotNumeric):
		return NewAPIError(http.StatusBadRequest, CodeNotNumeric, err.Error())
	case errors.Is(err, analysis.ErrInsufficientNumeric):
		return NewAPIError(http.StatusBadRequest, CodeInsufficientNumeric, err.Error())
	default:
		return NewAPIError(http.StatusInternalServerError, CodeInternal, err.Error())
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	logger(r).WithError(err).WithField("status", apiErr.StatusCode).Warn("request failed")
	_ = render.Render(w, r, apiErr)
}
