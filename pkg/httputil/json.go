package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/matzehuels/sidediff/pkg/errors"
)

// ErrorBody is the JSON body written for failed requests.
type ErrorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// DecodeJSON decodes the request body into v, reading at most maxBytes.
// Oversized bodies fail with INPUT_TOO_LARGE, malformed ones with
// INVALID_INPUT. A maxBytes of 0 or less disables the limit.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.New(apperrors.ErrCodeInputTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
		default:
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed JSON body")
		}
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "request body must contain a single JSON object")
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := apperrors.HTTPStatus(err)
	body := ErrorBody{
		Code:    apperrors.GetCode(err),
		Message: apperrors.UserMessage(err),
	}
	if body.Code == "" || status == http.StatusInternalServerError {
		body.Code = apperrors.ErrCodeInternal
		body.Message = "internal server error"
	}
	_ = WriteJSON(w, status, body)
	return status
}
