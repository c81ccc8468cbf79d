// Package httputil provides HTTP helpers shared by the sidediff API server.
//
// # Overview
//
//   - [RequestID]: middleware that tags each request with an X-Request-ID
//   - [DecodeJSON]: strict, size-limited request body decoding
//   - [WriteJSON] and [WriteError]: response encoding
//
// # Errors
//
// [WriteError] maps the structured codes of package errors to HTTP status
// codes via errors.HTTPStatus and writes a {code, message} body:
//
//	{"code": "INVALID_GRANULARITY", "message": "invalid granularity: ..."}
//
// Errors without a code are reported as INTERNAL_ERROR with a generic
// message so internal details never reach clients.
package httputil
