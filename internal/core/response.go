package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"shelfwatch/internal/types"
)

// maxRequestBodySize caps request bodies at 1 MB. Every payload this API
// accepts is a small JSON object; anything larger is a client bug.
const maxRequestBodySize = 1 << 20

// APIResponse wraps successful payloads.
type APIResponse struct {
	Data interface{} `json:"data,omitempty"`
}

// APIErrorResponse wraps error payloads.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the client-facing error shape. RequestID is always present
// so a support trail can correlate logs.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// JSON writes data as a JSON body with the given status. A value that cannot
// be marshalled degrades to a 500 error envelope instead of a broken body.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		writeErrorEnvelope(w, http.StatusInternalServerError, ErrorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "failed to marshal response",
			RequestID: types.GetRequestID(r.Context()),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes err as an error envelope. An AppError anywhere in the chain
// supplies the code, message, details, and HTTP status. Anything else becomes
// a plain 500 with a fixed message, so wrapped driver and transport errors
// never reach the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{
		Code:      string(types.ErrCodeInternalUnexpected),
		Message:   "an unexpected error occurred",
		RequestID: types.GetRequestID(r.Context()),
	}
	status := http.StatusInternalServerError

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		detail.Code = string(appErr.Code)
		detail.Message = appErr.Message
		detail.Details = appErr.Details
		status = appErr.HTTPStatus()
	}

	writeErrorEnvelope(w, status, detail)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, detail ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Error: detail})
}

// errCodeValidationInvalidJSON marks malformed request bodies. Handlers never
// construct it; it only comes out of DecodeJSON.
const errCodeValidationInvalidJSON types.ErrorCode = "validation_invalid_json"

// DecodeJSON reads the request body into dst. The body must be a single JSON
// object with no unknown fields, at most maxRequestBodySize bytes. Violations
// come back as validation_invalid_json (400).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return mapDecodeError(err)
	}
	if dec.More() {
		return decodeFail("request body must contain a single JSON object", nil)
	}
	return nil
}

func decodeFail(msg string, err error) *types.AppError {
	return types.NewAppError(errCodeValidationInvalidJSON, msg, err)
}

// mapDecodeError turns the json.Decoder error zoo into one AppError shape.
func mapDecodeError(err error) *types.AppError {
	var maxBytesErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &maxBytesErr):
		return decodeFail("request body must not exceed 1MB", err)
	case errors.As(err, &syntaxErr):
		return decodeFail("malformed JSON in request body", err)
	case errors.As(err, &typeErr):
		return decodeFail("invalid value for field", err).WithDetails(map[string]any{
			"field":    typeErr.Field,
			"expected": typeErr.Type.String(),
		})
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return decodeFail("unknown field in request body: "+field, err)
	case errors.Is(err, io.EOF):
		return decodeFail("request body must not be empty", err)
	default:
		return decodeFail("invalid JSON in request body", err)
	}
}
