package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version. Bump only with a
// coordinated mobile client release; the client parses this field
// before anything else.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper for every API response.
// Success responses carry data; error responses carry error plus the
// optional code/message/details triple from APIError.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the Envelope
// structure. Registered as a huma transformer so handlers keep
// returning plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	// Other huma.StatusError implementations (schema validation, etc.)
	if errModel, ok := v.(huma.StatusError); ok {
		return Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   errModel.Error(),
		}, nil
	}

	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		return Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   "request failed",
		}, nil
	}

	return Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
