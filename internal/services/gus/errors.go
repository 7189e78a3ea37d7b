package gus

import (
	"encoding/json"
	"fmt"
)

// FailureReason discriminates the terminal failure states of the OAuth
// authorization flow so callers and tests can tell them apart.
type FailureReason string

const (
	FailureBind          FailureReason = "bind-error"
	FailureTimeout       FailureReason = "timeout"
	FailureOAuth         FailureReason = "oauth-error"
	FailureInvalidState  FailureReason = "invalid-state"
	FailureNoCode        FailureReason = "no-code"
	FailureTokenExchange FailureReason = "token-exchange-error"
)

// FlowError is a terminal login-flow failure. Message is end-user legible;
// callers surface it as-is.
type FlowError struct {
	Reason  FailureReason
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("login failed (%s): %s", e.Reason, e.Message)
}

// APIError represents a non-success response from a GUS REST endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GUS API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// remoteErrorMessage extracts a human-readable message from a GUS error
// response body. The REST data endpoints answer with a JSON array of
// {message, errorCode}; the OAuth token endpoint answers with
// {error, error_description}. A malformed or empty body is treated as an
// empty object and the status code becomes the message - the HTTP status,
// not the body, is the primary failure signal.
func remoteErrorMessage(body []byte, statusCode int) string {
	var list []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].Message != "" {
		return list[0].Message
	}

	var obj struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if obj.ErrorDescription != "" {
			return obj.ErrorDescription
		}
		if obj.Error != "" {
			return obj.Error
		}
	}

	return fmt.Sprintf("HTTP %d", statusCode)
}

// decodeLoose unmarshals a response body into v, treating malformed or
// absent JSON as an empty object. Callers rely on the HTTP status code, not
// the body, as the success signal.
func decodeLoose(body []byte, v interface{}) {
	if len(body) == 0 {
		return
	}
	_ = json.Unmarshal(body, v)
}
