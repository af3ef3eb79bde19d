package api

import (
	"encoding/json"
	"fmt"
)

// Error is a non-2xx backend response. Detail carries the backend "detail"
// field when it is a plain string; Messages carries the msg fields when the
// detail is a structured validation array (422 responses).
type Error struct {
	Status   int
	Detail   string
	Messages []string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// FirstMessage returns the first structured validation message, falling back
// to the plain detail string.
func (e *Error) FirstMessage() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return e.Detail
}

// errorBody matches the backend error envelope {"detail": ...} where detail
// is either a string or an array of {"msg": ...} entries.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationEntry struct {
	Msg string `json:"msg"`
}

// parseError builds an *Error from a response body, tolerating bodies that
// are empty or not the expected envelope.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var entries []validationEntry
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		for _, entry := range entries {
			if entry.Msg != "" {
				apiErr.Messages = append(apiErr.Messages, entry.Msg)
			}
		}
	}
	return apiErr
}
