package api

import "errors"

// User-displayable messages for normalized transport failures. The UI shows
// these verbatim, so the wording is part of the contract.
const (
	MsgTimeout   = "Request timeout. Please try again."
	MsgNetwork   = "Network error. Please check your connection."
	MsgServer    = "Server error. Please try again later."
	MsgNotFound  = "Resource not found."
	MsgForbidden = "Access forbidden."
)

// Error is the normalized failure returned by the client. Status is zero
// when the request never produced a response (timeout, connection refused).
// 401 responses keep the server's own message so the refresh transport can
// recognize and handle them.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsStatus reports whether err is an api.Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
