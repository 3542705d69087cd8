package errors

import "net/http"

// Operation narrows how an ambiguous backend status is read.
type Operation int

const (
	OperationGeneric Operation = iota
	OperationVerifyCode
	OperationBindTable
)

// FromStatus converts a backend error status into the client taxonomy.
// The backend message, when present, is kept as details.
func FromStatus(status int, op Operation, backendMessage string) *BaseError {
	var base *BaseError

	switch {
	case status == http.StatusUnauthorized:
		base = ErrAuthExpired
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		switch op {
		case OperationVerifyCode:
			base = ErrInvalidCode
		case OperationBindTable:
			base = ErrTableNotFound
		default:
			base = ErrValidation
		}
	case status == http.StatusForbidden:
		base = ErrForbidden
	case status == http.StatusNotFound:
		if op == OperationBindTable {
			base = ErrTableNotFound
		} else {
			base = ErrNotFound
		}
	case status == http.StatusConflict:
		if op == OperationBindTable {
			base = ErrTableOccupied
		} else {
			base = ErrConflict
		}
	case status == http.StatusTooManyRequests:
		base = ErrTooManyRequests
	case status >= http.StatusInternalServerError:
		base = ErrServer
	default:
		base = ErrRequestFailed
	}

	if backendMessage == "" {
		return base
	}

	return base.WithDetails(backendMessage)
}
