package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ClassifyError maps a database error onto an ErrorCode, trying the sqlite
// driver first, then stdlib sentinels, then message content.
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(msg, "constraint"):
		return ErrCodeConstraint
	case strings.Contains(msg, "database is locked"):
		return ErrCodeBusy
	case strings.Contains(msg, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return ErrCodeSchema
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "access denied"):
		return ErrCodePermission
	case strings.Contains(msg, "disk full"), strings.Contains(msg, "no space left"):
		return ErrCodeDiskSpace
	case strings.Contains(msg, "timeout"):
		return ErrCodeTimeout
	case strings.Contains(msg, "connection"):
		return ErrCodeConnection
	default:
		return ErrCodeUnknown
	}
}

// WrapDatabaseError wraps a database error as a classified StorageError.
func WrapDatabaseError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewStorageError(op, err, ClassifyError(err))
}

// WrapDatabaseErrorWithContext wraps a database error with extra context.
func WrapDatabaseErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewStorageErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleNotFound creates a standardized not-found error.
func HandleNotFound(op, resource, identifier string) error {
	return NewStorageErrorWithContext(op, sql.ErrNoRows, ErrCodeNotFound, map[string]string{
		"resource":   resource,
		"identifier": identifier,
	})
}

// HandleValidationError creates a standardized validation error.
func HandleValidationError(op, field, value, reason string) error {
	return NewStorageErrorWithContext(op, errors.New("validation failed"), ErrCodeValidation, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// HandleConnectionError creates a standardized connection error.
func HandleConnectionError(op, details string) error {
	return NewStorageErrorWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}
