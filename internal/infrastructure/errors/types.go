package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode classifies storage-layer failures.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodeDuplicate
	ErrCodeConstraint
	ErrCodeConnection
	ErrCodeTransaction
	ErrCodeTimeout
	ErrCodeValidation
	ErrCodePermission
	ErrCodeDiskSpace
	ErrCodeCorruption
	ErrCodeBusy
	ErrCodeSchema
	ErrCodeInternal
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeDuplicate:
		return "DUPLICATE"
	case ErrCodeConstraint:
		return "CONSTRAINT"
	case ErrCodeConnection:
		return "CONNECTION"
	case ErrCodeTransaction:
		return "TRANSACTION"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeDiskSpace:
		return "DISK_SPACE"
	case ErrCodeCorruption:
		return "CORRUPTION"
	case ErrCodeBusy:
		return "BUSY"
	case ErrCodeSchema:
		return "SCHEMA"
	case ErrCodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// StorageError wraps a storage failure with its operation, classification
// and retry information.
type StorageError struct {
	Op        string            // operation name, e.g. BatchInsertUsage
	Err       error             // underlying error
	Code      ErrorCode         // classification
	Retryable bool              // whether a retry can plausibly succeed
	Context   map[string]string // additional key/value context
	Timestamp time.Time         // when the error occurred
}

func (e *StorageError) Error() string {
	if e == nil {
		return "storage error"
	}

	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}
	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	// Context keys in deterministic order.
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	suffix := ""
	if len(parts) > 0 {
		suffix = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + suffix
	}
	return "storage error" + suffix
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches other StorageErrors by code, and otherwise defers to the
// wrapped error.
func (e *StorageError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*StorageError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *StorageError) IsRetryable() bool {
	return e != nil && e.Retryable
}

// GetCode returns the error code as a string (logging interface compatibility)
func (e *StorageError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (logging interface compatibility)
func (e *StorageError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return map[string]string{}
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (logging interface compatibility)
func (e *StorageError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// NewStorageError creates a classified storage error.
func NewStorageError(op string, err error, code ErrorCode) *StorageError {
	return &StorageError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableCode(code, err),
		Context:   map[string]string{},
		Timestamp: time.Now(),
	}
}

// NewStorageErrorWithContext creates a classified storage error carrying
// extra context. The context map is copied.
func NewStorageErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *StorageError {
	storageErr := NewStorageError(op, err, code)
	if len(context) > 0 {
		storageErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			storageErr.Context[k] = v
		}
	}
	return storageErr
}

// isRetryableCode decides retryability from the classification; unknown
// codes fall back to message sniffing.
func isRetryableCode(code ErrorCode, err error) bool {
	switch code {
	case ErrCodeConnection, ErrCodeTimeout, ErrCodeTransaction, ErrCodeBusy:
		return true
	case ErrCodeNotFound, ErrCodeDuplicate, ErrCodeConstraint, ErrCodeValidation,
		ErrCodePermission, ErrCodeDiskSpace, ErrCodeCorruption, ErrCodeSchema, ErrCodeInternal:
		return false
	default:
		if err == nil {
			return false
		}
		msg := strings.ToLower(err.Error())
		return strings.Contains(msg, "temporary") ||
			strings.Contains(msg, "retry") ||
			strings.Contains(msg, "busy") ||
			strings.Contains(msg, "locked")
	}
}

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConnection checks if the error is a connection error
func IsConnection(err error) bool {
	return hasCode(err, ErrCodeConnection)
}

// IsTransaction checks if the error is a transaction error
func IsTransaction(err error) bool {
	return hasCode(err, ErrCodeTransaction)
}

// IsTimeout checks if the error is a timeout error
func IsTimeout(err error) bool {
	return hasCode(err, ErrCodeTimeout)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsBusy checks if the error is a busy/locked error
func IsBusy(err error) bool {
	return hasCode(err, ErrCodeBusy)
}

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Retryable
	}
	return false
}

func hasCode(err error, code ErrorCode) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Code == code
	}
	return false
}
