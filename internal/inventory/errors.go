package inventory

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable classification of a scan error.
type ErrorCode string

// Error codes for the scan error taxonomy.
const (
	// ErrClassification: no detector matched the path, or a requested
	// type has no registered detector.
	ErrClassification ErrorCode = "classification"

	// ErrModuleAnalysis: a detector's deep analysis step failed.
	ErrModuleAnalysis ErrorCode = "module-analysis"

	// ErrPhaseSupport: the requested phase has no implementation.
	ErrPhaseSupport ErrorCode = "phase-support"

	// ErrResourceLimit: the file-count or memory limit was exceeded.
	// Fatal to the phase.
	ErrResourceLimit ErrorCode = "resource-limit"

	// ErrScanFailed wraps anything unanticipated.
	ErrScanFailed ErrorCode = "scan-failed"
)

// ScanError carries a classified error code, the offending path, and the
// phase that was active when the error occurred.
type ScanError struct {
	Code  ErrorCode
	Path  string
	Phase ScanPhase
	Err   error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	msg := string(e.Code)
	if e.Phase != "" {
		msg += " [" + string(e.Phase) + "]"
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ScanError with the same code, so callers
// can match with errors.Is against a sentinel &ScanError{Code: ...}.
func (e *ScanError) Is(target error) bool {
	var se *ScanError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// NewScanError builds a classified scan error.
func NewScanError(code ErrorCode, phase ScanPhase, path string, err error) *ScanError {
	return &ScanError{Code: code, Phase: phase, Path: path, Err: err}
}

// ClassificationError reports that a path could not be classified.
func ClassificationError(path string, err error) *ScanError {
	return &ScanError{Code: ErrClassification, Path: path, Err: err}
}

// ResourceLimitError reports that a configured limit was exceeded during
// the given phase.
func ResourceLimitError(phase ScanPhase, path string, limit string, value, max int64) *ScanError {
	return &ScanError{
		Code:  ErrResourceLimit,
		Phase: phase,
		Path:  path,
		Err:   fmt.Errorf("%s limit exceeded: %d >= %d", limit, value, max),
	}
}

// IsCode reports whether err is a ScanError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *ScanError
	return errors.As(err, &se) && se.Code == code
}
