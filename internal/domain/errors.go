package domain

import (
	"errors"
	"fmt"

	"github.com/apkdock/apkdock/internal/constants"
)

// Sentinel errors
var (
	ErrNotConfigured    = errors.New("apkdock not configured")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrNoRelease        = errors.New("no release found")
	ErrNoAPKAsset       = errors.New("release has no APK asset")
	ErrGitHubError      = errors.New("GitHub API error")
	ErrRegistryError    = errors.New("package registry error")
	ErrDownloadFailed   = errors.New("download failed")
	ErrStoreError       = errors.New("store error")
	ErrSyncError        = errors.New("sync error")
	ErrGitError         = errors.New("git error")
	ErrNotInRepo        = errors.New("not in a git repository")
	ErrFileNotFound     = errors.New("file not found")
	ErrRepoNotTracked   = errors.New("repository not tracked")
	ErrUserCancelled    = errors.New("operation cancelled by user")
	ErrFileSizeTooLarge = errors.New("file size exceeds limit")
)

// ExitCodeError wraps an error with an exit code
type ExitCodeError struct {
	Err      error
	ExitCode int
}

func (e *ExitCodeError) Error() string {
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// WrapWithExitCode wraps an error with an exit code based on the error type
func WrapWithExitCode(err error) *ExitCodeError {
	if err == nil {
		return nil
	}

	// Check if already wrapped
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	return &ExitCodeError{Err: err, ExitCode: errorToExitCode(err)}
}

// errorToExitCode maps errors to exit codes
func errorToExitCode(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return constants.ExitNotConfigured
	case errors.Is(err, ErrInvalidConfig):
		return constants.ExitInvalidConfig
	case errors.Is(err, ErrInvalidArgs):
		return constants.ExitInvalidArgs
	case errors.Is(err, ErrNoRelease), errors.Is(err, ErrNoAPKAsset):
		return constants.ExitNoRelease
	case errors.Is(err, ErrGitHubError):
		return constants.ExitGitHubError
	case errors.Is(err, ErrRegistryError):
		return constants.ExitRegistryError
	case errors.Is(err, ErrDownloadFailed):
		return constants.ExitDownloadFailed
	case errors.Is(err, ErrStoreError):
		return constants.ExitStoreError
	case errors.Is(err, ErrSyncError):
		return constants.ExitSyncError
	case errors.Is(err, ErrGitError), errors.Is(err, ErrNotInRepo):
		return constants.ExitGitError
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrRepoNotTracked):
		return constants.ExitNotFound
	case errors.Is(err, ErrUserCancelled):
		return constants.ExitUserCancelled
	default:
		return constants.ExitUnknownError
	}
}

// GetExitCode returns the exit code for an error
func GetExitCode(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}

	return errorToExitCode(err)
}

// Errorf creates a formatted error wrapping a sentinel error
func Errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}
