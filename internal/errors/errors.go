package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/askeza/internal/logger"
)

var (
	// ErrNotFound is returned when an askeza, template, course or progress record does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyActive is returned when a template already has a run in progress
	ErrAlreadyActive = errors.New("already active")
	// ErrLifetimeExtension is returned when extending an askeza that has no end day
	ErrLifetimeExtension = errors.New("lifetime askeza cannot be extended")
	// ErrInvalidArgument is returned for out-of-range user input
	ErrInvalidArgument = errors.New("invalid argument")
)

// Is and As forward to the standard library so callers only import one errors package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
