package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrUnknownItem                 = errors.New("unknown item")
	ErrInsufficientTopics          = errors.New("insufficient topics")
	ErrMissingDevelopmentDirectory = errors.New("development directory does not exist")
	ErrConfiguration               = errors.New("configuration error")
	ErrTemplate                    = errors.New("template error")
	ErrResource                    = errors.New("resource error")
	ErrLaunch                      = errors.New("launch error")
	ErrAlreadyActive               = errors.New("exit current project first")
	ErrNotActive                   = errors.New("enter a project first")
)

// UnknownItemError is returned when the registry has no node for a path.
// Available lists the siblings that do exist.
type UnknownItemError struct {
	Item      string
	Available []string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("%q not found", e.Item)
}

func (e *UnknownItemError) Is(target error) bool {
	return target == ErrUnknownItem
}

// MissingDevelopmentDirectoryError signals that enter mode was requested for
// a directory that does not exist yet. It is recoverable: the caller may
// create the directory and launch anyway.
type MissingDevelopmentDirectoryError struct {
	Path string
}

func (e *MissingDevelopmentDirectoryError) Error() string {
	return fmt.Sprintf("development directory %s does not exist", e.Path)
}

func (e *MissingDevelopmentDirectoryError) Is(target error) bool {
	return target == ErrMissingDevelopmentDirectory
}

// SignalError reports a signal that interrupted a launch before the shell
// started.
type SignalError struct {
	Signal string
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

func (e *SignalError) Is(target error) bool {
	return target == ErrLaunch
}

// ExitStatus carries a subshell's non-zero exit status up to main.
type ExitStatus int

func (s ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(s))
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	var status ExitStatus
	switch {
	case err == nil:
		return ExitNormal
	case errors.As(err, &status):
		return int(status)
	case errors.Is(err, ErrUnknownItem),
		errors.Is(err, ErrInsufficientTopics),
		errors.Is(err, ErrMissingDevelopmentDirectory),
		errors.Is(err, ErrAlreadyActive),
		errors.Is(err, ErrNotActive):
		return ExitUserError
	case errors.Is(err, ErrConfiguration):
		return ExitProjectError
	case errors.Is(err, ErrTemplate):
		return ExitTemplateError
	default:
		return ExitProgramError
	}
}
