package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the orchestrator failure taxonomy. Every external
// process failure is translated into exactly one of these at the process
// manager boundary before it surfaces to a caller.
var (
	ErrPlatformAuthRequired   = errors.New("platform authentication required")
	ErrNoOutputProduced       = errors.New("no output produced")
	ErrProcessSpawnFailure    = errors.New("process spawn failure")
	ErrProcessAbnormalExit    = errors.New("process abnormal exit")
	ErrAudioTopologyEmpty     = errors.New("audio topology empty")
	ErrChannelIndexOutOfRange = errors.New("channel index out of range")
	ErrArchiveFailure         = errors.New("archive failure")
	ErrConflict               = errors.New("session already active")
	ErrValidation             = errors.New("invalid request")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided taxonomy marker for later classification.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProcessAbnormalExit
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to its wire-level taxonomy name. Unclassified errors
// report as ProcessAbnormalExit so a client always receives a stable kind.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrPlatformAuthRequired):
		return "PlatformAuthRequired"
	case errors.Is(err, ErrNoOutputProduced):
		return "NoOutputProduced"
	case errors.Is(err, ErrProcessSpawnFailure):
		return "ProcessSpawnFailure"
	case errors.Is(err, ErrAudioTopologyEmpty):
		return "AudioTopologyEmpty"
	case errors.Is(err, ErrChannelIndexOutOfRange):
		return "ChannelIndexOutOfRange"
	case errors.Is(err, ErrArchiveFailure):
		return "ArchiveFailure"
	case errors.Is(err, ErrConflict):
		return "ConflictError"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	default:
		return "ProcessAbnormalExit"
	}
}

// AuthRequiredError carries platform-specific guidance for extractions that
// failed because the source demands an authenticated session.
type AuthRequiredError struct {
	Platform string
	Guidance string
	Detail   string
}

func (e *AuthRequiredError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s extraction requires authentication: %s", e.Platform, e.Detail)
	}
	return fmt.Sprintf("%s extraction requires authentication", e.Platform)
}

func (e *AuthRequiredError) Unwrap() error {
	return ErrPlatformAuthRequired
}

// GuidanceFor returns the platform guidance text when err carries an
// AuthRequiredError, and "" otherwise.
func GuidanceFor(err error) string {
	var authErr *AuthRequiredError
	if errors.As(err, &authErr) {
		return authErr.Guidance
	}
	return ""
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
