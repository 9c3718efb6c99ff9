// Package errors defines the typed errors surfaced by the build watcher.
package errors

import (
	"errors"
	"fmt"
)

// FetchError represents a failure to list builds for one pipeline.
// A FetchError aborts the whole polling cycle.
type FetchError struct {
	PipelineID string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch builds for pipeline %s: %v", e.PipelineID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ConfigError indicates the configuration file could not be read or parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// GetPipelineID extracts the failing pipeline from an error chain if present.
func GetPipelineID(err error) string {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.PipelineID
	}
	return ""
}
