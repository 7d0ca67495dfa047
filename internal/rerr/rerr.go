// SPDX-License-Identifier: Unlicense OR MIT

// Package rerr defines the renderer's small typed errors, each a struct
// satisfying error so callers can type-switch on failure kind without
// parsing messages.
package rerr

import "fmt"

// ConfigError is a fatal CLI/config problem: bad arguments, a missing
// scene file, malformed JSON at the top level. Callers print it to
// stderr and exit 1.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SceneError is a recoverable problem with a single scene entity: an
// invalid material index, a negative sphere radius, a degenerate quad.
// Callers log it and skip the offending entity.
type SceneError struct {
	Msg string
}

func (e *SceneError) Error() string { return fmt.Sprintf("scene: %s", e.Msg) }

// IOError wraps a file or socket failure. In the worker it ends the work
// loop; in the master HTTP handler it becomes a 500.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("io: %s: %v", e.Msg, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// ProtocolError is a malformed HTTP request: bad JSON body, missing
// fields, CRC mismatch, a pixel-length mismatch. It always becomes a 400.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return e.Msg }

// CapacityError signals a payload larger than the transport accepts. It
// always becomes a 413.
type CapacityError struct {
	Msg string
}

func (e *CapacityError) Error() string { return e.Msg }
