// Copyright (c) 2026 akt authors
// akt - authorized_keys audit tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package logging provides the application logger. It wraps
// charmbracelet/log behind a handful of formatted helpers so call sites
// stay short and the logger can be silenced or retargeted in one place.
package logging // import "github.com/aktool/akt/internal/logging"

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below for compatibility with existing calls.
var L = clog.New(os.Stderr)

// SetLevel configures the logger from a level name. The zero value of the
// tool is silent: "off" (or an empty string) discards all output, which is
// also the CLI default. Unknown names are treated as "info".
func SetLevel(level string) {
	if level == "" || level == "off" {
		L.SetOutput(io.Discard)
		return
	}
	L.SetOutput(os.Stderr)
	parsed, err := clog.ParseLevel(level)
	if err != nil {
		parsed = clog.InfoLevel
	}
	L.SetLevel(parsed)
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}
