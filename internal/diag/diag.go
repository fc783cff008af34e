// Package diag provides the structured-logging sink shared by the
// three CLI tools. The reference saprobe binaries bootstrap logging
// through a private app-bootstrap package wired to zerolog; since that
// package isn't available outside its own organization, this module
// wires zerolog directly.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-formatted logger writing to w, tagged with the
// given tool name (quantize, encode, or decode).
func New(w io.Writer, tool string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminal(w)}

	return zerolog.New(console).With().Timestamp().Str("tool", tool).Logger()
}

// Stderr is a convenience constructor for the common case of logging to
// standard error.
func Stderr(tool string) zerolog.Logger {
	return New(os.Stderr, tool)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
