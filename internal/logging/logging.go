// Package logging provides the terminal message surface of passimport.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	bold        = color.New(color.Bold)
	green       = color.New(color.FgGreen)
	yellow      = color.New(color.FgYellow)
	magenta     = color.New(color.FgMagenta)
	boldGreen   = color.New(color.Bold, color.FgHiGreen)
	boldYellow  = color.New(color.Bold, color.FgHiYellow)
	boldMagenta = color.New(color.Bold, color.FgHiMagenta)
	boldRed     = color.New(color.Bold, color.FgHiRed)
)

// Logger writes status messages for an import run. Quiet mode
// suppresses everything except errors; verbose mode adds per-entry
// detail. Quiet wins over verbose.
type Logger struct {
	verbose bool
	quiet   bool
	out     io.Writer
	errOut  io.Writer
}

// New creates a new logger instance.
func New(verbose, quiet bool) *Logger {
	if quiet {
		verbose = false
	}
	return &Logger{
		verbose: verbose,
		quiet:   quiet,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// NewWithWriters creates a logger with custom destinations, for tests.
func NewWithWriters(verbose, quiet bool, out, errOut io.Writer) *Logger {
	l := New(verbose, quiet)
	l.out = out
	l.errOut = errOut
	return l
}

// Verbose prints a titled detail line when verbose mode is enabled.
func (l *Logger) Verbose(title, msg string) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, "%s%s: %s\n",
		boldMagenta.Sprint("  .  "), magenta.Sprint(title), msg)
}

// Message prints a regular status line.
func (l *Logger) Message(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n",
		bold.Sprint("  .  "), fmt.Sprintf(format, args...))
}

// Echo prints an indented plain line, used for listings.
func (l *Logger) Echo(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "       %s\n", fmt.Sprintf(format, args...))
}

// Success prints a highlighted success line.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n",
		boldGreen.Sprint(" (*) "), green.Sprintf(format, args...))
}

// Warning prints a warning line.
func (l *Logger) Warning(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n",
		boldYellow.Sprint("  w  "), yellow.Sprintf(format, args...))
}

// Error prints an error line. Errors are never suppressed.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.errOut, "%s%s%s\n",
		boldRed.Sprint(" [x] "), bold.Sprint("Error: "), fmt.Sprintf(format, args...))
}

// IsQuiet reports whether the logger suppresses regular output.
func (l *Logger) IsQuiet() bool {
	return l.quiet
}

// IsVerbose reports whether per-entry detail is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose
}
