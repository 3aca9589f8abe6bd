// Package log provides the minimal leveled logging surface used across the
// migration engine and its CLI. It mirrors the plain stderr/stdout logger
// style of the teacher project rather than pulling in a structured logging
// library, since only a handful of debug/trace/fatal call sites exist.
package log

import (
	"fmt"
	"os"
)

var (
	debugEnabled bool
	traceEnabled bool
)

// SetDebug toggles DEBUG-level output.
func SetDebug(on bool) { debugEnabled = on }

// SetTrace toggles TRACE-level output (implies DEBUG).
func SetTrace(on bool) {
	traceEnabled = on
	if on {
		debugEnabled = true
	}
}

// Printf writes a formatted line to stdout.
func Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// PrintfStdErr writes a formatted line to stderr.
func PrintfStdErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// DEBUG writes a formatted line to stderr when debug output is enabled.
func DEBUG(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "DEBUG> "+format+"\n", args...)
	}
}

// TRACE writes a formatted line to stderr when trace output is enabled.
func TRACE(format string, args ...interface{}) {
	if traceEnabled {
		fmt.Fprintf(os.Stderr, "TRACE> "+format+"\n", args...)
	}
}

// Fatal writes a formatted line to stderr and exits the process.
func Fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
