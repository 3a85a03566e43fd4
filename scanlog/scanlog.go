// Copyright ©2015 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanlog provides a small leveled logger, threaded explicitly
// through the scanner and VCF emitter rather than held as a package
// global, wrapping the standard library's log.Logger the way the rest
// of the corpus wraps it for a single process's stderr stream.
package scanlog

import (
	"fmt"
	"io"
	"log"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warning
	Error
)

// ParseLevel parses one of "trace", "debug", "info", "warning", "error"
// (case-sensitive, matching the CLI flag's accepted values).
func ParseLevel(s string) (Level, error) {
	switch s {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	default:
		return 0, fmt.Errorf("scanlog: unknown log level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled wrapper around a standard library *log.Logger. A
// Logger is passed by value explicitly to whichever component needs
// it; there is no package-level default.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a Logger writing to w, filtering out messages below
// level.
func New(w io.Writer, level Level) Logger {
	return Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

func (l Logger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.out.Printf("["+level.String()+"] "+format, args...)
}

func (l Logger) Tracef(format string, args ...any)   { l.log(Trace, format, args...) }
func (l Logger) Debugf(format string, args ...any)   { l.log(Debug, format, args...) }
func (l Logger) Infof(format string, args ...any)    { l.log(Info, format, args...) }
func (l Logger) Warningf(format string, args ...any) { l.log(Warning, format, args...) }
func (l Logger) Errorf(format string, args ...any)   { l.log(Error, format, args...) }
