// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var _ Logger = (*StdLogger)(nil)

// Options configures a StdLogger.
type Options struct {
	Level Level
	// Format is ignored when Formatter is set.
	Format    Format
	Formatter Formatter
	// Output defaults to os.Stderr.
	Output io.Writer
}

// StdLogger is the built-in Logger. Child loggers created with WithField share
// the parent's writer and lock, so entries from a whole pipeline never
// interleave mid-line.
type StdLogger struct {
	out       *lockedWriter
	level     Level
	formatter Formatter
	fields    Fields
	now       func() time.Time
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// New builds a StdLogger from opts.
func New(opts Options) *StdLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	f := opts.Formatter
	if f == nil {
		if opts.Format == FormatJSON {
			f = &JSONFormatter{}
		} else {
			f = &TextFormatter{ShowLevel: true}
		}
	}
	return &StdLogger{
		out:       &lockedWriter{w: out},
		level:     opts.Level,
		formatter: f,
		now:       time.Now,
	}
}

func (l *StdLogger) Enabled(level Level) bool {
	return level != LevelSilent && level >= l.level
}

func (l *StdLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Fields{key: value})
}

func (l *StdLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	child := *l
	child.fields = merged
	return &child
}

func (l *StdLogger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *StdLogger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *StdLogger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *StdLogger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (l *StdLogger) log(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	data, err := l.formatter.Format(Entry{
		Time:    l.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		Fields:  l.fields,
	})
	if err != nil {
		data = []byte(fmt.Sprintf("logging error: %v\n", err))
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.w.Write(data)
}
