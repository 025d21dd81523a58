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
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is a single log record handed to a Formatter.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  Fields
}

// Formatter renders an Entry, including the trailing newline.
type Formatter interface {
	Format(e Entry) ([]byte, error)
}

// TextFormatter renders "[LEVEL] message key=value ..." with keys sorted.
type TextFormatter struct {
	// TimeFormat enables a leading timestamp when non-empty.
	TimeFormat string
	ShowLevel  bool
}

func (f *TextFormatter) Format(e Entry) ([]byte, error) {
	var b strings.Builder
	if f.TimeFormat != "" {
		b.WriteString(e.Time.Format(f.TimeFormat))
		b.WriteByte(' ')
	}
	if f.ShowLevel {
		fmt.Fprintf(&b, "[%s] ", strings.ToUpper(e.Level.String()))
	}
	b.WriteString(e.Message)
	for _, k := range sortedKeys(e.Fields) {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter renders one JSON object per line. Fields are nested under
// "fields" so they can never shadow the fixed keys.
type JSONFormatter struct {
	// TimeFormat defaults to time.RFC3339.
	TimeFormat string
}

type jsonEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
	Fields  Fields `json:"fields,omitempty"`
}

func (f *JSONFormatter) Format(e Entry) ([]byte, error) {
	layout := f.TimeFormat
	if layout == "" {
		layout = time.RFC3339
	}
	fields := make(Fields, len(e.Fields))
	for k, v := range e.Fields {
		// errors marshal as {} otherwise
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fields[k] = v
	}
	data, err := json.Marshal(jsonEntry{
		Time:    e.Time.Format(layout),
		Level:   e.Level.String(),
		Message: e.Message,
		Fields:  fields,
	})
	if err != nil {
		return nil, fmt.Errorf("json log entry: %w", err)
	}
	return append(data, '\n'), nil
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
