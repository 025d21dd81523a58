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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level Level, format Format) *StdLogger {
	l := New(Options{Level: level, Format: format, Output: buf})
	l.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"off", LevelSilent, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat("plain"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(plain) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn, FormatText)

	l.Debug("d")
	l.Info("i")
	l.Warn("w %d", 1)
	l.Error("e")

	want := "[WARN] w 1\n[ERROR] e\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if l.Enabled(LevelInfo) || !l.Enabled(LevelError) {
		t.Error("Enabled does not match the configured level")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	for _, lvl := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if l.Enabled(lvl) {
			t.Errorf("Discard logger enabled at %v", lvl)
		}
	}
}

func TestTextFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelInfo, FormatText)

	l.WithFields(Fields{"zeta": 1, "alpha": "a"}).WithField("mid", true).Info("signed")

	want := "[INFO] signed alpha=a mid=true zeta=1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, LevelInfo, FormatText)
	_ = parent.WithField("file", "a.json")

	parent.Info("plain")
	if strings.Contains(buf.String(), "file=") {
		t.Errorf("parent logger picked up child field: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug, FormatJSON)

	l.WithFields(Fields{"file": "sbom.json", "err": errors.New("boom")}).Debug("stage %s", "digest")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["time"] != "2025-01-02T03:04:05Z" || got["level"] != "debug" || got["msg"] != "stage digest" {
		t.Errorf("unexpected entry: %v", got)
	}
	fields, ok := got["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("fields missing: %v", got)
	}
	if fields["file"] != "sbom.json" || fields["err"] != "boom" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestTextFormatterTimestamp(t *testing.T) {
	f := &TextFormatter{TimeFormat: "15:04:05"}
	out, err := f.Format(Entry{Time: time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC), Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "09:30:00 hi\n" {
		t.Errorf("Format() = %q", out)
	}
}

func TestEnsureLogger(t *testing.T) {
	if EnsureLogger(nil) == nil {
		t.Fatal("EnsureLogger(nil) returned nil")
	}
	l := Discard()
	if EnsureLogger(l) != l {
		t.Error("EnsureLogger should return the given logger")
	}
}
