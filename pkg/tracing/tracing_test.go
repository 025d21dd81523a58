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

package tracing

import (
	"context"
	"errors"
	"testing"
)

type recordingSpan struct {
	attrs map[string]interface{}
	err   error
	ended bool
}

func (s *recordingSpan) SetAttribute(k string, v interface{}) { s.attrs[k] = v }
func (s *recordingSpan) RecordError(err error)                { s.err = err }
func (s *recordingSpan) End()                                 { s.ended = true }

type recordingTracer struct {
	spans map[string]*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	s := &recordingSpan{attrs: map[string]interface{}{}}
	t.spans[name] = s
	return ctx, s
}

func TestRunWithoutTracer(t *testing.T) {
	SetTracer(nil)
	if Enabled() {
		t.Fatal("no-op tracer reported as enabled")
	}
	called := false
	err := Run(context.Background(), "sign", nil, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Errorf("Run() = %v, called = %v", err, called)
	}
}

func TestRunRecordsSpan(t *testing.T) {
	rt := &recordingTracer{spans: map[string]*recordingSpan{}}
	SetTracer(rt)
	defer SetTracer(nil)

	wantErr := errors.New("verification failed")
	err := Run(context.Background(), "verify", map[string]interface{}{"file": "sbom.json"}, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}

	span, ok := rt.spans["verify"]
	if !ok {
		t.Fatal("span not started")
	}
	if !span.ended {
		t.Error("span not ended")
	}
	if span.attrs["file"] != "sbom.json" {
		t.Errorf("attrs = %v", span.attrs)
	}
	if !errors.Is(span.err, wantErr) {
		t.Errorf("recorded error = %v", span.err)
	}
}
