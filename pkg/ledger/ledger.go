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

// Package ledger implements the local transparency log: an append-only JSON
// Lines file recording one entry per signing event.
//
// Entries are never edited or removed. Appends are serialized within the
// process by a mutex and across processes by an exclusive flock on a
// companion "<ledger>.lock" file, and each line is written with a single
// write on an O_APPEND descriptor, so concurrent writers cannot interleave
// partial lines.
package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"go.uber.org/multierr"
)

// DefaultPath is the ledger file used when none is configured.
const DefaultPath = "ledger.json"

// lockSuffix names the companion lock file.
const lockSuffix = ".lock"

// maxLineSize bounds a single ledger line when reading.
const maxLineSize = 1 << 20

// Entry is one signing event.
type Entry struct {
	Timestamp     string `json:"timestamp"`
	FileName      string `json:"file_name"`
	SignatureHash string `json:"signature_hash"`
}

// Appender is implemented by anything that can durably record an Entry.
type Appender interface {
	Append(entry Entry) error
}

var _ Appender = (*Ledger)(nil)

// Ledger is a handle on a ledger file. It holds no open descriptor between
// appends; the file is opened, appended to and closed per entry.
type Ledger struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// New returns a Ledger backed by the file at path. The file is created on
// first append.
func New(path string) *Ledger {
	if path == "" {
		path = DefaultPath
	}
	return &Ledger{
		path: path,
		lock: flock.New(path + lockSuffix),
	}
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// LockPath returns the companion lock file guarding appends.
func (l *Ledger) LockPath() string {
	return l.lock.Path()
}

// Append writes entry as a single newline-terminated JSON line.
func (l *Ledger) Append(entry Entry) (err error) {
	line, err := json.Marshal(entry)
	if err != nil {
		return errdefs.New(errdefs.KindFormat, "failed to encode ledger entry", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.lock.Lock(); err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, l.lock.Path(), "failed to lock ledger", err)
	}
	defer func() {
		if uerr := l.lock.Unlock(); uerr != nil {
			err = multierr.Append(err, errdefs.NewWithPath(errdefs.KindIO, l.lock.Path(), "failed to unlock ledger", uerr))
		}
	}()

	//nolint:gosec // ledger path is supplied by the caller
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to open ledger", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to close ledger", cerr))
		}
	}()

	if _, err := f.Write(line); err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to write ledger", err)
	}
	if err := f.Sync(); err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to sync ledger", err)
	}
	return nil
}

// Entries reads every entry in append order. A missing ledger has no entries.
func (l *Ledger) Entries() ([]Entry, error) {
	//nolint:gosec // ledger path is supplied by the caller
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to open ledger", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, errdefs.NewWithPath(errdefs.KindFormat, l.path,
				fmt.Sprintf("invalid ledger entry on line %d", lineNo), err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindIO, l.path, "failed to read ledger", err)
	}
	return entries, nil
}
