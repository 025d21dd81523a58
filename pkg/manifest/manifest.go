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

// Package manifest defines the batch manifest: the list of files signed in a
// single sign-all run together with the hash of each file's signature.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

// FileName is the manifest's name inside the signed tree.
const FileName = "manifest.json"

// Entry records one signed file.
type Entry struct {
	// Path is relative to the batch root, with '/' separators.
	Path string `json:"path"`

	// SignatureHash is the hex-encoded signature of the file, matching the
	// ledger entry written for it.
	SignatureHash string `json:"signature_hash"`
}

// Manifest lists the entries of one batch run in signing order.
type Manifest struct {
	Entries []Entry `json:"entries"`
}

// New returns an empty manifest that serializes its entries as [] rather
// than null.
func New() *Manifest {
	return &Manifest{Entries: []Entry{}}
}

// Add appends an entry.
func (m *Manifest) Add(path, signatureHash string) {
	m.Entries = append(m.Entries, Entry{Path: path, SignatureHash: signatureHash})
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Marshal renders the manifest as 2-space indented JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// Write writes the manifest to path, replacing any previous one.
func (m *Manifest) Write(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	//nolint:gosec // G306: the manifest is a public artifact
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, path, "failed to write manifest", err)
	}
	return nil
}
