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

// Package signature is the sidecar codec. It wraps raw signature bytes and
// their issuance time into the portable JSON sidecar format and unwraps both
// that form and the legacy raw-bytes form, which carries no timestamp.
package signature

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

// Extension is appended to an artifact path to name its sidecar.
const Extension = ".sig"

// File is the persisted sidecar: {"signature": "<hex>", "timestamp": "<RFC3339>"}.
type File struct {
	Signature string `json:"signature"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Timestamp is the issuance time exactly as recorded in a sidecar. It is
// parsed lazily so a sidecar with an odd timestamp can still be verified when
// no age check is required.
type Timestamp string

// Time parses the timestamp as RFC3339.
func (ts Timestamp) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, string(ts))
	if err != nil {
		return time.Time{}, errdefs.New(errdefs.KindFormat, "invalid timestamp in signature", err)
	}
	return t, nil
}

// FormatTime renders t the way sidecars and ledger entries record it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Wrap builds the sidecar for sig issued at ts.
func Wrap(sig []byte, ts time.Time) File {
	return File{
		Signature: hex.EncodeToString(sig),
		Timestamp: FormatTime(ts),
	}
}

// Marshal serializes the sidecar to JSON.
func (f File) Marshal() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signature file: %w", err)
	}
	return data, nil
}

// Write serializes the sidecar to path, replacing any existing file.
// Sidecars are public artifacts and are written world-readable.
func (f File) Write(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	//nolint:gosec // G306: signature files are public
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errdefs.NewWithPath(errdefs.KindIO, path, "failed to write signature", err)
	}
	return nil
}

// Unwrap decodes sidecar bytes. Content starting with '{' is treated as the
// structured form; anything else is a legacy raw signature with no timestamp.
func Unwrap(data []byte) ([]byte, *Timestamp, error) {
	if len(data) == 0 || data[0] != '{' {
		return bytes.Clone(data), nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errdefs.New(errdefs.KindFormat, "invalid signature JSON", err)
	}

	sigField, ok := raw["signature"]
	if !ok {
		return nil, nil, errdefs.New(errdefs.KindFormat, "missing 'signature' in signature file", nil)
	}
	var sigHex string
	if err := json.Unmarshal(sigField, &sigHex); err != nil {
		return nil, nil, errdefs.New(errdefs.KindFormat, "'signature' must be a string", err)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, nil, errdefs.New(errdefs.KindFormat, "invalid signature hex", err)
	}

	var ts *Timestamp
	if tsField, ok := raw["timestamp"]; ok {
		var s string
		// A non-string timestamp is treated like an absent one.
		if err := json.Unmarshal(tsField, &s); err == nil {
			v := Timestamp(s)
			ts = &v
		}
	}
	return sig, ts, nil
}

// ReadFile reads and unwraps the sidecar at path.
func ReadFile(path string) ([]byte, *Timestamp, error) {
	//nolint:gosec // signature path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errdefs.NewWithPath(errdefs.KindIO, path, "failed to read signature", err)
	}
	sig, ts, err := Unwrap(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return sig, ts, nil
}

// SidecarPath returns the sidecar location for an artifact: ".sig" appended
// to the existing extension (sbom.json -> sbom.json.sig), or ".sig" when
// there is none (README -> README.sig).
func SidecarPath(artifactPath string) string {
	return artifactPath + Extension
}

// IsSidecar reports whether path names a signature sidecar.
func IsSidecar(path string) bool {
	return strings.HasSuffix(path, Extension)
}
