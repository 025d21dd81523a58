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

package signature

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapProducesSidecarSchema(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	data, err := Wrap([]byte{0xde, 0xad, 0xbe, 0xef}, ts).Marshal()
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "deadbeef", decoded["signature"])
	assert.Equal(t, "2025-03-14T15:09:26Z", decoded["timestamp"])

	sig, gotTS, err := Unwrap(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, sig)
	require.NotNil(t, gotTS)
	parsed, err := gotTS.Time()
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestUnwrapLegacyRawBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x7b}
	sig, ts, err := Unwrap(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, sig)
	assert.Nil(t, ts)
}

func TestUnwrapWithoutTimestamp(t *testing.T) {
	sig, ts, err := Unwrap([]byte(`{"signature":"00ff"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, sig)
	assert.Nil(t, ts)
}

func TestUnwrapMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid JSON", `{"signature":`},
		{"not an object", `{]`},
		{"missing signature", `{"timestamp":"2025-01-01T00:00:00Z"}`},
		{"signature not a string", `{"signature":42}`},
		{"invalid hex", `{"signature":"zz"}`},
		{"odd-length hex", `{"signature":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Unwrap([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errdefs.IsKind(err, errdefs.KindFormat), "got %v", err)
		})
	}
}

func TestTimestampInvalid(t *testing.T) {
	_, err := Timestamp("yesterday").Time()
	assert.True(t, errdefs.IsKind(err, errdefs.KindFormat))
}

func TestWriteOverwritesAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sbom.json.sig")

	first := Wrap([]byte{0x01}, time.Unix(0, 0))
	require.NoError(t, first.Write(path))

	second := Wrap([]byte{0x02, 0x03}, time.Unix(60, 0))
	require.NoError(t, second.Write(path))

	sig, ts, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0203", hex.EncodeToString(sig))
	require.NotNil(t, ts)
	assert.Equal(t, Timestamp("1970-01-01T00:01:00Z"), *ts)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.sig"))
	assert.True(t, errdefs.IsKind(err, errdefs.KindIO))
}

func TestReadFileLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.sig")
	require.NoError(t, os.WriteFile(path, []byte{0x10, 0x20}, 0o600))

	sig, ts, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20}, sig)
	assert.Nil(t, ts)
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sbom.json", "sbom.json.sig"},
		{"dir/README", "dir/README.sig"},
		{"release.tar.gz", "release.tar.gz.sig"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SidecarPath(tt.in))
		assert.True(t, IsSidecar(SidecarPath(tt.in)))
	}
	assert.False(t, IsSidecar("sbom.json"))
}
