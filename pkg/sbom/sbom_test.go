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

package sbom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "cyclonedx", input: `{"bomFormat":"CycloneDX","specVersion":"1.5","components":[]}`, want: FormatCycloneDX},
		{name: "spdx", input: `{"spdxVersion":"SPDX-2.3","SPDXID":"SPDXRef-DOCUMENT"}`, want: FormatSPDX},
		{name: "both markers", input: `{"bomFormat":"CycloneDX","spdxVersion":"SPDX-2.3"}`, want: FormatCycloneDX},
		{name: "other bomFormat falls back to spdx", input: `{"bomFormat":"Other","spdxVersion":"SPDX-2.2"}`, want: FormatSPDX},
		{name: "bomFormat case matters", input: `{"bomFormat":"cyclonedx"}`, wantErr: true},
		{name: "non-string spdxVersion", input: `{"spdxVersion":2.3}`, wantErr: true},
		{name: "no markers", input: `{"name":"x"}`, wantErr: true},
		{name: "array", input: `[{"bomFormat":"CycloneDX"}]`, wantErr: true},
		{name: "nested marker only", input: `{"metadata":{"bomFormat":"CycloneDX"}}`, wantErr: true},
		{name: "duplicate bomFormat, last wins", input: `{"bomFormat":"CycloneDX","bomFormat":"x"}`, wantErr: true},
		{name: "duplicate bomFormat, last is CycloneDX", input: `{"bomFormat":"x","bomFormat":"CycloneDX"}`, want: FormatCycloneDX},
		{name: "duplicate spdxVersion, last not a string", input: `{"spdxVersion":"SPDX-2.3","spdxVersion":null}`, wantErr: true},
		{name: "not json", input: `bomFormat: CycloneDX`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errdefs.IsKind(err, errdefs.KindFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
