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

// Package sbom performs the structural check applied to a document before it
// is signed. It only recognizes the top-level marker of the two common
// bill-of-materials formats; it does not validate either schema.
package sbom

import (
	"github.com/tidwall/gjson"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

// Format identifies the recognized bill-of-materials family.
type Format string

const (
	FormatCycloneDX Format = "CycloneDX"
	FormatSPDX      Format = "SPDX"
)

const invalidMessage = "Invalid SBOM: missing bomFormat (CycloneDX) or spdxVersion (SPDX)"

// Validate accepts a JSON object whose bomFormat is exactly "CycloneDX" or
// which carries a string spdxVersion. Anything else is a KindFormat error.
func Validate(data []byte) (Format, error) {
	if !gjson.ValidBytes(data) {
		return "", errdefs.New(errdefs.KindFormat, "Invalid SBOM: not valid JSON", nil)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return "", errdefs.New(errdefs.KindFormat, invalidMessage, nil)
	}

	// Duplicate keys resolve to their last occurrence.
	var bomFormat, spdxVersion gjson.Result
	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "bomFormat":
			bomFormat = value
		case "spdxVersion":
			spdxVersion = value
		}
		return true
	})

	if bomFormat.Type == gjson.String && bomFormat.Str == string(FormatCycloneDX) {
		return FormatCycloneDX, nil
	}
	if spdxVersion.Type == gjson.String {
		return FormatSPDX, nil
	}
	return "", errdefs.New(errdefs.KindFormat, invalidMessage, nil)
}
