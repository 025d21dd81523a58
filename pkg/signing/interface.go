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

// Package signing turns artifacts into signed, ledgered artifacts. It holds
// the signing capability abstraction, the single-file Pipeline and the
// directory-wide BatchSigner.
package signing

import "github.com/qsnotary/qs-notary/pkg/ledger"

// Signer produces a detached Dilithium5 signature over a digest. Local key
// files and the simulated remote key service both satisfy it.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
}

// Mirror forwards a ledger entry to a remote collector. Dispatch must not
// block the caller and must not report failure back to it.
type Mirror interface {
	Dispatch(entry ledger.Entry)
}

// SignOptions tunes a single SignFile call.
type SignOptions struct {
	// ValidateSBOM requires the artifact to be a CycloneDX or SPDX JSON
	// document before it is signed.
	ValidateSBOM bool
}

// Result describes one successfully signed artifact.
type Result struct {
	// SignatureHash is the hex-encoded signature, as recorded in the ledger.
	SignatureHash string
	SidecarPath   string
	// Timestamp is the RFC3339 issuance time shared by sidecar and ledger.
	Timestamp string
	// FileName is the artifact's base name.
	FileName string
}
