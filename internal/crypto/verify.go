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

package crypto

import (
	"github.com/cloudflare/circl/sign/dilithium/mode5"
)

// Dilithium5Verifier checks detached Dilithium5 signatures over digests.
type Dilithium5Verifier struct{}

// VerifySignature reports whether signature is a valid Dilithium5 signature
// over digest under publicKey. Malformed keys, wrong-length signatures and
// invalid signatures all yield false.
func (Dilithium5Verifier) VerifySignature(publicKey, digest, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return false
	}
	return mode5.Verify(pk, digest, signature)
}
