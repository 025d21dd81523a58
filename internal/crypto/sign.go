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

// SignDigest produces a detached Dilithium5 signature over digest.
func SignDigest(sk *mode5.PrivateKey, digest []byte) []byte {
	sig := make([]byte, SignatureSize)
	mode5.SignTo(sk, digest, sig)
	return sig
}
