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

// Package key provides the local key-file signing capability.
package key

import (
	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/signing"
)

var _ signing.Signer = (*LocalKeySigner)(nil)

// LocalKeySigner signs with a Dilithium5 secret key read from disk. The key
// is loaded on every Sign call and never cached, so rotating the file takes
// effect immediately.
type LocalKeySigner struct {
	privateKeyPath string
}

// NewLocalKeySigner returns a signer for the raw secret key at path. The file
// is not touched until the first Sign.
func NewLocalKeySigner(privateKeyPath string) *LocalKeySigner {
	return &LocalKeySigner{privateKeyPath: privateKeyPath}
}

// Sign loads the key and signs digest. A missing or undecodable key file is
// a KindKey error.
func (s *LocalKeySigner) Sign(digest []byte) ([]byte, error) {
	sk, err := crypto.LoadPrivateKey(s.privateKeyPath)
	if err != nil {
		return nil, err
	}
	return crypto.SignDigest(sk, digest), nil
}
