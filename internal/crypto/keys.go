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

// Package crypto holds the Dilithium5 primitives: key generation, key file
// encoding, detached signing and verification. Everything above this package
// deals in raw byte slices so the algorithm stays an implementation detail.
package crypto

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudflare/circl/sign/dilithium/mode5"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

const (
	// PublicKeyFileName is the file generate-keys writes the public key to.
	PublicKeyFileName = "public.key"
	// PrivateKeyFileName is the file generate-keys writes the secret key to.
	PrivateKeyFileName = "private.key"

	// SeedSize is the size of the seed that deterministically derives a key pair.
	SeedSize = mode5.SeedSize
	// SignatureSize is the length of a detached Dilithium5 signature.
	SignatureSize = mode5.SignatureSize
	// PublicKeySize is the length of an encoded public key.
	PublicKeySize = mode5.PublicKeySize
	// PrivateKeySize is the length of an encoded secret key.
	PrivateKeySize = mode5.PrivateKeySize
)

// KeyPair is a Dilithium5 key pair.
type KeyPair struct {
	Public  *mode5.PublicKey
	Private *mode5.PrivateKey
}

// GenerateKeyPair creates a fresh key pair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	pk, sk, err := mode5.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Dilithium5 key pair: %w", err)
	}
	return &KeyPair{Public: pk, Private: sk}, nil
}

// KeyPairFromSeed deterministically derives a key pair from seed. The same
// seed always yields the same key pair.
func KeyPairFromSeed(seed [SeedSize]byte) *KeyPair {
	pk, sk := mode5.NewKeyFromSeed(&seed)
	return &KeyPair{Public: pk, Private: sk}
}

// PublicKeyBytes returns the encoded public key.
func (kp *KeyPair) PublicKeyBytes() []byte {
	return kp.Public.Bytes()
}

// WriteKeyPair writes public.key and private.key into dir. The secret key is
// written with 0600 permissions.
func WriteKeyPair(kp *KeyPair, dir string) (publicPath, privatePath string, err error) {
	publicPath = filepath.Join(dir, PublicKeyFileName)
	privatePath = filepath.Join(dir, PrivateKeyFileName)

	//nolint:gosec // public keys are meant to be shared
	if err := os.WriteFile(publicPath, kp.Public.Bytes(), 0o644); err != nil {
		return "", "", errdefs.NewWithPath(errdefs.KindIO, publicPath, "failed to write public key", err)
	}
	if err := os.WriteFile(privatePath, kp.Private.Bytes(), 0o600); err != nil {
		return "", "", errdefs.NewWithPath(errdefs.KindIO, privatePath, "failed to write private key", err)
	}
	return publicPath, privatePath, nil
}

// LoadPrivateKey reads and decodes a raw secret key file.
// Both a missing file and undecodable contents are reported as KindKey.
func LoadPrivateKey(path string) (*mode5.PrivateKey, error) {
	//nolint:gosec // key path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindKey, path, "failed to read private key", err)
	}
	var sk mode5.PrivateKey
	if err := sk.UnmarshalBinary(data); err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindKey, path, "invalid private key", err)
	}
	return &sk, nil
}

// LoadPublicKey reads a raw public key file and returns its bytes after
// checking they decode as a Dilithium5 public key.
func LoadPublicKey(path string) ([]byte, error) {
	//nolint:gosec // key path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindKey, path, "failed to read public key", err)
	}
	if _, err := ParsePublicKey(data); err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindKey, path, "invalid public key", err)
	}
	return data, nil
}

// ParsePublicKey decodes raw public key bytes.
func ParsePublicKey(data []byte) (*mode5.PublicKey, error) {
	var pk mode5.PublicKey
	if err := pk.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &pk, nil
}
