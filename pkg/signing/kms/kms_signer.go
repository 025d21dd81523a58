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

// Package kms simulates a remote key-management service. Key material lives
// in an explicitly constructed Identity and every signing call pays a fixed
// network-like latency.
package kms

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/signing"
)

// DefaultLatency is the simulated round trip per Sign call.
const DefaultLatency = 100 * time.Millisecond

var _ signing.Signer = (*Signer)(nil)

// Identity is the service's key pair. It is immutable once built and may be
// shared by any number of Signers.
type Identity struct {
	keys *crypto.KeyPair
}

// NewIdentity derives a reproducible identity from seed.
func NewIdentity(seed [crypto.SeedSize]byte) *Identity {
	return &Identity{keys: crypto.KeyPairFromSeed(seed)}
}

// NewRandomIdentity generates a fresh identity. Signatures it produces can
// only be verified with its exported PublicKey.
func NewRandomIdentity() (*Identity, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Identity{keys: kp}, nil
}

// ParseSeed decodes a hex seed of exactly crypto.SeedSize bytes.
func ParseSeed(s string) ([crypto.SeedSize]byte, error) {
	var seed [crypto.SeedSize]byte
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return seed, errdefs.New(errdefs.KindKey, "invalid KMS seed hex", err)
	}
	if len(raw) != crypto.SeedSize {
		return seed, errdefs.New(errdefs.KindKey, "KMS seed must be 32 bytes", nil)
	}
	copy(seed[:], raw)
	return seed, nil
}

// PublicKey returns the raw public key bytes, in the same format as a
// public.key file.
func (id *Identity) PublicKey() []byte {
	return id.keys.PublicKeyBytes()
}

// Signer signs on behalf of an Identity.
type Signer struct {
	identity *Identity
	latency  time.Duration
	clock    clockwork.Clock
}

// Option configures a Signer.
type Option func(*Signer)

// WithLatency overrides DefaultLatency. Zero disables the delay.
func WithLatency(d time.Duration) Option {
	return func(s *Signer) { s.latency = d }
}

// WithClock sets the clock used to wait out the latency.
func WithClock(c clockwork.Clock) Option {
	return func(s *Signer) { s.clock = c }
}

// NewSigner returns a Signer for id.
func NewSigner(id *Identity, opts ...Option) *Signer {
	s := &Signer{
		identity: id,
		latency:  DefaultLatency,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign waits out the simulated latency and signs digest. It never fails.
func (s *Signer) Sign(digest []byte) ([]byte, error) {
	if s.latency > 0 {
		s.clock.Sleep(s.latency)
	}
	return crypto.SignDigest(s.identity.keys.Private, digest), nil
}

// PublicKey returns the identity's public key.
func (s *Signer) PublicKey() []byte {
	return s.identity.PublicKey()
}
