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

package kms

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/hashing"
)

func testSeed(b byte) [crypto.SeedSize]byte {
	var seed [crypto.SeedSize]byte
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestSignaturesVerifyUnderExportedKey(t *testing.T) {
	signer := NewSigner(NewIdentity(testSeed(7)), WithLatency(0))
	verifier := crypto.Dilithium5Verifier{}

	for _, doc := range []string{"first", "second", "third"} {
		digest := hashing.Sum([]byte(doc)).Value()
		sig, err := signer.Sign(digest)
		require.NoError(t, err)
		assert.True(t, verifier.VerifySignature(signer.PublicKey(), digest, sig), doc)
	}
}

func TestIdentityIsStableAcrossSigners(t *testing.T) {
	id := NewIdentity(testSeed(1))
	a := NewSigner(id, WithLatency(0))
	b := NewSigner(id, WithLatency(0))
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	again := NewIdentity(testSeed(1))
	assert.Equal(t, id.PublicKey(), again.PublicKey(), "same seed must give the same identity")

	other := NewIdentity(testSeed(2))
	assert.False(t, bytes.Equal(id.PublicKey(), other.PublicKey()))
}

func TestRandomIdentity(t *testing.T) {
	id, err := NewRandomIdentity()
	require.NoError(t, err)
	signer := NewSigner(id, WithLatency(0))

	digest := hashing.Sum([]byte("sbom")).Value()
	sig, err := signer.Sign(digest)
	require.NoError(t, err)
	assert.True(t, crypto.Dilithium5Verifier{}.VerifySignature(id.PublicKey(), digest, sig))
}

func TestSignWaitsForLatency(t *testing.T) {
	clock := clockwork.NewFakeClock()
	signer := NewSigner(NewIdentity(testSeed(3)), WithClock(clock))

	done := make(chan []byte, 1)
	go func() {
		sig, _ := signer.Sign(make([]byte, 32))
		done <- sig
	}()

	require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
	select {
	case <-done:
		t.Fatal("Sign returned before the latency elapsed")
	default:
	}

	clock.Advance(DefaultLatency)
	select {
	case sig := <-done:
		assert.Len(t, sig, crypto.SignatureSize)
	case <-time.After(5 * time.Second):
		t.Fatal("Sign did not return after the latency elapsed")
	}
}

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed(" " + strings.Repeat("ab", crypto.SeedSize) + "\n")
	require.NoError(t, err)
	assert.Equal(t, testSeed(0xab), seed)

	_, err = ParseSeed("abcd")
	assert.True(t, errdefs.IsKind(err, errdefs.KindKey))

	_, err = ParseSeed(strings.Repeat("zz", crypto.SeedSize))
	assert.True(t, errdefs.IsKind(err, errdefs.KindKey))
}
