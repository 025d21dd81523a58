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

// Package hashing is the digest engine: it turns artifact bytes into the
// fixed-size message that the signing capability actually signs.
//
// Hashing itself cannot fail; the only errors come from obtaining the bytes.
package hashing

import (
	"hash"
	"io"
	"os"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/hashing/digests"
	"golang.org/x/crypto/sha3"
)

// AlgorithmSHA3_256 is the canonical name of the only supported digest.
//
//nolint:revive
const AlgorithmSHA3_256 = "sha3-256"

// Engine defines the streaming interface for computing a digest.
type Engine interface {
	// Update appends bytes to the hash state.
	Update(data []byte)
	// Reset clears the hash state.
	Reset()
	// Compute returns the digest of everything written since the last Reset.
	Compute() digests.Digest
	// DigestName returns the canonical algorithm name.
	DigestName() string
	// DigestSize returns the size in bytes of produced digests.
	DigestSize() int
}

var (
	_ Engine    = (*SHA3Engine)(nil)
	_ io.Writer = (*SHA3Engine)(nil)
)

// SHA3Engine is an Engine that wraps SHA3-256.
type SHA3Engine struct {
	h hash.Hash
}

// NewSHA3Engine constructs a new SHA3-256 engine.
func NewSHA3Engine() *SHA3Engine {
	return &SHA3Engine{h: sha3.New256()}
}

// Update appends more bytes into the hash state.
func (e *SHA3Engine) Update(data []byte) {
	if len(data) > 0 {
		// hash.Hash.Write never returns an error
		_, _ = e.h.Write(data)
	}
}

// Write lets the engine be the destination of io.Copy.
func (e *SHA3Engine) Write(p []byte) (int, error) {
	e.Update(p)
	return len(p), nil
}

// Reset clears the hash state.
func (e *SHA3Engine) Reset() {
	e.h.Reset()
}

// Compute finalizes the hash and returns a Digest value. The engine state is
// left untouched so more data may still be appended.
func (e *SHA3Engine) Compute() digests.Digest {
	return digests.NewDigest(AlgorithmSHA3_256, e.h.Sum(nil))
}

// DigestName returns the algorithm identifier.
func (e *SHA3Engine) DigestName() string {
	return AlgorithmSHA3_256
}

// DigestSize returns the byte length of the produced digest.
func (e *SHA3Engine) DigestSize() int {
	return e.h.Size()
}

// Sum computes the SHA3-256 digest of data.
func Sum(data []byte) digests.Digest {
	e := NewSHA3Engine()
	e.Update(data)
	return e.Compute()
}

// SumFile streams the file at path through a SHA3-256 engine. A read failure
// is reported as an errdefs.KindIO error.
func SumFile(path string) (digests.Digest, error) {
	//nolint:gosec // path is supplied by the caller on purpose
	f, err := os.Open(path)
	if err != nil {
		return digests.Digest{}, errdefs.NewWithPath(errdefs.KindIO, path, "failed to open artifact", err)
	}
	defer f.Close()

	e := NewSHA3Engine()
	if _, err := io.Copy(e, f); err != nil {
		return digests.Digest{}, errdefs.NewWithPath(errdefs.KindIO, path, "failed to read artifact", err)
	}
	return e.Compute(), nil
}
