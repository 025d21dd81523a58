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

package signing

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/hashing"
	"github.com/qsnotary/qs-notary/pkg/ledger"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/sbom"
	"github.com/qsnotary/qs-notary/pkg/signature"
	"github.com/qsnotary/qs-notary/pkg/tracing"
)

// Pipeline signs one artifact at a time: read, optionally validate, digest,
// sign, write the sidecar, append to the ledger and hand the entry to the
// mirror. A failure at any step stops the run; nothing after it happens.
type Pipeline struct {
	signer Signer
	ledger ledger.Appender
	mirror Mirror
	clock  clockwork.Clock
	logger logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMirror forwards every ledger entry to m after it is appended.
func WithMirror(m Mirror) Option {
	return func(p *Pipeline) { p.mirror = m }
}

// WithClock sets the clock used for issuance timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline returns a Pipeline signing with signer and recording to l.
func NewPipeline(signer Signer, l ledger.Appender, opts ...Option) *Pipeline {
	p := &Pipeline{
		signer: signer,
		ledger: l,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.EnsureLogger(p.logger)
	return p
}

// SignFile signs the artifact at path and records it.
func (p *Pipeline) SignFile(ctx context.Context, path string, opts SignOptions) (Result, error) {
	var res Result
	attrs := map[string]interface{}{"file": path, "validate_sbom": opts.ValidateSBOM}
	err := tracing.Run(ctx, "sign", attrs, func(context.Context) error {
		var err error
		res, err = p.signFile(path, opts)
		return err
	})
	return res, err
}

func (p *Pipeline) signFile(path string, opts SignOptions) (Result, error) {
	log := p.logger.WithField("file", path)

	//nolint:gosec // artifact path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errdefs.NewWithPath(errdefs.KindIO, path, "failed to read artifact", err)
	}

	if opts.ValidateSBOM {
		format, err := sbom.Validate(data)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("validated %s document", format)
	}

	digest := hashing.Sum(data)
	log.Debug("computed %s", digest)

	sig, err := p.signer.Sign(digest.Value())
	if err != nil {
		return Result{}, fmt.Errorf("signing %s: %w", path, err)
	}

	issued := p.clock.Now()
	sidecarPath := signature.SidecarPath(path)
	if err := signature.Wrap(sig, issued).Write(sidecarPath); err != nil {
		return Result{}, err
	}
	log.Debug("wrote signature to %s", sidecarPath)

	entry := ledger.Entry{
		Timestamp:     signature.FormatTime(issued),
		FileName:      filepath.Base(path),
		SignatureHash: hex.EncodeToString(sig),
	}
	if err := p.ledger.Append(entry); err != nil {
		return Result{}, err
	}

	if p.mirror != nil {
		p.mirror.Dispatch(entry)
	}

	return Result{
		SignatureHash: entry.SignatureHash,
		SidecarPath:   sidecarPath,
		Timestamp:     entry.Timestamp,
		FileName:      entry.FileName,
	}, nil
}
