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

// Package verify decides whether an artifact, its signature sidecar and a
// public key form a valid, policy-compliant triple.
//
// Verification is a linear state machine:
//
//	LoadPublicKey -> LoadSignatureFile -> ComputeDigest -> CryptographicVerify
//	  -> LoadPolicy -> PolicyAllowlist -> PolicyAge -> Accepted
//
// Any stage may reject, which ends the run. Policy stages only run after the
// signature has verified cryptographically and only when a policy applies.
package verify

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"

	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/hashing"
	"github.com/qsnotary/qs-notary/pkg/hashing/digests"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/policy"
	"github.com/qsnotary/qs-notary/pkg/signature"
	"github.com/qsnotary/qs-notary/pkg/tracing"
)

// ReasonCryptographic is the user-visible reason for a signature that does
// not verify. It deliberately does not say why.
const ReasonCryptographic = "Verification Failed"

// SignatureVerifier checks a detached signature over a digest. It reports
// false for any malformed input instead of failing.
type SignatureVerifier interface {
	VerifySignature(publicKey, digest, signature []byte) bool
}

var _ SignatureVerifier = crypto.Dilithium5Verifier{}

// Stage identifies a step of the verification state machine.
type Stage int

const (
	StageLoadPublicKey Stage = iota
	StageLoadSignatureFile
	StageComputeDigest
	StageCryptographicVerify
	StageLoadPolicy
	StagePolicyAllowlist
	StagePolicyAge
	StageAccepted
)

func (s Stage) String() string {
	switch s {
	case StageLoadPublicKey:
		return "LoadPublicKey"
	case StageLoadSignatureFile:
		return "LoadSignatureFile"
	case StageComputeDigest:
		return "ComputeDigest"
	case StageCryptographicVerify:
		return "CryptographicVerify"
	case StageLoadPolicy:
		return "LoadPolicy"
	case StagePolicyAllowlist:
		return "PolicyAllowlist"
	case StagePolicyAge:
		return "PolicyAge"
	case StageAccepted:
		return "Accepted"
	default:
		return "Unknown"
	}
}

// Request names the inputs of one verification.
type Request struct {
	ArtifactPath string
	// SignaturePath defaults to the artifact's sidecar path.
	SignaturePath string
	PublicKeyPath string
	// Policy takes precedence over PolicyPath. With neither set, only the
	// cryptographic check applies.
	Policy     *policy.Policy
	PolicyPath string
}

// Result is the final state of a verification.
type Result struct {
	Verified bool
	// Stage is StageAccepted on success, otherwise the stage that rejected.
	Stage  Stage
	Reason string
}

// Pipeline runs verifications. It holds no per-request state and is safe
// for concurrent use.
type Pipeline struct {
	verifier SignatureVerifier
	clock    clockwork.Clock
	logger   logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock policy age is measured against.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline returns a Pipeline using verifier. A nil verifier selects
// Dilithium5.
func NewPipeline(verifier SignatureVerifier, opts ...Option) *Pipeline {
	if verifier == nil {
		verifier = crypto.Dilithium5Verifier{}
	}
	p := &Pipeline{
		verifier: verifier,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.EnsureLogger(p.logger)
	return p
}

// Verify runs the state machine for req. The returned error is nil exactly
// when Result.Verified is true; otherwise it is an *errdefs.Error whose kind
// tells cryptographic and policy rejections apart from I/O and format
// problems.
func (p *Pipeline) Verify(ctx context.Context, req Request) (Result, error) {
	var res Result
	err := tracing.Run(ctx, "verify", map[string]interface{}{"file": req.ArtifactPath}, func(context.Context) error {
		var err error
		res, err = p.run(req)
		return err
	})
	return res, err
}

// run keeps the state in local variables and advances one stage at a time.
func (p *Pipeline) run(req Request) (Result, error) {
	log := p.logger.WithField("file", req.ArtifactPath)
	sigPath := req.SignaturePath
	if sigPath == "" {
		sigPath = signature.SidecarPath(req.ArtifactPath)
	}

	var (
		publicKey []byte
		sig       []byte
		ts        *signature.Timestamp
		digest    []byte
		pol       = req.Policy
	)

	for stage := StageLoadPublicKey; stage != StageAccepted; stage++ {
		log.Debug("stage %s", stage)
		var err error
		switch stage {
		case StageLoadPublicKey:
			publicKey, err = crypto.LoadPublicKey(req.PublicKeyPath)
		case StageLoadSignatureFile:
			sig, ts, err = signature.ReadFile(sigPath)
		case StageComputeDigest:
			var d digests.Digest
			d, err = hashing.SumFile(req.ArtifactPath)
			digest = d.Value()
		case StageCryptographicVerify:
			if !p.verifier.VerifySignature(publicKey, digest, sig) {
				err = errdefs.NewWithPath(errdefs.KindCryptographic, req.ArtifactPath, ReasonCryptographic, nil)
			}
		case StageLoadPolicy:
			if pol == nil && req.PolicyPath != "" {
				pol, err = policy.Load(req.PolicyPath)
			}
		case StagePolicyAllowlist:
			err = pol.CheckAllowlist(publicKey)
		case StagePolicyAge:
			err = pol.CheckAge(ts, p.clock.Now())
		}
		if err != nil {
			return reject(stage, err), err
		}
	}

	log.Debug("accepted")
	return Result{Verified: true, Stage: StageAccepted}, nil
}

func reject(stage Stage, err error) Result {
	reason := err.Error()
	var e *errdefs.Error
	if errors.As(err, &e) {
		reason = e.Message
	}
	return Result{Stage: stage, Reason: reason}
}
