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

package options

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/signing"
	"github.com/qsnotary/qs-notary/pkg/signing/key"
	"github.com/qsnotary/qs-notary/pkg/signing/kms"
)

// SignerFlags selects the signing backend: a local key file, or the
// simulated remote key service with --kms.
type SignerFlags struct {
	PrivateKeyPath  string        // --private-key
	KMS             bool          // --kms
	KMSSeed         string        // --kms-seed
	KMSPublicKeyOut string        // --kms-public-key-out
	KMSLatency      time.Duration // --kms-latency
}

func (o *SignerFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.PrivateKeyPath, "private-key", "p", crypto.PrivateKeyFileName,
		"Path to the private key file (ignored if --kms is set).")
	_ = cmd.MarkFlagFilename("private-key", "key")
	cmd.Flags().BoolVar(&o.KMS, "kms", false, "Use the simulated remote key service instead of a local key file.")
	cmd.Flags().StringVar(&o.KMSSeed, "kms-seed", "",
		"Hex-encoded 32-byte seed for a reproducible key service identity. A random identity is used when empty.")
	cmd.Flags().StringVar(&o.KMSPublicKeyOut, "kms-public-key-out", "",
		"Write the key service's public key to this path so its signatures can be verified.")
	cmd.Flags().DurationVar(&o.KMSLatency, "kms-latency", kms.DefaultLatency, "Simulated key service round trip.")
}

// NewSigner builds the selected backend.
func (o *SignerFlags) NewSigner(logger logging.Logger) (signing.Signer, error) {
	if !o.KMS {
		return key.NewLocalKeySigner(o.PrivateKeyPath), nil
	}

	var id *kms.Identity
	if o.KMSSeed != "" {
		seed, err := kms.ParseSeed(o.KMSSeed)
		if err != nil {
			return nil, fmt.Errorf("--kms-seed: %w", err)
		}
		id = kms.NewIdentity(seed)
	} else {
		var err error
		if id, err = kms.NewRandomIdentity(); err != nil {
			return nil, err
		}
		if o.KMSPublicKeyOut == "" {
			logger.Warn("key service identity is random; use --kms-public-key-out or --kms-seed to verify its signatures later")
		}
	}

	if o.KMSPublicKeyOut != "" {
		//nolint:gosec // G306: public keys are public
		if err := os.WriteFile(o.KMSPublicKeyOut, id.PublicKey(), 0o644); err != nil {
			return nil, errdefs.NewWithPath(errdefs.KindIO, o.KMSPublicKeyOut, "failed to write key service public key", err)
		}
		logger.Info("key service public key written to %s", o.KMSPublicKeyOut)
	}
	return kms.NewSigner(id, kms.WithLatency(o.KMSLatency)), nil
}

// SignOptions are the flags of the sign command.
type SignOptions struct {
	SignerFlags
	LedgerFlags
	MirrorFlags
}

func (o *SignOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.SignerFlags, &o.LedgerFlags, &o.MirrorFlags)
}

// SignAllOptions are the flags of the sign-all command.
type SignAllOptions struct {
	SignOptions
}
