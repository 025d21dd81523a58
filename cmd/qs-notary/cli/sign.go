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

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/cmd/qs-notary/cli/options"
	"github.com/qsnotary/qs-notary/pkg/ledger"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/mirror"
	"github.com/qsnotary/qs-notary/pkg/signing"
)

// Sign creates the sign subcommand.
func Sign() *cobra.Command {
	o := &options.SignOptions{}

	long := `Sign an SBOM.

Validates that SBOM_PATH is a CycloneDX or SPDX JSON document, signs its
SHA3-256 digest with Dilithium5, writes the signature to SBOM_PATH.sig and
appends an entry to the ledger.

With --kms the simulated remote key service signs instead of the local
private key. With --server-url the ledger entry is also uploaded to a
collector; upload failures are logged and never fail the command.`

	cmd := &cobra.Command{
		Use:   "sign [OPTIONS] SBOM_PATH",
		Short: "Sign an SBOM and record it in the ledger.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ro.NewLogger()
			if err != nil {
				return err
			}
			p, flush, err := newSignPipeline(o, logger)
			if err != nil {
				return err
			}
			defer flush(cmd.Context())

			res, err := p.SignFile(cmd.Context(), args[0], signing.SignOptions{ValidateSBOM: true})
			if err != nil {
				return err
			}
			logger.Info("signature written to %s", res.SidecarPath)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed and ledger updated.")
			return nil
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// SignAll creates the sign-all subcommand.
func SignAll() *cobra.Command {
	o := &options.SignAllOptions{}

	long := `Sign every file in a directory tree and a manifest of the results.

Each regular file under DIR is signed in lexicographic order of its relative
path. Hidden files and directories, existing .sig sidecars, a previous
manifest.json and the ledger are skipped. The resulting DIR/manifest.json
lists every signed path with its signature and is itself signed.

The run stops at the first failure. Files signed before it keep their
sidecars and ledger entries, and no manifest is written.`

	cmd := &cobra.Command{
		Use:   "sign-all [OPTIONS] DIR",
		Short: "Sign a directory tree and its manifest.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ro.NewLogger()
			if err != nil {
				return err
			}
			p, flush, err := newSignPipeline(&o.SignOptions, logger)
			if err != nil {
				return err
			}
			defer flush(cmd.Context())

			res, err := signing.NewBatchSigner(p, signing.WithBatchLogger(logger)).SignTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logger.Info("signed %d files, manifest at %s", res.Manifest.Len(), res.ManifestPath)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed all files and manifest.")
			return nil
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// newSignPipeline assembles the signer, ledger and optional mirror selected
// by o. The returned flush waits a bounded time for background uploads.
func newSignPipeline(o *options.SignOptions, logger logging.Logger) (*signing.Pipeline, func(context.Context), error) {
	signer, err := o.NewSigner(logger)
	if err != nil {
		return nil, nil, err
	}

	pipelineOpts := []signing.Option{signing.WithLogger(logger)}
	flush := func(context.Context) {}
	if o.ServerURL != "" {
		client := mirror.NewClient(o.ServerURL, mirror.WithLogger(logger))
		pipelineOpts = append(pipelineOpts, signing.WithMirror(client))
		flush = func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.FlushTimeout)
			defer cancel()
			if err := client.Flush(ctx); err != nil {
				logger.Warn("gave up waiting for mirror uploads: %v", err)
			}
		}
	}

	return signing.NewPipeline(signer, ledger.New(o.LedgerPath), pipelineOpts...), flush, nil
}
