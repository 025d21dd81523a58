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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/cmd/qs-notary/cli/options"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/verify"
)

// Verify creates the verify subcommand.
func Verify() *cobra.Command {
	o := &options.VerifyOptions{}

	long := `Verify a signed SBOM.

Checks the Dilithium5 signature in SIGNATURE_PATH (default SBOM_PATH.sig)
against the SHA3-256 digest of SBOM_PATH and the given public key. When a
policy file is given, the public key must be in its allowlist and the
signature must not be older than max_age_days.

Exits 0 when the SBOM is verified, 2 when a policy rejects it and 1 for
every other failure.`

	cmd := &cobra.Command{
		Use:   "verify [OPTIONS] SBOM_PATH [SIGNATURE_PATH]",
		Short: "Verify an SBOM signature and policy.",
		Long:  long,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ro.NewLogger()
			if err != nil {
				return err
			}

			req := verify.Request{
				ArtifactPath:  args[0],
				PublicKeyPath: o.PublicKeyPath,
				PolicyPath:    o.PolicyPath,
			}
			if len(args) == 2 {
				req.SignaturePath = args[1]
			}

			res, err := verify.NewPipeline(nil, verify.WithLogger(logger)).Verify(cmd.Context(), req)
			out := cmd.OutOrStdout()
			switch {
			case err == nil:
				color.New(color.FgGreen, color.Bold).Fprintln(out, verdictLine(res))
			case errdefs.IsKind(err, errdefs.KindCryptographic), errdefs.IsKind(err, errdefs.KindPolicy):
				color.New(color.FgRed, color.Bold).Fprintln(out, verdictLine(res))
				logger.Debug("rejected at stage %s", res.Stage)
			}
			return err
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// verdictLine is the human-readable outcome of a verification.
func verdictLine(res verify.Result) string {
	if res.Verified {
		return "Verified Safe"
	}
	if res.Reason != "" && res.Reason != verify.ReasonCryptographic {
		return fmt.Sprintf("%s: %s", verify.ReasonCryptographic, res.Reason)
	}
	return verify.ReasonCryptographic
}
