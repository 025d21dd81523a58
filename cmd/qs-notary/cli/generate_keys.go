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
	"os"

	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/cmd/qs-notary/cli/options"
	"github.com/qsnotary/qs-notary/internal/crypto"
	"github.com/qsnotary/qs-notary/pkg/errdefs"
)

// GenerateKeys creates the generate-keys subcommand.
func GenerateKeys() *cobra.Command {
	o := &options.GenerateKeysOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keys [--output-dir DIR]",
		Short: "Generate a Dilithium5 key pair.",
		Long: `Generate a Dilithium5 key pair.

Writes public.key and private.key to the output directory, creating it if
needed. Existing key files are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := ro.NewLogger()
			if err != nil {
				return err
			}
			//nolint:gosec // G301: the directory only holds the key files
			if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
				return errdefs.NewWithPath(errdefs.KindIO, o.OutputDir, "failed to create output directory", err)
			}

			kp, err := crypto.GenerateKeyPair()
			if err != nil {
				return err
			}
			pub, priv, err := crypto.WriteKeyPair(kp, o.OutputDir)
			if err != nil {
				return err
			}
			logger.Debug("wrote %s and %s", pub, priv)

			fmt.Fprintf(cmd.OutOrStdout(), "Keys written to %s (%s, %s)\n",
				o.OutputDir, crypto.PublicKeyFileName, crypto.PrivateKeyFileName)
			return nil
		},
	}
	o.AddFlags(cmd)
	return cmd
}
