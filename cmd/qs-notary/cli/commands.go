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

// Package cli wires the qs-notary subcommands.
package cli

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/qsnotary/qs-notary/cmd/qs-notary/cli/options"
	"github.com/qsnotary/qs-notary/pkg/config"
)

var (
	ro = &options.RootOptions{}
)

// New returns the root command.
func New() *cobra.Command {
	ro = &options.RootOptions{}

	cmd := &cobra.Command{
		Use:               "qs-notary",
		Short:             "Post-quantum SBOM signing, verification and transparency ledger.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindEnv(cmd.Flags(), options.EnvPrefix)
		},
	}
	ro.AddFlags(cmd)

	// Add sub-commands.
	cmd.AddCommand(GenerateKeys())
	cmd.AddCommand(Sign())
	cmd.AddCommand(SignAll())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Ledger())
	cmd.AddCommand(version.WithFont("starwars"))
	return cmd
}
