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
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/cmd/qs-notary/cli/options"
	"github.com/qsnotary/qs-notary/pkg/ledger"
)

// hashPrefix is how much of a signature_hash the table shows.
const hashPrefix = 16

// Ledger creates the ledger subcommand.
func Ledger() *cobra.Command {
	o := &options.LedgerListOptions{}

	cmd := &cobra.Command{
		Use:   "ledger [--ledger PATH] [--json]",
		Short: "List the signing events recorded in the ledger.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := ro.NewLogger()
			if err != nil {
				return err
			}
			entries, err := ledger.New(o.LedgerPath).Entries()
			if err != nil {
				return err
			}
			logger.Debug("read %d entries from %s", len(entries), o.LedgerPath)

			out := cmd.OutOrStdout()
			if o.JSON {
				enc := json.NewEncoder(out)
				for _, e := range entries {
					if err := enc.Encode(e); err != nil {
						return err
					}
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIMESTAMP\tFILE\tSIGNATURE")
			for _, e := range entries {
				sig := e.SignatureHash
				if len(sig) > hashPrefix {
					sig = sig[:hashPrefix] + "..."
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp, e.FileName, sig)
			}
			return tw.Flush()
		},
	}
	o.AddFlags(cmd)
	return cmd
}
