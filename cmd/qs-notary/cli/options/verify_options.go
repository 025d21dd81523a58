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
	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/internal/crypto"
)

// VerifyOptions are the flags of the verify command.
type VerifyOptions struct {
	PublicKeyPath string // --public-key
	PolicyPath    string // --policy
}

func (o *VerifyOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.PublicKeyPath, "public-key", "p", crypto.PublicKeyFileName, "Path to the public key file.")
	_ = cmd.MarkFlagFilename("public-key", "key")
	cmd.Flags().StringVar(&o.PolicyPath, "policy", "",
		"Path to a policy JSON file enforcing a key allowlist and maximum signature age.")
	_ = cmd.MarkFlagFilename("policy", "json")
}

// GenerateKeysOptions are the flags of the generate-keys command.
type GenerateKeysOptions struct {
	OutputDir string
}

func (o *GenerateKeysOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.OutputDir, "output-dir", ".", "Directory to write public.key and private.key to.")
	_ = cmd.MarkFlagDirname("output-dir")
}

// LedgerListOptions are the flags of the ledger command.
type LedgerListOptions struct {
	LedgerFlags
	JSON bool
}

func (o *LedgerListOptions) AddFlags(cmd *cobra.Command) {
	o.LedgerFlags.AddFlags(cmd)
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Print entries as JSON lines instead of a table.")
}
