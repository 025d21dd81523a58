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
	"time"

	"github.com/spf13/cobra"

	"github.com/qsnotary/qs-notary/pkg/ledger"
)

// FlagAdder is implemented by any flag group that can register itself to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// AddAllFlags registers several flag groups at once.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}

// LedgerFlags selects the local ledger file.
type LedgerFlags struct {
	LedgerPath string
}

func (o *LedgerFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.LedgerPath, "ledger", ledger.DefaultPath, "Path to the ledger file.")
	_ = cmd.MarkFlagFilename("ledger", "json", "jsonl")
}

// MirrorFlags configures best-effort delivery of ledger entries to a
// collector.
type MirrorFlags struct {
	ServerURL string
	// FlushTimeout bounds how long the command waits for in-flight
	// deliveries before exiting.
	FlushTimeout time.Duration
}

// DefaultFlushTimeout is the grace period for in-flight mirror deliveries.
const DefaultFlushTimeout = 2 * time.Second

func (o *MirrorFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ServerURL, "server-url", "",
		"URL of the transparency log collector (e.g. http://localhost:8080); entries are uploaded in the background.")
	cmd.Flags().DurationVar(&o.FlushTimeout, "flush-timeout", DefaultFlushTimeout,
		"How long to wait for background uploads before exiting.")
}
