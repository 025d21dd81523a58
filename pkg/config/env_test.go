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

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() (*pflag.FlagSet, *string, *bool, *string) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	ledger := fs.String("ledger", "ledger.json", "")
	kms := fs.Bool("kms", false, "")
	server := fs.String("server-url", "", "")
	return fs, ledger, kms, server
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "QS_NOTARY_SERVER_URL", EnvName("QS_NOTARY", "server-url"))
}

func TestBindEnvFillsUnsetFlags(t *testing.T) {
	t.Setenv("QS_NOTARY_LEDGER", "/var/lib/notary/ledger.json")
	t.Setenv("QS_NOTARY_KMS", "true")
	t.Setenv("QS_NOTARY_SERVER_URL", "http://collector:8080")

	fs, ledger, kms, server := newFlagSet()
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, BindEnv(fs, "QS_NOTARY"))

	assert.Equal(t, "/var/lib/notary/ledger.json", *ledger)
	assert.True(t, *kms)
	assert.Equal(t, "http://collector:8080", *server)
}

func TestBindEnvFlagWins(t *testing.T) {
	t.Setenv("QS_NOTARY_LEDGER", "from-env.json")

	fs, ledger, _, _ := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--ledger", "from-flag.json"}))
	require.NoError(t, BindEnv(fs, "QS_NOTARY"))

	assert.Equal(t, "from-flag.json", *ledger)
}

func TestBindEnvKeepsDefaults(t *testing.T) {
	fs, ledger, kms, _ := newFlagSet()
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, BindEnv(fs, "QS_NOTARY_UNUSED"))

	assert.Equal(t, "ledger.json", *ledger)
	assert.False(t, *kms)
}

func TestBindEnvInvalidValue(t *testing.T) {
	t.Setenv("QS_NOTARY_KMS", "sometimes")

	fs, _, _, _ := newFlagSet()
	require.NoError(t, fs.Parse(nil))
	err := BindEnv(fs, "QS_NOTARY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QS_NOTARY_KMS")
}
