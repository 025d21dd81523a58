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

// Package config layers environment variables under command-line flags.
//
// Every flag --foo-bar of a command may also be supplied as
// <PREFIX>_FOO_BAR. A flag given on the command line always wins over the
// environment, and the environment wins over the flag default.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvName returns the environment variable consulted for flag name.
func EnvName(prefix, name string) string {
	return strings.ToUpper(prefix + "_" + strings.ReplaceAll(name, "-", "_"))
}

// BindEnv fills every flag in fs that was not set explicitly from its
// environment variable, if present. Values that do not parse for the flag's
// type are reported together.
func BindEnv(fs *pflag.FlagSet, prefix string) error {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid value for %s: %w", EnvName(prefix, f.Name), err))
		}
	})
	return errs
}
