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

// Package policy is the trust-rule engine consulted after a signature has
// verified cryptographically. A Policy is purely declarative: it is loaded
// once per verification and never mutated.
package policy

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/signature"
)

// User-visible rejection reasons. Each one is distinct from the generic
// cryptographic failure message.
const (
	ReasonNotInAllowlist = "public key not in allowlist"
	ReasonNoTimestamp    = "no timestamp, cannot evaluate age"
	ReasonTooOld         = "signature older than max_age_days"
)

const secondsPerDay = 24 * 60 * 60

// Policy holds the trust rules.
//
// Example policy file:
//
//	{
//	  "allow_expired": false,
//	  "max_age_days": 30,
//	  "allowed_public_keys": ["<hex of public.key>"]
//	}
type Policy struct {
	// AllowExpired disables the age check entirely.
	AllowExpired bool `json:"allow_expired"`

	// MaxAgeDays is the maximum signature age in whole days. Nil disables
	// the age check.
	MaxAgeDays *int64 `json:"max_age_days,omitempty"`

	// AllowedPublicKeys lists hex-encoded public keys. Nil disables the
	// allowlist; an empty list rejects every key.
	AllowedPublicKeys []string `json:"allowed_public_keys,omitempty"`
}

// Load reads and validates a policy file.
func Load(path string) (*Policy, error) {
	//nolint:gosec // policy path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindIO, path, "failed to read policy", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates policy JSON.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errdefs.New(errdefs.KindFormat, "invalid policy JSON", err)
	}
	if p.MaxAgeDays != nil && *p.MaxAgeDays < 0 {
		return nil, errdefs.New(errdefs.KindFormat,
			fmt.Sprintf("max_age_days must be non-negative, got %d", *p.MaxAgeDays), nil)
	}
	return &p, nil
}

// HasAllowlist reports whether the allowlist stage applies.
func (p *Policy) HasAllowlist() bool {
	return p != nil && p.AllowedPublicKeys != nil
}

// ChecksAge reports whether the age stage applies.
func (p *Policy) ChecksAge() bool {
	return p != nil && p.MaxAgeDays != nil && !p.AllowExpired
}

// CheckAllowlist rejects publicKey unless its hex encoding matches one of the
// allowed keys, ignoring case and surrounding whitespace.
func (p *Policy) CheckAllowlist(publicKey []byte) error {
	if !p.HasAllowlist() {
		return nil
	}
	want := hex.EncodeToString(publicKey)
	for _, allowed := range p.AllowedPublicKeys {
		if strings.EqualFold(strings.TrimSpace(allowed), want) {
			return nil
		}
	}
	return errdefs.New(errdefs.KindPolicy, ReasonNotInAllowlist, nil)
}

// CheckAge rejects signatures whose age in whole days strictly exceeds
// MaxAgeDays. A signature without a timestamp cannot be evaluated and is
// rejected.
func (p *Policy) CheckAge(ts *signature.Timestamp, now time.Time) error {
	if !p.ChecksAge() {
		return nil
	}
	if ts == nil {
		return errdefs.New(errdefs.KindPolicy, ReasonNoTimestamp, nil)
	}
	issued, err := ts.Time()
	if err != nil {
		return err
	}
	if AgeDays(issued, now) > *p.MaxAgeDays {
		return errdefs.New(errdefs.KindPolicy, ReasonTooOld, nil)
	}
	return nil
}

// AgeDays returns the number of whole days between issued and now, truncated
// toward zero. Timestamps in the future have a negative age.
func AgeDays(issued, now time.Time) int64 {
	return (now.Unix() - issued.Unix()) / secondsPerDay
}
