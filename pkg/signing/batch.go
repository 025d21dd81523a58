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

package signing

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/logging"
	"github.com/qsnotary/qs-notary/pkg/manifest"
	"github.com/qsnotary/qs-notary/pkg/signature"
	"github.com/qsnotary/qs-notary/pkg/tracing"
)

// BatchSigner signs every eligible file under a directory and then signs a
// manifest listing them.
//
// Files are signed sequentially in sorted order. A failure aborts the run:
// files signed before it keep their sidecars and ledger entries, and no
// manifest is written.
type BatchSigner struct {
	pipeline *Pipeline
	exclude  map[string]struct{}
	logger   logging.Logger
}

// BatchResult describes a completed batch run.
type BatchResult struct {
	// Files are the per-file results in manifest order.
	Files        []Result
	Manifest     *manifest.Manifest
	ManifestPath string
	// ManifestResult is the signing result of the manifest itself.
	ManifestResult Result
}

// BatchOption configures a BatchSigner.
type BatchOption func(*BatchSigner)

// WithExclude skips the given files during enumeration.
func WithExclude(paths ...string) BatchOption {
	return func(b *BatchSigner) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				b.exclude[abs] = struct{}{}
			}
		}
	}
}

func WithBatchLogger(l logging.Logger) BatchOption {
	return func(b *BatchSigner) { b.logger = l }
}

// ledgerFiles is implemented by ledgers that live on the local filesystem.
type ledgerFiles interface {
	Path() string
	LockPath() string
}

// NewBatchSigner returns a BatchSigner driving p. When p records to a
// file-backed ledger, the ledger and its lock file are never signed even if
// they live inside the tree.
func NewBatchSigner(p *Pipeline, opts ...BatchOption) *BatchSigner {
	b := &BatchSigner{
		pipeline: p,
		exclude:  map[string]struct{}{},
		logger:   p.logger,
	}
	if lf, ok := p.ledger.(ledgerFiles); ok {
		WithExclude(lf.Path(), lf.LockPath())(b)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.EnsureLogger(b.logger)
	return b
}

// Enumerate lists the files SignTree would sign, as '/'-separated paths
// relative to root in lexicographic order. Symlinks to regular files are
// included; symlinked directories are not descended into. Hidden entries
// (any path component starting with '.'), signature sidecars, other
// non-regular files and the root manifest are skipped.
func (b *BatchSigner) Enumerate(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		if signature.IsSidecar(rel) || rel == manifest.FileName {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			if _, skip := b.exclude[abs]; skip {
				return nil
			}
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errdefs.NewWithPath(errdefs.KindIO, root, "failed to walk directory", err)
	}
	sort.Strings(files)
	return files, nil
}

// SignTree signs every file under root, then writes and signs
// <root>/manifest.json. A tree of K files yields K+1 ledger entries.
func (b *BatchSigner) SignTree(ctx context.Context, root string) (BatchResult, error) {
	var res BatchResult
	err := tracing.Run(ctx, "sign-all", map[string]interface{}{"root": root}, func(ctx context.Context) error {
		var err error
		res, err = b.signTree(ctx, root)
		return err
	})
	return res, err
}

func (b *BatchSigner) signTree(ctx context.Context, root string) (BatchResult, error) {
	files, err := b.Enumerate(root)
	if err != nil {
		return BatchResult{}, err
	}
	b.logger.Debug("signing %d files under %s", len(files), root)

	res := BatchResult{Manifest: manifest.New()}
	for _, rel := range files {
		r, err := b.pipeline.SignFile(ctx, filepath.Join(root, filepath.FromSlash(rel)), SignOptions{})
		if err != nil {
			return res, fmt.Errorf("batch aborted at %s after %d signed files: %w", rel, len(res.Files), err)
		}
		res.Files = append(res.Files, r)
		res.Manifest.Add(rel, r.SignatureHash)
	}

	res.ManifestPath = filepath.Join(root, manifest.FileName)
	if err := res.Manifest.Write(res.ManifestPath); err != nil {
		return res, err
	}
	mr, err := b.pipeline.SignFile(ctx, res.ManifestPath, SignOptions{})
	if err != nil {
		return res, fmt.Errorf("signing manifest: %w", err)
	}
	res.ManifestResult = mr
	return res, nil
}

// isRegularFile follows symlinks; links to directories and dangling links
// are not files.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
