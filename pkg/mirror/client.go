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

// Package mirror forwards ledger entries to a remote collector and
// implements that collector.
//
// Delivery is best effort: each entry is sent once from its own goroutine,
// failures are logged and never retried, and deliveries are unordered.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/qsnotary/qs-notary/pkg/errdefs"
	"github.com/qsnotary/qs-notary/pkg/ledger"
	"github.com/qsnotary/qs-notary/pkg/logging"
)

// UploadPath is the collector endpoint entries are posted to.
const UploadPath = "/upload"

// DefaultTimeout bounds a single upload.
const DefaultTimeout = 10 * time.Second

// Client posts entries to a collector.
type Client struct {
	uploadURL string
	http      *http.Client
	logger    logging.Logger
	inflight  sync.WaitGroup
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the pooled client from go-cleanhttp.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for the collector at serverURL, e.g.
// "http://localhost:8080".
func NewClient(serverURL string, opts ...ClientOption) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = DefaultTimeout
	c := &Client{
		uploadURL: strings.TrimRight(serverURL, "/") + UploadPath,
		http:      hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.EnsureLogger(c.logger)
	return c
}

// Upload sends entry synchronously. Any 2xx response is success; everything
// else is a KindDelivery error.
func (c *Client) Upload(ctx context.Context, entry ledger.Entry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return errdefs.New(errdefs.KindDelivery, "failed to encode entry", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(body))
	if err != nil {
		return errdefs.New(errdefs.KindDelivery, "failed to build upload request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errdefs.New(errdefs.KindDelivery, "could not reach server", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errdefs.New(errdefs.KindDelivery, fmt.Sprintf("server rejected entry: %s", resp.Status), nil)
	}
	return nil
}

// Dispatch uploads entry in the background and returns immediately. A
// failed upload is logged at warn level.
func (c *Client) Dispatch(entry ledger.Entry) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if err := c.Upload(context.Background(), entry); err != nil {
			c.logger.WithField("file", entry.FileName).Warn("mirror delivery failed: %v", err)
		}
	}()
}

// Flush waits for in-flight deliveries until ctx is done. It never retries;
// a process may still exit with deliveries outstanding.
func (c *Client) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
