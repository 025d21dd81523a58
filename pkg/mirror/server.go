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

package mirror

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qsnotary/qs-notary/pkg/ledger"
	"github.com/qsnotary/qs-notary/pkg/logging"
)

// DefaultCollectorLedger is the collector's ledger file.
const DefaultCollectorLedger = "central_ledger.jsonl"

const maxUploadBytes = 1 << 20

// NewHandler returns the collector's HTTP handler. Every accepted upload is
// appended to l as-is; duplicates are kept.
func NewHandler(l ledger.Appender, logger logging.Logger) http.Handler {
	c := &collector{ledger: l, logger: logging.EnsureLogger(logger)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post(UploadPath, c.upload)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

type collector struct {
	ledger ledger.Appender
	logger logging.Logger
}

type uploadPayload struct {
	FileName      *string `json:"file_name"`
	SignatureHash *string `json:"signature_hash"`
	Timestamp     *string `json:"timestamp"`
}

func (c *collector) upload(w http.ResponseWriter, r *http.Request) {
	log := c.logger.WithField("request_id", middleware.GetReqID(r.Context()))

	var p uploadPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&p); err != nil {
		log.Debug("rejecting upload: %v", err)
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if p.FileName == nil || p.SignatureHash == nil || p.Timestamp == nil {
		http.Error(w, "file_name, signature_hash and timestamp are required", http.StatusUnprocessableEntity)
		return
	}

	entry := ledger.Entry{Timestamp: *p.Timestamp, FileName: *p.FileName, SignatureHash: *p.SignatureHash}
	if err := c.ledger.Append(entry); err != nil {
		log.Error("failed to append entry: %v", err)
		http.Error(w, "write ledger", http.StatusInternalServerError)
		return
	}
	log.WithField("file", entry.FileName).Info("recorded entry")
	w.WriteHeader(http.StatusOK)
}
