// Package store persists the whole application state as a single JSON
// document under one key. Any backend failure degrades to the empty
// document on read and a dropped write on save; callers never see storage
// errors and cannot distinguish "empty" from "unavailable".
package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Backend loads and saves the raw document blob. Load returns found=false
// when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) (data []byte, found bool, err error)
	Save(ctx context.Context, data []byte) error
}

// Store wraps a Backend with the JSON codec and the degrade-to-empty
// policy.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a Store over the given backend.
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Read returns the current document. Unavailable storage and malformed
// blobs both yield a fresh empty document; the condition is logged but
// never surfaced.
func (s *Store) Read(ctx context.Context) *Document {
	data, found, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn("document load failed, treating as empty", zap.Error(err))
		return NewDocument()
	}
	if !found {
		return NewDocument()
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("document malformed, treating as empty", zap.Error(err))
		return NewDocument()
	}
	doc.normalize()
	return &doc
}

// Write persists the document, replacing whatever was stored. Failures are
// logged and the write is silently dropped, per the single-device storage
// contract.
func (s *Store) Write(ctx context.Context, doc *Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warn("document encode failed, write dropped", zap.Error(err))
		return
	}
	if err := s.backend.Save(ctx, data); err != nil {
		s.logger.Warn("document save failed, write dropped", zap.Error(err))
	}
}

// Update runs one read-modify-write cycle: re-read the full document,
// apply the mutation, rewrite the full document. No locking; concurrent
// updaters race and the last write wins.
func (s *Store) Update(ctx context.Context, mutate func(*Document)) {
	doc := s.Read(ctx)
	mutate(doc)
	s.Write(ctx, doc)
}
