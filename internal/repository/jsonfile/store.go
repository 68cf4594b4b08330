// Package jsonfile implements the repository interfaces on top of a
// single human-readable JSON document on disk. Every operation reads
// the whole document, mutates it in memory and writes the whole thing
// back; there is no partial or streamed update. A process-local mutex
// serializes load/save pairs, but across processes the store remains
// whole-document last-writer-wins.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"neurosurg/learning-app/internal/domain"
)

// Document is the single persisted aggregate: every entity sequence
// plus the ID counters that issue new IDs. Counters only ever move
// forward; IDs are never reused, even after deletion.
type Document struct {
	Procedures      []domain.Procedure `json:"procedures"`
	Users           []domain.User      `json:"users"`
	CaseLogs        []domain.CaseLog   `json:"caseLogs"`
	NextProcedureID int                `json:"nextProcedureId"`
	NextStepID      int                `json:"nextStepId"`
	NextUserID      int                `json:"nextUserId"`
	NextCaseLogID   int                `json:"nextCaseLogId"`
}

// Store owns the on-disk document. All repositories in this package
// share one Store so their load/save pairs serialize on its mutex.
type Store struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewStore creates a store backed by the JSON file at path. The file
// is created lazily on first access.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// View runs fn against a freshly loaded document without saving.
func (s *Store) View(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update runs fn against a freshly loaded document and, if fn
// succeeds, writes the whole document back. When fn fails nothing is
// written, so the prior on-disk state stays intact.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := migrate(&Document{})
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Malformed content is fatal for the operation; callers surface
		// it as an unexpected error, there is no recovery attempt.
		s.logger.Error().Err(err).Str("path", s.path).Msg("store file is malformed")
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	return migrate(&doc), nil
}

func (s *Store) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to write store file")
		return fmt.Errorf("write store file %s: %w", s.path, err)
	}
	return nil
}

// migrate backfills fields an older on-disk shape may lack (the users
// and case-log sections arrived after the procedure library). It runs
// unconditionally on every load and is the store's only migration
// mechanism.
func migrate(doc *Document) *Document {
	if doc.Procedures == nil {
		doc.Procedures = []domain.Procedure{}
	}
	if doc.Users == nil {
		doc.Users = []domain.User{}
	}
	if doc.CaseLogs == nil {
		doc.CaseLogs = []domain.CaseLog{}
	}
	if doc.NextProcedureID < 1 {
		doc.NextProcedureID = 1
	}
	if doc.NextStepID < 1 {
		doc.NextStepID = 1
	}
	if doc.NextUserID < 1 {
		doc.NextUserID = 1
	}
	if doc.NextCaseLogID < 1 {
		doc.NextCaseLogID = 1
	}
	return doc
}
