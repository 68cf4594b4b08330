package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data.json"), zerolog.Nop())
}

func TestStoreCreatesFreshDocument(t *testing.T) {
	store := newTestStore(t)

	err := store.View(func(doc *Document) error {
		assert.Empty(t, doc.Procedures)
		assert.Empty(t, doc.Users)
		assert.Empty(t, doc.CaseLogs)
		assert.Equal(t, 1, doc.NextProcedureID)
		assert.Equal(t, 1, doc.NextStepID)
		assert.Equal(t, 1, doc.NextUserID)
		assert.Equal(t, 1, doc.NextCaseLogID)
		return nil
	})
	require.NoError(t, err)

	// The file is created on first access.
	_, err = os.Stat(store.path)
	require.NoError(t, err)
}

func TestStoreBackfillsLegacyShape(t *testing.T) {
	// An older on-disk document knows nothing about users or case
	// logs; load must fill them in without touching what's there.
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	legacy := `{
		"procedures": [{"id": 1, "name": "Craniotomy", "steps": []}],
		"nextProcedureId": 2,
		"nextStepId": 5
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := NewStore(path, zerolog.Nop())
	err := store.View(func(doc *Document) error {
		assert.Len(t, doc.Procedures, 1)
		assert.Equal(t, "Craniotomy", doc.Procedures[0].Name)
		assert.Equal(t, 2, doc.NextProcedureID)
		assert.Equal(t, 5, doc.NextStepID)
		assert.NotNil(t, doc.Users)
		assert.NotNil(t, doc.CaseLogs)
		assert.Equal(t, 1, doc.NextUserID)
		assert.Equal(t, 1, doc.NextCaseLogID)
		return nil
	})
	require.NoError(t, err)
}

func TestStoreMalformedFileFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path, zerolog.Nop())
	err := store.View(func(doc *Document) error { return nil })
	require.Error(t, err)

	err = store.Update(func(doc *Document) error { return nil })
	require.Error(t, err)
}

func TestStoreUpdateSkipsSaveOnError(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Update(func(doc *Document) error {
		doc.NextProcedureID = 10
		return nil
	}))

	sentinel := errors.New("boom")
	err := store.Update(func(doc *Document) error {
		doc.NextProcedureID = 99
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	raw, err := os.ReadFile(store.path)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 10, doc.NextProcedureID, "failed update must not be persisted")
}
