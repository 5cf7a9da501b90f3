package store

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpdash/tprules/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tprules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDoc(source string) *domain.Document {
	return &domain.Document{
		GeneratedAt: "2026-08-31 12:00",
		ExcelSource: source,
		FYE:         "2025-12-31",
		Countries: []*domain.Country{
			domain.NewCountry("Germany", "DE", "EMEA"),
			domain.NewCountry("Japan", "JP", "APAC"),
		},
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	s := newStore(t)

	snap, err := s.SaveDocument(sampleDoc("rules.xlsx"))
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 2, snap.Countries)
	assert.Equal(t, "2025-12-31", snap.FYE)

	got, raw, err := s.GetSnapshot(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "rules.xlsx", got.ExcelSource)

	var doc domain.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Countries, 2)
	assert.Equal(t, "Germany", doc.Countries[0].Name)
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	s := newStore(t)

	first, err := s.SaveDocument(sampleDoc("a.xlsx"))
	require.NoError(t, err)
	second, err := s.SaveDocument(sampleDoc("b.xlsx"))
	require.NoError(t, err)

	snaps, err := s.ListSnapshots(10, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	ids := []string{snaps[0].ID, snaps[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
	assert.False(t, snaps[0].CreatedAt.Before(snaps[1].CreatedAt))
}

func TestLatestDocument(t *testing.T) {
	s := newStore(t)

	_, err := s.LatestDocument()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.SaveDocument(sampleDoc("rules.xlsx"))
	require.NoError(t, err)

	raw, err := s.LatestDocument()
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "rules.xlsx", doc.ExcelSource)
}

func TestGetSnapshotMissing(t *testing.T) {
	s := newStore(t)
	_, _, err := s.GetSnapshot("no-such-id")
	require.Error(t, err)
}
