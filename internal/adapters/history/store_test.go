package history_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/adapters/history"
	"go.trai.ch/livepush/internal/core/domain"
)

const historyPath = "/project/.livepush/history.json"

func entry(id string, savedAt time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:         id,
		URL:        "https://expo.io/@snack/" + id,
		SDKVersion: "39.0.0",
		Channel:    "abcdef",
		SavedAt:    savedAt,
	}
}

func TestStore_EmptyHistory(t *testing.T) {
	store := history.NewStore(afero.NewMemMapFs(), historyPath)

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_RecordAndListNewestFirst(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := history.NewStore(fs, historyPath)
	base := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(entry("first", base)))
	require.NoError(t, store.Record(entry("third", base.Add(2*time.Hour))))
	require.NoError(t, store.Record(entry("second", base.Add(time.Hour))))

	entries, err := history.NewStore(fs, historyPath).List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].ID)
	assert.Equal(t, "second", entries[1].ID)
	assert.Equal(t, "first", entries[2].ID)

	exists, err := afero.Exists(fs, historyPath+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_KeepsMostRecentEntries(t *testing.T) {
	store := history.NewStore(afero.NewMemMapFs(), historyPath)
	base := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := range history.MaxEntries + 5 {
		require.NoError(t, store.Record(entry(fmt.Sprintf("save-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, history.MaxEntries)
	assert.Equal(t, fmt.Sprintf("save-%d", history.MaxEntries+4), entries[0].ID)
	assert.Equal(t, "save-5", entries[len(entries)-1].ID)
}

func TestStore_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, historyPath, []byte("not json"), 0o644))
	store := history.NewStore(fs, historyPath)

	_, err := store.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrHistoryReadFailed.Error())

	err = store.Record(entry("x", time.Now()))
	require.Error(t, err)
}

func TestStore_ReadOnly(t *testing.T) {
	store := history.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), historyPath)

	err := store.Record(entry("x", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrHistoryWriteFailed.Error())
	assert.False(t, errors.Is(err, domain.ErrHistoryReadFailed))
}

func TestContentHash(t *testing.T) {
	a := domain.Files{
		"App.js":   {Type: domain.FileTypeCode, Contents: "a"},
		"logo.png": {Type: domain.FileTypeAsset, Contents: "https://x/logo.png"},
	}
	b := domain.Files{
		"logo.png": {Type: domain.FileTypeAsset, Contents: "https://x/logo.png"},
		"App.js":   {Type: domain.FileTypeCode, Contents: "a"},
	}

	assert.Equal(t, history.ContentHash(a), history.ContentHash(b))
	assert.Len(t, history.ContentHash(a), 16)

	b["App.js"] = domain.File{Type: domain.FileTypeCode, Contents: "b"}
	assert.NotEqual(t, history.ContentHash(a), history.ContentHash(b))

	// Boundaries between path and contents are unambiguous.
	assert.NotEqual(t,
		history.ContentHash(domain.Files{"ab": {Contents: "c"}}),
		history.ContentHash(domain.Files{"a": {Contents: "bc"}}),
	)
}
