package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRevisions_LatestPerKind(t *testing.T) {
	// GIVEN: Two rate revisions and one document revision
	// WHEN: Asking for the latest of each kind
	// THEN: The newest rate revision wins, kinds do not mix

	store := newStore(t)
	ctx := context.Background()

	first, err := store.SaveRevision(ctx, sqlite.Revision{Kind: sqlite.RevisionRates, Body: `{"v":1}`})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := store.SaveRevision(ctx, sqlite.Revision{Kind: sqlite.RevisionRates, Body: `{"v":2}`, Author: "admin"})
	require.NoError(t, err)
	_, err = store.SaveRevision(ctx, sqlite.Revision{Kind: sqlite.RevisionDocuments, Body: `{"d":1}`})
	require.NoError(t, err)

	latest, err := store.LatestRevision(ctx, sqlite.RevisionRates)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, `{"v":2}`, latest.Body)
	assert.Equal(t, "admin", latest.Author)

	none, err := store.LatestRevision(ctx, sqlite.RevisionEdition)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRevisions_ListNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	var ids []string
	for _, kind := range []sqlite.RevisionKind{sqlite.RevisionRates, sqlite.RevisionEdition, sqlite.RevisionRates} {
		rev, err := store.SaveRevision(ctx, sqlite.Revision{Kind: kind, Body: "{}"})
		require.NoError(t, err)
		ids = append(ids, rev.ID)
	}

	all, err := store.ListRevisions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	rates, err := store.ListRevisions(ctx, sqlite.RevisionRates, 1)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, ids[2], rates[0].ID)
}

func TestRevisions_DuplicateID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.SaveRevision(ctx, sqlite.Revision{ID: "01J0000000000000000000000A", Kind: sqlite.RevisionRates, Body: "{}"})
	require.NoError(t, err)
	_, err = store.SaveRevision(ctx, sqlite.Revision{ID: "01J0000000000000000000000A", Kind: sqlite.RevisionRates, Body: "{}"})
	assert.ErrorContains(t, err, "already exists")
}

func TestReferenceDocuments_ReplaceOnUpload(t *testing.T) {
	// GIVEN: A guide uploaded twice
	// WHEN: Reading it back
	// THEN: The second upload is stored with its digest

	store := newStore(t)
	ctx := context.Background()

	_, err := store.SaveReferenceDocument(ctx, sqlite.ReferenceDocument{Kind: "guide", Filename: "old.pdf", Content: []byte("%PDF-1.4 old")})
	require.NoError(t, err)
	saved, err := store.SaveReferenceDocument(ctx, sqlite.ReferenceDocument{Kind: "guide", Filename: "acm-guide.pdf", Content: []byte("%PDF-1.7 new")})
	require.NoError(t, err)
	assert.Len(t, saved.SHA256, 64)

	doc, err := store.GetReferenceDocument(ctx, "guide")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "acm-guide.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.7 new"), doc.Content)
	assert.Equal(t, saved.SHA256, doc.SHA256)

	missing, err := store.GetReferenceDocument(ctx, "table")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMonitorState_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	checked := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveMonitorState(ctx, sqlite.MonitorState{
		Key: "acm_table", URL: "https://example.test/table.pdf", Hash: "abc", LastChecked: &checked,
	}))
	require.NoError(t, store.SaveMonitorState(ctx, sqlite.MonitorState{
		Key: "acm_guide", URL: "https://example.test/guide.pdf", LastChecked: &checked, LastError: "HTTP 404",
	}))

	st, err := store.GetMonitorState(ctx, "acm_table")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "abc", st.Hash)
	require.NotNil(t, st.LastChecked)
	assert.True(t, checked.Equal(*st.LastChecked))
	assert.Nil(t, st.LastChanged)

	all, err := store.ListMonitorStates(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "acm_guide", all[0].Key)
	assert.Equal(t, "HTTP 404", all[0].LastError)
	assert.Empty(t, all[0].Hash)

	none, err := store.GetMonitorState(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, none)
}
