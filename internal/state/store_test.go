package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	first := &BuildRecord{
		Project:         "ztd.text",
		Release:         "0.0.0",
		Outcome:         "success",
		DurationMS:      1200,
		ReferenceXMLDir: "/tmp/xml",
		CreatedAt:       time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Record(ctx, first))
	assert.NotEmpty(t, first.ID, "Record assigns an ID")

	second := &BuildRecord{Project: "ztd.text", Release: "0.0.1", Outcome: "warning"}
	require.NoError(t, store.Record(ctx, second))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, second.ID, records[0].ID, "newest first")
	assert.Equal(t, "0.0.1", records[0].Release)
	assert.Equal(t, "/tmp/xml", records[1].ReferenceXMLDir)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &BuildRecord{
			Project: "ztd.text",
			Release: "0.0.0",
			Outcome: "success",
		}))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPersistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), &BuildRecord{
		Project: "ztd.text", Release: "0.0.0", Outcome: "success",
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "success", records[0].Outcome)
}
