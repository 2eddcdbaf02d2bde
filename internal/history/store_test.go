package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestRecordRunAndCompleted(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	done, err := store.Completed(ctx, "/subs/in.srt", "fr")
	require.NoError(t, err)
	assert.False(t, done)

	rec, err := store.RecordRun(ctx, Record{
		InputPath:      "/subs/in.srt",
		OutputPath:     "/subs/in.fr.srt",
		SourceLanguage: "en",
		TargetLanguage: "fr",
		UnitCount:      12,
		Duration:       3 * time.Second,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	done, err = store.Completed(ctx, "/subs/in.srt", "fr")
	require.NoError(t, err)
	assert.True(t, done)

	// Same file, different target: not completed.
	done, err = store.Completed(ctx, "/subs/in.srt", "de")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRecordRun_MissingPaths(t *testing.T) {
	store := openTestStore(t)
	_, err := store.RecordRun(context.Background(), Record{InputPath: "/subs/in.srt"})
	assert.Error(t, err)
}

func TestRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := store.RecordRun(ctx, Record{
			InputPath:      "/subs/" + name + ".srt",
			OutputPath:     "/subs/" + name + ".fr.srt",
			SourceLanguage: "en",
			TargetLanguage: "fr",
			UnitCount:      1,
			Duration:       time.Second,
		})
		require.NoError(t, err)
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, time.Second, records[0].Duration)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
