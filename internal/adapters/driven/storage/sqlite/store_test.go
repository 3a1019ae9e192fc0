package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/quill-cli/internal/core/ports/driven"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "quill.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.Database("hospital").InsertOne(ctx, driven.CollectionMorphemes, driven.Record{"word": "피부과"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.Database("hospital").Find(ctx, driven.CollectionMorphemes, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "피부과", found[0].String("word"))
}

func TestDatabase_InsertAndFind(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	db := store.Database("startup")
	assert.Equal(t, "startup", db.Name())

	ids, err := db.InsertMany(ctx, driven.CollectionExpressions, []driven.Record{
		{"category": "행동 유도", "value": "지금 신청하세요", "snapshot": "s1"},
		{"category": "수치", "value": "3배 성장", "snapshot": "s1"},
		{"category": "행동 유도", "value": "무료 체험", "snapshot": "s2"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	all, err := db.Find(ctx, driven.CollectionExpressions, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].String(driven.FieldID))
	assert.Equal(t, "지금 신청하세요", all[0].String("value"))
	assert.Equal(t, "무료 체험", all[2].String("value"))

	filtered, err := db.Find(ctx, driven.CollectionExpressions, driven.Filter{"snapshot": "s2"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "무료 체험", filtered[0].String("value"))
}

func TestDatabase_InsertOne_IgnoresCallerID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	db := store.Database("other")

	id, err := db.InsertOne(ctx, driven.CollectionManuscripts, driven.Record{
		driven.FieldID: "caller-id",
		"content":      "본문",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "caller-id", id)

	found, err := db.Find(ctx, driven.CollectionManuscripts, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].String(driven.FieldID))
}

func TestDatabase_EmptyCollection(t *testing.T) {
	store := setupTestStore(t)

	found, err := store.Database("legalese").Find(context.Background(), driven.CollectionSentences, nil)

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStore_DatabasesAreIsolated(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Database("hospital").InsertOne(ctx, driven.CollectionSentences, driven.Record{"sentence": "a"})
	require.NoError(t, err)
	_, err = store.Database("beauty-treatment").InsertOne(ctx, driven.CollectionSentences, driven.Record{"sentence": "b"})
	require.NoError(t, err)

	found, err := store.Database("hospital").Find(ctx, driven.CollectionSentences, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].String("sentence"))

	names, err := store.Databases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"beauty-treatment", "hospital"}, names)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.migrate(migrations.FS))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}
