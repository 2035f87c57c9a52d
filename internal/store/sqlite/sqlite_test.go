package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
)

func newTestRepo(t *testing.T) store.Repository {
	t.Helper()
	repo, err := NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newWorkspace(t *testing.T, repo store.Repository, slug string) *model.Workspace {
	t.Helper()
	now := time.Now().UTC()
	ws := &model.Workspace{
		Name:          "Test Workspace",
		Slug:          slug,
		OpenAIHistory: 20,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	require.NoError(t, repo.Workspaces().Create(context.Background(), ws))
	require.NotZero(t, ws.ID)
	return ws
}

func TestWorkspaceCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ws := newWorkspace(t, repo, "test-workspace")

	got, err := repo.Workspaces().GetBySlug(ctx, "test-workspace")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)
	assert.Equal(t, 20, got.OpenAIHistory)

	got.Name = "Renamed"
	got.OpenAITemp = sql.NullFloat64{Float64: 0.7, Valid: true}
	require.NoError(t, repo.Workspaces().Update(ctx, got))

	updated, err := repo.Workspaces().GetBySlug(ctx, "test-workspace")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 0.7, updated.OpenAITemp.Float64)

	list, err := repo.Workspaces().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Workspaces().Delete(ctx, ws.ID))
	_, err = repo.Workspaces().GetBySlug(ctx, "test-workspace")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWorkspaceDeleteRemovesChats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ws := newWorkspace(t, repo, "chatty")
	chat := &model.WorkspaceChat{
		WorkspaceID: ws.ID,
		Prompt:      "hello",
		Response:    "hi",
		Include:     true,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Chats().Create(ctx, chat))

	require.NoError(t, repo.Workspaces().Delete(ctx, ws.ID))

	chats, err := repo.Chats().ForWorkspace(ctx, ws.ID, 100, true)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestChatHistoryOrderAndLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ws := newWorkspace(t, repo, "history")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Chats().Create(ctx, &model.WorkspaceChat{
			WorkspaceID: ws.ID,
			Prompt:      "q",
			Response:    "a",
			Include:     i != 2, // one excluded turn
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	asc, err := repo.Chats().ForWorkspace(ctx, ws.ID, 10, true)
	require.NoError(t, err)
	require.Len(t, asc, 4, "excluded chat must not appear")
	assert.True(t, asc[0].CreatedAt.Before(asc[len(asc)-1].CreatedAt))

	desc, err := repo.Chats().ForWorkspace(ctx, ws.ID, 2, false)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.True(t, desc[0].CreatedAt.After(desc[1].CreatedAt))
}

func TestUserAndAPIKeyAuthLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := &model.User{
		ID:           "u-1",
		Username:     "admin",
		PasswordHash: "$2a$10$fakehash",
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Users().Create(ctx, user))

	byName, err := repo.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byName.ID)

	key := &model.APIKey{
		ID:        "k-1",
		UserID:    "u-1",
		Name:      "ci key",
		KeyHash:   "abc123",
		KeyPrefix: "sk-ws-",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.APIKeys().Create(ctx, key))

	found, err := repo.APIKeys().GetByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "k-1", found.ID)

	require.NoError(t, repo.APIKeys().UpdateUsage(ctx, "k-1"))

	_, err = repo.APIKeys().GetByHash(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDocumentsAndOrphanListing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ws := newWorkspace(t, repo, "docs")
	for _, name := range []string{"a.txt", "b.txt"} {
		require.NoError(t, repo.Documents().Create(ctx, &model.Document{
			WorkspaceID: ws.ID,
			DocID:       "doc-" + name,
			Filename:    name,
			Docpath:     "direct-uploads/" + name,
			CreatedAt:   time.Now().UTC(),
		}))
	}

	names, err := repo.Documents().ListFilenames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

func TestSyncQueueLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ws := newWorkspace(t, repo, "watched")
	doc := &model.Document{
		WorkspaceID: ws.ID,
		DocID:       "doc-1",
		Filename:    "watched.txt",
		Docpath:     "direct-uploads/watched.txt",
		CreatedAt:   now,
	}
	require.NoError(t, repo.Documents().Create(ctx, doc))

	queue := &model.DocumentSyncQueue{
		DocumentID: doc.ID,
		StaleAfter: 3600,
		NextSyncAt: now.Add(-time.Minute), // already stale
		CreatedAt:  now,
	}
	require.NoError(t, repo.SyncQueue().Watch(ctx, queue))

	stale, err := repo.SyncQueue().Stale(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, queue.ID, stale[0].ID)

	require.NoError(t, repo.SyncQueue().MarkSynced(ctx, queue.ID, "hash-1"))

	stale, err = repo.SyncQueue().Stale(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, stale, "freshly synced queue must not be stale")

	count, err := repo.SyncQueue().MarkFailed(ctx, queue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.SyncQueue().RecordRun(ctx, &model.DocumentSyncRun{
		QueueID:   queue.ID,
		Status:    model.SyncRunFailed,
		Reason:    "no content",
		CreatedAt: now,
	}))

	require.NoError(t, repo.SyncQueue().Unwatch(ctx, queue.ID))
	stale, err = repo.SyncQueue().Stale(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestWithTxRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx store.Repository) error {
		if err := tx.Workspaces().Create(ctx, &model.Workspace{
			Name:          "doomed",
			Slug:          "doomed",
			OpenAIHistory: 20,
			CreatedAt:     time.Now().UTC(),
			LastUpdatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repo.Workspaces().GetBySlug(ctx, "doomed")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
