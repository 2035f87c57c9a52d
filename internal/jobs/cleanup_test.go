package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/sqlite"
)

func testRepo(t *testing.T) store.Repository {
	t.Helper()
	repo, err := sqlite.NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedWorkspaceDoc(t *testing.T, repo store.Repository, filename, docpath string) *model.Document {
	t.Helper()
	ctx := context.Background()

	ws := &model.Workspace{Name: "test", Slug: "test-" + filename, OpenAIHistory: 20}
	require.NoError(t, repo.Workspaces().Create(ctx, ws))

	doc := &model.Document{
		WorkspaceID: ws.ID,
		DocID:       "doc-" + filename,
		Filename:    filename,
		Docpath:     docpath,
	}
	require.NoError(t, repo.Documents().Create(ctx, doc))
	return doc
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCleanup_DeletesOrphansKeepsReferenced(t *testing.T) {
	repo := testRepo(t)
	dir := t.TempDir()

	writeFile(t, dir, "kept.txt", "referenced")
	writeFile(t, dir, "orphan-a.txt", "a")
	writeFile(t, dir, "orphan-b.txt", "b")
	seedWorkspaceDoc(t, repo, "kept.txt", filepath.Join(dir, "kept.txt"))

	cleanup := NewCleanup(repo, dir, zap.NewNop())
	result, err := cleanup.Run(context.Background(), CleanupOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 0, result.Failed)

	assert.FileExists(t, filepath.Join(dir, "kept.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "orphan-a.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "orphan-b.txt"))
}

func TestCleanup_DryRunLeavesFiles(t *testing.T) {
	repo := testRepo(t)
	dir := t.TempDir()
	writeFile(t, dir, "orphan.txt", "x")

	cleanup := NewCleanup(repo, dir, zap.NewNop())
	result, err := cleanup.Run(context.Background(), CleanupOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.True(t, result.DryRun)
	assert.FileExists(t, filepath.Join(dir, "orphan.txt"))
}

func TestCleanup_BatchSizeCapsDeletions(t *testing.T) {
	repo := testRepo(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "c.txt", "c")

	cleanup := NewCleanup(repo, dir, zap.NewNop())
	result, err := cleanup.Run(context.Background(), CleanupOptions{BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted)

	remaining, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestCleanup_MissingDirIsNoop(t *testing.T) {
	repo := testRepo(t)

	cleanup := NewCleanup(repo, filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	result, err := cleanup.Run(context.Background(), CleanupOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, result.Deleted)
}
