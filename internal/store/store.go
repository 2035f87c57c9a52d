package store

import (
	"context"

	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
	ContextKeyAPIKey contextKey = "api_key"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Users() UserRepository
	APIKeys() APIKeyRepository
	Workspaces() WorkspaceRepository
	Chats() ChatRepository
	Documents() DocumentRepository
	SyncQueue() SyncQueueRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type UserRepository interface {
	Get(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

type APIKeyRepository interface {
	// GetByHash retrieves a key by its hashed value (for auth).
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	// Create issues a new API key.
	Create(ctx context.Context, key *model.APIKey) error
	// UpdateUsage stamps last_used_at.
	UpdateUsage(ctx context.Context, id string) error
}

type WorkspaceRepository interface {
	Create(ctx context.Context, ws *model.Workspace) error
	GetBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	List(ctx context.Context) ([]model.Workspace, error)
	Update(ctx context.Context, ws *model.Workspace) error
	// Delete removes the workspace together with its chats and documents.
	Delete(ctx context.Context, id int64) error
}

type ChatRepository interface {
	Create(ctx context.Context, chat *model.WorkspaceChat) error
	// ForWorkspace returns up to limit chats ordered by creation time.
	ForWorkspace(ctx context.Context, workspaceID int64, limit int, ascending bool) ([]model.WorkspaceChat, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, id int64) (*model.Document, error)
	// ListFilenames returns every filename known to the documents table;
	// used by orphan cleanup to decide what may be deleted.
	ListFilenames(ctx context.Context) ([]string, error)
}

type SyncQueueRepository interface {
	Watch(ctx context.Context, queue *model.DocumentSyncQueue) error
	Unwatch(ctx context.Context, queueID int64) error
	// Stale returns queue rows whose next_sync_at has passed.
	Stale(ctx context.Context, limit int) ([]model.DocumentSyncQueue, error)
	// MarkSynced updates hash and reschedules the next run.
	MarkSynced(ctx context.Context, queueID int64, contentHash string) error
	// MarkFailed increments the failure counter and returns the new count.
	MarkFailed(ctx context.Context, queueID int64) (int, error)
	RecordRun(ctx context.Context, run *model.DocumentSyncRun) error
}
