package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Users() store.UserRepository {
	return &userRepo{db: r.executor}
}

func (r *SqliteRepository) APIKeys() store.APIKeyRepository {
	return &apiKeyRepo{db: r.executor}
}

func (r *SqliteRepository) Workspaces() store.WorkspaceRepository {
	return &workspaceRepo{db: r.executor}
}

func (r *SqliteRepository) Chats() store.ChatRepository {
	return &chatRepo{db: r.executor}
}

func (r *SqliteRepository) Documents() store.DocumentRepository {
	return &documentRepo{db: r.executor}
}

func (r *SqliteRepository) SyncQueue() store.SyncQueueRepository {
	return &syncQueueRepo{db: r.executor}
}

type userRepo struct {
	db DB
}

func (r *userRepo) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	query := `
	INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
	VALUES (:id, :username, :password_hash, :role, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

type apiKeyRepo struct {
	db DB
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	// active check is part of the query for speed
	query := `SELECT * FROM api_keys WHERE key_hash = ? AND is_active = 1`
	err := r.db.GetContext(ctx, &key, query, hash)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.APIKey) error {
	query := `
	INSERT INTO api_keys (id, user_id, name, key_hash, key_prefix, is_active, created_at, updated_at)
	VALUES (:id, :user_id, :name, :key_hash, :key_prefix, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, key)
	return err
}

func (r *apiKeyRepo) UpdateUsage(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

type workspaceRepo struct {
	db DB
}

func (r *workspaceRepo) Create(ctx context.Context, ws *model.Workspace) error {
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = time.Now().UTC()
	}
	if ws.LastUpdatedAt.IsZero() {
		ws.LastUpdatedAt = ws.CreatedAt
	}
	query := `
	INSERT INTO workspaces (name, slug, openai_temp, openai_history, openai_prompt, created_at, last_updated_at)
	VALUES (:name, :slug, :openai_temp, :openai_history, :openai_prompt, :created_at, :last_updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, ws)
	if err != nil {
		return err
	}
	ws.ID, err = res.LastInsertId()
	return err
}

func (r *workspaceRepo) GetBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.db.GetContext(ctx, &ws, `SELECT * FROM workspaces WHERE slug = ?`, slug)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepo) List(ctx context.Context) ([]model.Workspace, error) {
	workspaces := []model.Workspace{}
	err := r.db.SelectContext(ctx, &workspaces, `SELECT * FROM workspaces ORDER BY created_at`)
	return workspaces, err
}

func (r *workspaceRepo) Update(ctx context.Context, ws *model.Workspace) error {
	ws.LastUpdatedAt = time.Now().UTC()
	query := `
	UPDATE workspaces
	SET name = :name, openai_temp = :openai_temp, openai_history = :openai_history,
	    openai_prompt = :openai_prompt, last_updated_at = :last_updated_at
	WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, ws)
	return err
}

func (r *workspaceRepo) Delete(ctx context.Context, id int64) error {
	// chats and documents cascade via foreign keys, but sqlite only honors
	// them with the pragma on; delete explicitly so behavior doesn't depend
	// on the connection string
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workspace_chats WHERE workspace_id = ?`, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE workspace_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	return err
}

type chatRepo struct {
	db DB
}

func (r *chatRepo) Create(ctx context.Context, chat *model.WorkspaceChat) error {
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO workspace_chats (workspace_id, user_id, prompt, response, include, created_at)
	VALUES (:workspace_id, :user_id, :prompt, :response, :include, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, chat)
	if err != nil {
		return err
	}
	chat.ID, err = res.LastInsertId()
	return err
}

func (r *chatRepo) ForWorkspace(ctx context.Context, workspaceID int64, limit int, ascending bool) ([]model.WorkspaceChat, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	chats := []model.WorkspaceChat{}
	query := `SELECT * FROM workspace_chats WHERE workspace_id = ? AND include = 1 ORDER BY created_at ` + order + ` LIMIT ?`
	err := r.db.SelectContext(ctx, &chats, query, workspaceID, limit)
	return chats, err
}

type documentRepo struct {
	db DB
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO documents (workspace_id, doc_id, filename, docpath, created_at)
	VALUES (:workspace_id, :doc_id, :filename, :docpath, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return err
	}
	doc.ID, err = res.LastInsertId()
	return err
}

func (r *documentRepo) Get(ctx context.Context, id int64) (*model.Document, error) {
	var doc model.Document
	err := r.db.GetContext(ctx, &doc, `SELECT * FROM documents WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListFilenames(ctx context.Context) ([]string, error) {
	filenames := []string{}
	err := r.db.SelectContext(ctx, &filenames, `SELECT filename FROM documents`)
	return filenames, err
}

type syncQueueRepo struct {
	db DB
}

func (r *syncQueueRepo) Watch(ctx context.Context, queue *model.DocumentSyncQueue) error {
	if queue.CreatedAt.IsZero() {
		queue.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO document_sync_queue (document_id, stale_after_seconds, failure_count, content_hash, last_synced_at, next_sync_at, created_at)
	VALUES (:document_id, :stale_after_seconds, :failure_count, :content_hash, :last_synced_at, :next_sync_at, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, queue)
	if err != nil {
		return err
	}
	queue.ID, err = res.LastInsertId()
	return err
}

func (r *syncQueueRepo) Unwatch(ctx context.Context, queueID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_sync_runs WHERE queue_id = ?`, queueID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM document_sync_queue WHERE id = ?`, queueID)
	return err
}

func (r *syncQueueRepo) Stale(ctx context.Context, limit int) ([]model.DocumentSyncQueue, error) {
	queues := []model.DocumentSyncQueue{}
	query := `SELECT * FROM document_sync_queue WHERE next_sync_at <= ? ORDER BY next_sync_at LIMIT ?`
	err := r.db.SelectContext(ctx, &queues, query, time.Now().UTC(), limit)
	return queues, err
}

func (r *syncQueueRepo) MarkSynced(ctx context.Context, queueID int64, contentHash string) error {
	var staleAfter int64
	if err := r.db.GetContext(ctx, &staleAfter, `SELECT stale_after_seconds FROM document_sync_queue WHERE id = ?`, queueID); err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `
	UPDATE document_sync_queue
	SET content_hash = ?, failure_count = 0, last_synced_at = ?, next_sync_at = ?
	WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, contentHash, now, now.Add(time.Duration(staleAfter)*time.Second), queueID)
	return err
}

func (r *syncQueueRepo) MarkFailed(ctx context.Context, queueID int64) (int, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE document_sync_queue SET failure_count = failure_count + 1 WHERE id = ?`, queueID); err != nil {
		return 0, err
	}
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT failure_count FROM document_sync_queue WHERE id = ?`, queueID)
	return count, err
}

func (r *syncQueueRepo) RecordRun(ctx context.Context, run *model.DocumentSyncRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO document_sync_runs (queue_id, status, reason, created_at)
	VALUES (:queue_id, :status, :reason, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return err
	}
	run.ID, err = res.LastInsertId()
	return err
}
