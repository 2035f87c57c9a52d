package model

import (
	"database/sql"
	"time"
)

// User is an account that can log in and own API keys.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"` // 'admin', 'default'
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// APIKey is the credential used for programmatic access.
type APIKey struct {
	ID         string       `db:"id" json:"id"`
	UserID     string       `db:"user_id" json:"user_id"`
	Name       string       `db:"name" json:"name"`
	KeyHash    string       `db:"key_hash" json:"-"`            // Never return hash
	KeyPrefix  string       `db:"key_prefix" json:"key_prefix"` // Display only
	LastUsedAt sql.NullTime `db:"last_used_at" json:"last_used_at,omitempty"`
	IsActive   bool         `db:"is_active" json:"is_active"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// Workspace groups chats and documents under a unique slug.
type Workspace struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Slug          string          `db:"slug" json:"slug"`
	OpenAITemp    sql.NullFloat64 `db:"openai_temp" json:"openAiTemp"`
	OpenAIHistory int             `db:"openai_history" json:"openAiHistory"`
	OpenAIPrompt  sql.NullString  `db:"openai_prompt" json:"openAiPrompt"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	LastUpdatedAt time.Time       `db:"last_updated_at" json:"lastUpdatedAt"`
}

// WorkspaceChat is one prompt/response exchange within a workspace.
type WorkspaceChat struct {
	ID          int64     `db:"id" json:"id"`
	WorkspaceID int64     `db:"workspace_id" json:"workspace_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Prompt      string    `db:"prompt" json:"prompt"`
	Response    string    `db:"response" json:"response"`
	Include     bool      `db:"include" json:"include"` // false excludes it from history replay
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Document is a parsed file attached to a workspace. The docpath points at
// the stored artifact under the uploads directory.
type Document struct {
	ID          int64     `db:"id" json:"id"`
	WorkspaceID int64     `db:"workspace_id" json:"workspace_id"`
	DocID       string    `db:"doc_id" json:"docId"`
	Filename    string    `db:"filename" json:"filename"`
	Docpath     string    `db:"docpath" json:"docpath"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Sync run outcomes recorded by the watched-document sync job.
const (
	SyncRunSuccess = "success"
	SyncRunFailed  = "failed"
	SyncRunExited  = "exited"
)

// MaxSyncFailures is how many consecutive failed runs a watched document
// tolerates before it is unwatched.
const MaxSyncFailures = 5

// DocumentSyncQueue marks a document as watched and tracks its refresh cadence.
type DocumentSyncQueue struct {
	ID           int64        `db:"id" json:"id"`
	DocumentID   int64        `db:"document_id" json:"document_id"`
	StaleAfter   int64        `db:"stale_after_seconds" json:"stale_after_seconds"`
	FailureCount int          `db:"failure_count" json:"failure_count"`
	ContentHash  string       `db:"content_hash" json:"content_hash"`
	LastSyncedAt sql.NullTime `db:"last_synced_at" json:"last_synced_at"`
	NextSyncAt   time.Time    `db:"next_sync_at" json:"next_sync_at"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// DocumentSyncRun records the outcome of one sync attempt.
type DocumentSyncRun struct {
	ID        int64     `db:"id" json:"id"`
	QueueID   int64     `db:"queue_id" json:"queue_id"`
	Status    string    `db:"status" json:"status"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
