package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/internal/store"
	"github.com/mehran-shabani/llm-workspace-api/internal/store/model"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// defaultSystemPrompt is used when a workspace has no prompt configured.
const defaultSystemPrompt = "You are a helpful assistant. Answer using the context of this workspace."

// WorkspaceHandler owns workspace CRUD plus the workspace-scoped chat flow,
// which replays stored history into the upstream provider using the
// workspace's own prompt and temperature settings.
type WorkspaceHandler struct {
	repo    store.Repository
	client  openai.API
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewWorkspaceHandler(repo store.Repository, client openai.API, cat *catalog.Catalog, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{repo: repo, client: client, catalog: cat, logger: logger}
}

// Create handles POST /v1/workspace/new.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req api.WorkspaceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	ws := &model.Workspace{
		Name:          req.Name,
		Slug:          slugify(req.Name),
		OpenAIHistory: 20,
	}
	applyWorkspaceSettings(ws, req.OpenAITemp, req.OpenAIHistory, req.OpenAIPrompt)

	if err := h.repo.Workspaces().Create(c.Request.Context(), ws); err != nil {
		_ = c.Error(api.InternalError("Failed to create the workspace.", err))
		return
	}

	c.JSON(http.StatusOK, api.WorkspaceResponse{Workspace: toWorkspace(ws)})
}

// List handles GET /v1/workspaces.
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.repo.Workspaces().List(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list workspaces.", err))
		return
	}

	out := make([]api.Workspace, 0, len(workspaces))
	for i := range workspaces {
		out = append(out, *toWorkspace(&workspaces[i]))
	}

	c.JSON(http.StatusOK, api.WorkspaceListResponse{Workspaces: out})
}

// Get handles GET /v1/workspace/:slug.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.WorkspaceResponse{Workspace: toWorkspace(ws)})
}

// Update handles POST /v1/workspace/:slug/update.
func (h *WorkspaceHandler) Update(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req api.WorkspaceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if req.Name != nil {
		ws.Name = *req.Name
	}
	applyWorkspaceSettings(ws, req.OpenAITemp, req.OpenAIHistory, req.OpenAIPrompt)

	if err := h.repo.Workspaces().Update(c.Request.Context(), ws); err != nil {
		_ = c.Error(api.InternalError("Failed to update the workspace.", err))
		return
	}

	c.JSON(http.StatusOK, api.WorkspaceResponse{Workspace: toWorkspace(ws)})
}

// Delete handles DELETE /v1/workspace/:slug. Chats and documents go with it.
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	if err := h.repo.Workspaces().Delete(c.Request.Context(), ws.ID); err != nil {
		_ = c.Error(api.InternalError("Failed to delete the workspace.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted"})
}

// Chats handles GET /v1/workspace/:slug/chats: stored history, oldest first.
func (h *WorkspaceHandler) Chats(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	// -1 lifts the limit; the endpoint returns the full stored history
	chats, err := h.repo.Chats().ForWorkspace(c.Request.Context(), ws.ID, -1, true)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load chat history.", err))
		return
	}

	history := make([]api.ChatHistoryEntry, 0, len(chats)*2)
	for _, chat := range chats {
		history = append(history,
			api.ChatHistoryEntry{Role: "user", Content: chat.Prompt, SentAt: chat.CreatedAt.Unix()},
			api.ChatHistoryEntry{Role: "assistant", Content: chat.Response, SentAt: chat.CreatedAt.Unix()},
		)
	}

	c.JSON(http.StatusOK, api.ChatHistoryResponse{History: history})
}

// Chat handles POST /v1/workspace/:slug/chat: one user turn in, one assistant
// turn out, both persisted.
func (h *WorkspaceHandler) Chat(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req api.WorkspaceChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	modelName, ok := h.catalog.Select(catalog.CategoryTextGen, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryTextGen))
		return
	}

	messages, err := h.buildMessages(c, ws, req.Message)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load chat history.", err))
		return
	}

	params := openai.ChatParams{Model: modelName, Messages: messages}
	if ws.OpenAITemp.Valid {
		params.Temperature = &ws.OpenAITemp.Float64
	}

	result, err := h.client.ChatCompletion(c.Request.Context(), params, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	chat := &model.WorkspaceChat{
		WorkspaceID: ws.ID,
		UserID:      c.GetString(string(store.ContextKeyUserID)),
		Prompt:      req.Message,
		Response:    result.Content,
		Include:     true,
	}
	if err := h.repo.Chats().Create(c.Request.Context(), chat); err != nil {
		// the reply was already generated; log and return it anyway
		h.logger.Warn("failed to persist workspace chat", zap.Error(err))
	}

	c.JSON(http.StatusOK, api.WorkspaceChatResponse{
		ID:           uuid.NewString(),
		Type:         "chat",
		TextResponse: result.Content,
		Close:        true,
	})
}

// buildMessages assembles the upstream conversation: workspace system prompt,
// up to openAiHistory prior exchanges in chronological order, then the new
// user message.
func (h *WorkspaceHandler) buildMessages(c *gin.Context, ws *model.Workspace, message string) ([]openai.Message, error) {
	prompt := defaultSystemPrompt
	if ws.OpenAIPrompt.Valid && ws.OpenAIPrompt.String != "" {
		prompt = ws.OpenAIPrompt.String
	}

	messages := []openai.Message{{Role: "system", Content: prompt}}

	if ws.OpenAIHistory > 0 {
		chats, err := h.repo.Chats().ForWorkspace(c.Request.Context(), ws.ID, ws.OpenAIHistory, false)
		if err != nil {
			return nil, err
		}
		// newest-first from the store; replay oldest-first
		for i := len(chats) - 1; i >= 0; i-- {
			messages = append(messages,
				openai.Message{Role: "user", Content: chats[i].Prompt},
				openai.Message{Role: "assistant", Content: chats[i].Response},
			)
		}
	}

	return append(messages, openai.Message{Role: "user", Content: message}), nil
}

func (h *WorkspaceHandler) workspace(c *gin.Context) (*model.Workspace, bool) {
	slug := c.Param("slug")

	ws, err := h.repo.Workspaces().GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = c.Error(api.NotFoundError("No workspace with slug '" + slug + "'."))
		} else {
			_ = c.Error(api.InternalError("Failed to load the workspace.", err))
		}
		return nil, false
	}
	return ws, true
}

func applyWorkspaceSettings(ws *model.Workspace, temp *float64, history *int, prompt *string) {
	if temp != nil {
		ws.OpenAITemp = sql.NullFloat64{Float64: *temp, Valid: true}
	}
	if history != nil {
		ws.OpenAIHistory = *history
	}
	if prompt != nil {
		ws.OpenAIPrompt = sql.NullString{String: *prompt, Valid: true}
	}
}

func toWorkspace(ws *model.Workspace) *api.Workspace {
	out := &api.Workspace{
		ID:            ws.ID,
		Name:          ws.Name,
		Slug:          ws.Slug,
		CreatedAt:     ws.CreatedAt,
		LastUpdatedAt: ws.LastUpdatedAt,
		OpenAIHistory: ws.OpenAIHistory,
	}
	if ws.OpenAITemp.Valid {
		out.OpenAITemp = &ws.OpenAITemp.Float64
	}
	if ws.OpenAIPrompt.Valid {
		out.OpenAIPrompt = &ws.OpenAIPrompt.String
	}
	return out
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a workspace name into a URL-safe slug. A short random suffix
// keeps slugs unique for identically named workspaces.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "workspace"
	}
	return slug + "-" + uuid.NewString()[:8]
}
