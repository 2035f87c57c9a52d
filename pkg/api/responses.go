package api

import "time"

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

type TextGenerationResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   *Usage `json:"usage,omitempty"`
}

type EmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
	Model     string    `json:"model"`
	Usage     *Usage    `json:"usage,omitempty"`

	// Cached marks responses served from the embedding cache.
	Cached bool `json:"cached,omitempty"`
}

type ImageGenerationResponse struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Model         string `json:"model"`
}

type TTSResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Model       string `json:"model"`
	Voice       string `json:"voice"`
}

type STTResponse struct {
	Transcript string `json:"transcript"`
	Model      string `json:"model"`
}

// CategoryModels is one catalog category as exposed by the models endpoint.
type CategoryModels struct {
	Category string   `json:"category"`
	Default  string   `json:"default"`
	Models   []string `json:"models"`
}

type ModelListResponse struct {
	Object string           `json:"object"`
	Data   []CategoryModels `json:"data"`
}

type Workspace struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	OpenAITemp    *float64  `json:"openAiTemp"`
	OpenAIHistory int       `json:"openAiHistory"`
	OpenAIPrompt  *string   `json:"openAiPrompt"`
}

type WorkspaceResponse struct {
	Workspace *Workspace `json:"workspace"`
	Message   string     `json:"message,omitempty"`
}

type WorkspaceListResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

type ChatHistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	SentAt  int64  `json:"sentAt"`
}

type ChatHistoryResponse struct {
	History []ChatHistoryEntry `json:"history"`
}

// WorkspaceChatResponse mirrors the workspace chat reply shape of the
// upstream application (textResponse plus bookkeeping fields).
type WorkspaceChatResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	TextResponse string `json:"textResponse"`
	Close        bool   `json:"close"`
	Error        string `json:"error,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthVerifyResponse struct {
	Authenticated bool `json:"authenticated"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
