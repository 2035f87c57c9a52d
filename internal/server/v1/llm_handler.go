package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// LLMHandler proxies chat-style text generation to the upstream provider,
// resolving model names through the catalog first.
type LLMHandler struct {
	client  openai.API
	catalog *catalog.Catalog
}

func NewLLMHandler(client openai.API, cat *catalog.Catalog) *LLMHandler {
	return &LLMHandler{client: client, catalog: cat}
}

// Generate handles POST /v1/llm/generate (multi-turn chat).
func (h *LLMHandler) Generate(c *gin.Context) {
	var req api.TextGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	model, ok := h.catalog.Select(catalog.CategoryTextGen, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryTextGen))
		return
	}

	messages := make([]openai.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.Message{Role: m.Role, Content: m.Content})
	}

	result, err := h.client.ChatCompletion(c.Request.Context(), openai.ChatParams{
		Model:            model,
		Messages:         messages,
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.Stop,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	c.JSON(http.StatusOK, api.TextGenerationResponse{
		Content: result.Content,
		Model:   model,
		Usage:   toUsage(result.Usage),
	})
}

// Instruct handles POST /v1/llm/instruct (single instruction, text2text).
// The instruction and optional input are wrapped into a chat exchange.
func (h *LLMHandler) Instruct(c *gin.Context) {
	var req api.TextInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	model, ok := h.catalog.Select(catalog.CategoryText2Text, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryText2Text))
		return
	}

	messages := []openai.Message{{Role: "system", Content: req.Instruction}}
	if req.Input != "" {
		messages = append(messages, openai.Message{Role: "user", Content: req.Input})
	} else {
		// some providers refuse a system-only conversation
		messages = []openai.Message{{Role: "user", Content: req.Instruction}}
	}

	result, err := h.client.ChatCompletion(c.Request.Context(), openai.ChatParams{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	c.JSON(http.StatusOK, api.TextGenerationResponse{
		Content: result.Content,
		Model:   model,
		Usage:   toUsage(result.Usage),
	})
}

func toUsage(u *openai.TokenUsage) *api.Usage {
	if u == nil {
		return nil
	}
	return &api.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
