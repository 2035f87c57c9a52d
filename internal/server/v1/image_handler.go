package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/internal/openai"
	"github.com/mehran-shabani/llm-workspace-api/internal/server/validator"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

type ImageHandler struct {
	client  openai.API
	catalog *catalog.Catalog
}

func NewImageHandler(client openai.API, cat *catalog.Catalog) *ImageHandler {
	return &ImageHandler{client: client, catalog: cat}
}

// Generate handles POST /v1/images/generate.
func (h *ImageHandler) Generate(c *gin.Context) {
	var req api.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	model, ok := h.catalog.Select(catalog.CategoryImage, req.Model)
	if !ok {
		_ = c.Error(api.UnknownCategoryError(catalog.CategoryImage))
		return
	}

	result, err := h.client.GenerateImage(c.Request.Context(), openai.ImageParams{
		Model:   model,
		Prompt:  req.Prompt,
		N:       req.N,
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
		User:    req.User,
	}, overrideFrom(c))
	if err != nil {
		_ = c.Error(upstreamProblem(err))
		return
	}

	c.JSON(http.StatusOK, api.ImageGenerationResponse{
		URL:           result.URL,
		RevisedPrompt: result.RevisedPrompt,
		Model:         model,
	})
}
