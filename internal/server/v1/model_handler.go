package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
	"github.com/mehran-shabani/llm-workspace-api/pkg/api"
)

// ModelHandler exposes the model catalog read-only.
type ModelHandler struct {
	catalog *catalog.Catalog
}

func NewModelHandler(cat *catalog.Catalog) *ModelHandler {
	return &ModelHandler{catalog: cat}
}

// List handles GET /v1/models: every category with its models and default.
func (h *ModelHandler) List(c *gin.Context) {
	categories := h.catalog.Categories()

	data := make([]api.CategoryModels, 0, len(categories))
	for _, name := range categories {
		data = append(data, api.CategoryModels{
			Category: name,
			Default:  h.catalog.DefaultModel(name),
			Models:   h.catalog.Models(name),
		})
	}

	c.JSON(http.StatusOK, api.ModelListResponse{
		Object: "list",
		Data:   data,
	})
}

// ListCategory handles GET /v1/models/:category.
func (h *ModelHandler) ListCategory(c *gin.Context) {
	category := c.Param("category")

	def := h.catalog.DefaultModel(category)
	if def == "" {
		_ = c.Error(api.UnknownCategoryError(category))
		return
	}

	c.JSON(http.StatusOK, api.CategoryModels{
		Category: category,
		Default:  def,
		Models:   h.catalog.Models(category),
	})
}
