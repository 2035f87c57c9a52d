package v1

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"

	"github.com/mehran-shabani/llm-workspace-api/internal/catalog"
)

// SchemaHandler serves a generated OpenAPI 3 document describing the API.
// The document is assembled once at construction; the catalog contents are
// baked into the model endpoints' descriptions so the schema reflects the
// deployment's actual model list.
type SchemaHandler struct {
	doc *openapi3.T
}

func NewSchemaHandler(version string, cat *catalog.Catalog) *SchemaHandler {
	return &SchemaHandler{doc: buildSchema(version, cat)}
}

// Schema handles GET /api/schema.
func (h *SchemaHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc)
}

func buildSchema(version string, cat *catalog.Catalog) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "LLM Workspace API",
			Description: "Workspace-scoped chat plus proxy endpoints for text, embedding, image and audio models.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}

	jsonOp := func(summary string, tag string, status int) *openapi3.Operation {
		op := openapi3.NewOperation()
		op.Summary = summary
		op.Tags = []string{tag}
		op.AddResponse(status, openapi3.NewResponse().
			WithDescription(http.StatusText(status)).
			WithJSONSchema(openapi3.NewObjectSchema()))
		return op
	}

	doc.Paths.Set("/health", &openapi3.PathItem{
		Get: jsonOp("Service health", "system", http.StatusOK),
	})
	doc.Paths.Set("/auth/login", &openapi3.PathItem{
		Post: jsonOp("Exchange credentials for an access token", "auth", http.StatusOK),
	})
	doc.Paths.Set("/v1/auth", &openapi3.PathItem{
		Get: jsonOp("Verify the presented credentials", "auth", http.StatusOK),
	})

	doc.Paths.Set("/v1/llm/generate", &openapi3.PathItem{
		Post: jsonOp("Chat-style text generation", "llm", http.StatusOK),
	})
	doc.Paths.Set("/v1/llm/instruct", &openapi3.PathItem{
		Post: jsonOp("Single-instruction text transformation", "llm", http.StatusOK),
	})
	doc.Paths.Set("/v1/embeddings", &openapi3.PathItem{
		Post: jsonOp("Create an embedding vector", "llm", http.StatusOK),
	})
	doc.Paths.Set("/v1/images/generate", &openapi3.PathItem{
		Post: jsonOp("Generate an image from a prompt", "llm", http.StatusOK),
	})
	doc.Paths.Set("/v1/audio/speech", &openapi3.PathItem{
		Post: jsonOp("Synthesize speech from text", "llm", http.StatusOK),
	})
	doc.Paths.Set("/v1/audio/transcriptions", &openapi3.PathItem{
		Post: jsonOp("Transcribe an uploaded audio file", "llm", http.StatusOK),
	})

	modelList := jsonOp("List every model category", "models", http.StatusOK)
	modelList.Description = "Known categories: " + joinCategories(cat)
	doc.Paths.Set("/v1/models", &openapi3.PathItem{Get: modelList})

	categoryParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("category").WithSchema(openapi3.NewStringSchema())}
	doc.Paths.Set("/v1/models/{category}", &openapi3.PathItem{
		Get:        jsonOp("List models in one category", "models", http.StatusOK),
		Parameters: openapi3.Parameters{categoryParam},
	})

	slugParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("slug").WithSchema(openapi3.NewStringSchema())}
	doc.Paths.Set("/v1/workspace/new", &openapi3.PathItem{
		Post: jsonOp("Create a workspace", "workspaces", http.StatusOK),
	})
	doc.Paths.Set("/v1/workspaces", &openapi3.PathItem{
		Get: jsonOp("List workspaces", "workspaces", http.StatusOK),
	})
	doc.Paths.Set("/v1/workspace/{slug}", &openapi3.PathItem{
		Get:        jsonOp("Fetch a workspace", "workspaces", http.StatusOK),
		Delete:     jsonOp("Delete a workspace and its contents", "workspaces", http.StatusOK),
		Parameters: openapi3.Parameters{slugParam},
	})
	doc.Paths.Set("/v1/workspace/{slug}/update", &openapi3.PathItem{
		Post:       jsonOp("Update workspace settings", "workspaces", http.StatusOK),
		Parameters: openapi3.Parameters{slugParam},
	})
	doc.Paths.Set("/v1/workspace/{slug}/chats", &openapi3.PathItem{
		Get:        jsonOp("Fetch workspace chat history", "workspaces", http.StatusOK),
		Parameters: openapi3.Parameters{slugParam},
	})
	doc.Paths.Set("/v1/workspace/{slug}/chat", &openapi3.PathItem{
		Post:       jsonOp("Send a chat message into a workspace", "workspaces", http.StatusOK),
		Parameters: openapi3.Parameters{slugParam},
	})

	return doc
}

func joinCategories(cat *catalog.Catalog) string {
	out := ""
	for i, name := range cat.Categories() {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
