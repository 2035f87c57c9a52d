package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(map[string]Entry{
		"embedding": {
			Default: "text-embedding-3-small",
			Models:  []string{"text-embedding-3-small", "text-embedding-3-large"},
		},
		"image": {
			Default: "gpt-image-1",
			Models:  []string{"gpt-image-1"},
		},
	})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadEntries(t *testing.T) {
	_, err := New(map[string]Entry{})
	assert.Error(t, err)

	_, err = New(map[string]Entry{
		"tts": {Default: "tts-1", Models: nil},
	})
	assert.Error(t, err)

	_, err = New(map[string]Entry{
		"tts": {Default: "", Models: []string{"tts-1"}},
	})
	assert.Error(t, err)

	// default must be a member of the model list
	_, err = New(map[string]Entry{
		"tts": {Default: "tts-2", Models: []string{"tts-1", "tts-1-hd"}},
	})
	assert.Error(t, err)
}

func TestSelect_DefaultWhenUnpinned(t *testing.T) {
	c := testCatalog(t)

	model, ok := c.Select("embedding", "")
	assert.True(t, ok)
	assert.Equal(t, "text-embedding-3-small", model)
}

func TestSelect_HonorsListedModel(t *testing.T) {
	c := testCatalog(t)

	for _, category := range c.Categories() {
		for _, m := range c.Models(category) {
			got, ok := c.Select(category, m)
			assert.True(t, ok)
			assert.Equal(t, m, got, "pinned model should be returned unchanged")
		}
	}
}

func TestSelect_UnlistedModelFallsBackToDefault(t *testing.T) {
	c := testCatalog(t)

	model, ok := c.Select("embedding", "bogus-model")
	assert.True(t, ok)
	assert.Equal(t, "text-embedding-3-small", model)
}

func TestSelect_UnknownCategory(t *testing.T) {
	c := testCatalog(t)

	model, ok := c.Select("tts", "tts-1")
	assert.False(t, ok, "tts is not in this catalog")
	assert.Empty(t, model)

	model, ok = c.Select("nonexistent-category", "anything")
	assert.False(t, ok)
	assert.Empty(t, model)
	assert.Empty(t, c.Models("nonexistent-category"))
	assert.False(t, c.IsValid("nonexistent-category", "anything"))
}

func TestDefaults_AreAlwaysValid(t *testing.T) {
	for _, c := range []*Catalog{testCatalog(t), Default()} {
		for _, category := range c.Categories() {
			def := c.DefaultModel(category)
			assert.NotEmpty(t, def)
			assert.True(t, c.IsValid(category, def))

			model, ok := c.Select(category, "")
			assert.True(t, ok)
			assert.Equal(t, def, model)
		}
	}
}

func TestDefault_BuiltInCategories(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{
		CategoryEmbedding,
		CategoryImage,
		CategorySTT,
		CategoryText2Text,
		CategoryTextGen,
		CategoryTTS,
	}, c.Categories())

	assert.Equal(t, "gpt-4o", c.DefaultModel(CategoryTextGen))
	assert.Equal(t, "gpt-4o-mini", c.DefaultModel(CategoryText2Text))
	assert.Equal(t, "gpt-image-1", c.DefaultModel(CategoryImage))
	assert.Equal(t, "text-embedding-3-small", c.DefaultModel(CategoryEmbedding))
	assert.Equal(t, "tts-1", c.DefaultModel(CategoryTTS))
	assert.Equal(t, "whisper-1", c.DefaultModel(CategorySTT))
}

func TestModels_ReturnsCopy(t *testing.T) {
	c := testCatalog(t)

	models := c.Models("embedding")
	models[0] = "mutated"

	assert.Equal(t, "text-embedding-3-small", c.Models("embedding")[0])
}
