package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
)

func render(t *testing.T, text string, opts markdown.RenderOptions) map[string]any {
	t.Helper()

	p := markdown.NewPipeline(markdown.NewParser(markdown.ParserOptions{}))

	v := markdown.Render(p, New(), text, opts)
	require.NotNil(t, v)

	m, ok := v.AsInterface().(map[string]any)
	require.True(t, ok)

	return m
}

func children(t *testing.T, m map[string]any) []map[string]any {
	t.Helper()

	list, ok := m["children"].([]any)
	require.True(t, ok, "expected children in %v", m)

	result := make([]map[string]any, len(list))
	for idx, c := range list {
		result[idx] = c.(map[string]any)
	}

	return result
}

func TestRenderInstructions(t *testing.T) {
	doc := render(t, "hello **@bob**", markdown.RenderOptions{})

	assert.Equal(t, "document", doc["type"])
	assert.NotContains(t, doc, "context")

	blocks := children(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "paragraph", blocks[0]["type"])

	inline := children(t, blocks[0])
	require.Len(t, inline, 2)

	assert.Equal(t, "text", inline[0]["type"])
	assert.Equal(t, "hello ", inline[0]["text"])
	assert.Equal(t, []any{"paragraph"}, inline[0]["context"])

	strong := inline[1]
	assert.Equal(t, "strong", strong["type"])

	mention := children(t, strong)[0]
	assert.Equal(t, "at_mention", mention["type"])
	assert.Equal(t, "bob", mention["mentionName"])
	assert.Equal(t, []any{"paragraph", "strong"}, mention["context"])
}

func TestRenderInstructionsList(t *testing.T) {
	doc := render(t, "5. a\n6. b", markdown.RenderOptions{})

	list := children(t, doc)[0]
	assert.Equal(t, "list", list["type"])
	assert.Equal(t, true, list["ordered"])
	assert.Equal(t, float64(5), list["start"])

	items := children(t, list)
	require.Len(t, items, 2)

	assert.Equal(t, float64(0), items[0]["index"])
	assert.Equal(t, float64(5), items[0]["number"])
	assert.Equal(t, false, items[0]["continue"])

	assert.Equal(t, float64(1), items[1]["index"])
	assert.Equal(t, float64(6), items[1]["number"])
	assert.Equal(t, true, items[1]["continue"])
}

func TestRenderInstructionsDisabledFeatures(t *testing.T) {
	doc := render(t, "#surgery", markdown.RenderOptions{
		Features: markdown.Features{DisableHashtags: true},
	})

	text := children(t, children(t, doc)[0])[0]
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "#surgery", text["text"])
}

func TestRenderInstructionsImage(t *testing.T) {
	doc := render(t, "![a cat](cat.png)", markdown.RenderOptions{})

	img := children(t, children(t, doc)[0])[0]
	assert.Equal(t, "image", img["type"])
	assert.Equal(t, "cat.png", img["destination"])
	assert.NotContains(t, img, "children")

	caption, ok := img["caption"].([]any)
	require.True(t, ok)
	require.Len(t, caption, 1)
	assert.Equal(t, "a cat", caption[0].(map[string]any)["text"])
}

func TestRenderInstructionsEdited(t *testing.T) {
	doc := render(t, "hello", markdown.RenderOptions{IsEdited: true})

	inline := children(t, children(t, doc)[0])
	require.Len(t, inline, 2)
	assert.Equal(t, "edited_indicator", inline[1]["type"])
}
