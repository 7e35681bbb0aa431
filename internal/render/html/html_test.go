package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
)

func render(t *testing.T, opts Options, text string, renderOpts markdown.RenderOptions) string {
	t.Helper()

	p := markdown.NewPipeline(markdown.NewParser(markdown.ParserOptions{
		URLFilter: markdown.NewURLFilter([]string{"http", "https", "mailto"}),
	}))

	return markdown.Render(p, New(opts), text, renderOpts)
}

func TestRenderHTML(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"emphasis", "hello *world*", "<p>hello <em>world</em></p>"},
		{"strong and del", "**a** ~~b~~", "<p><strong>a</strong> <del>b</del></p>"},
		{"code span", "run `ls -la`", "<p>run <code>ls -la</code></p>"},
		{"mention", "hi @bob", `<p>hi <span class="mention" data-mention="bob">@bob</span></p>`},
		{"hashtag", "#surgery", `<p><a class="hashtag" data-hashtag="surgery">#surgery</a></p>`},
		{"emoji", ":smile:", `<p><span class="emoji" data-emoji="smile">😄</span></p>`},
		{"inline html is escaped", "a <b>x</b>", "<p>a &lt;b&gt;x&lt;/b&gt;</p>"},
		{"heading", "## Title", "<h2>Title</h2>"},
		{"code block", "```go\nx := 1\n```", `<pre><code class="language-go">x := 1</code></pre>`},
		{"thematic break", "---", "<hr>"},
		{"link", `[docs](HTTPS://example.com "Docs")`, `<p><a href="https://example.com" title="Docs">docs</a></p>`},
		{"image", `![a *cat*](cat.png "Cat")`, `<p><img src="cat.png" alt="a cat" title="Cat"></p>`},
		{"ordered list", "3. a\n4. b", `<ol start="3"><li>a</li><li>b</li></ol>`},
		{"bullet list", "- a", "<ul><li>a</li></ul>"},
		{"loose list", "- a\n\n- b", "<ul><li><p>a</p></li><li><p>b</p></li></ul>"},
		{"escaped punctuation", `1 \* 2`, "<p>1 * 2</p>"},
		{"entity", "a &amp; b", "<p>a &amp; b</p>"},
		{"named entity", "&copy; 2024", "<p>© 2024</p>"},
		{"link title entity", `[x](https://example.com "t &amp; u")`, `<p><a href="https://example.com" title="t &amp; u">x</a></p>`},
		{"hard break", "a\\\nb", "<p>a<br>b</p>"},
		{"soft break", "a\nb", "<p>a\nb</p>"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, render(t, Options{}, c.input, markdown.RenderOptions{}))
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := render(t, Options{}, "| a | b |\n|:--|--:|\n| ![x](y.png) | 2 |\n", markdown.RenderOptions{})

	assert.Equal(t, `<table>`+
		`<thead><tr><th style="text-align: left">a</th><th style="text-align: right">b</th></tr></thead>`+
		`<tbody><tr><td style="text-align: left"><a class="table-image" href="y.png">x</a></td><td style="text-align: right">2</td></tr></tbody>`+
		`</table>`, out)

	out = render(t, Options{}, "| a |\n|---|\n", markdown.RenderOptions{})
	assert.Equal(t, `<table><thead><tr><th>a</th></tr></thead></table>`, out)
}

func TestRenderScriptURLs(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"link", "[click](javascript:alert(1))", "<p>click</p>"},
		{"link upper case", "[click](JavaScript:alert(1))", "<p>click</p>"},
		{"vbscript link", "[click](vbscript:msgbox)", "<p>click</p>"},
		{"image", "![x](javascript:alert(1))", "<p>x</p>"},
		{"data image", "![x](data:image/png;base64,AAAA)", `<p><img src="data:image/png;base64,AAAA" alt="x"></p>`},
		{"table image", "| a |\n|---|\n| ![x](javascript:alert(1)) |\n", "<table><thead><tr><th>a</th></tr></thead><tbody><tr><td>x</td></tr></tbody></table>"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := render(t, Options{}, c.input, markdown.RenderOptions{})

			assert.Equal(t, c.expected, out)
			assert.NotContains(t, out, "javascript:")
		})
	}
}

func TestRenderChannelLink(t *testing.T) {
	opts := Options{
		ChannelMentions: map[string]string{
			"town-square": "Town Square",
		},
	}

	assert.Equal(t,
		`<p><a class="channel-link" data-channel="town-square">~Town Square</a> <a class="channel-link" data-channel="other">~other</a></p>`,
		render(t, opts, "~town-square ~other", markdown.RenderOptions{}))
}

func TestRenderDeepLinks(t *testing.T) {
	opts := Options{
		ServerURL: "https://chat.example.com",
		SiteURL:   "https://chat.example.com",
	}

	assert.Equal(t,
		`<p><a href="https://chat.example.com/vets/channels/town" data-team="vets" data-channel="town">town</a></p>`,
		render(t, opts, "[town](https://chat.example.com/vets/channels/town)", markdown.RenderOptions{}))

	assert.Equal(t,
		`<p><a href="/vets/pl/abc123" data-team="vets" data-permalink="abc123">post</a></p>`,
		render(t, opts, "[post](/vets/pl/abc123)", markdown.RenderOptions{}))
}

func TestRenderFeatures(t *testing.T) {
	disabled := markdown.RenderOptions{
		Features: markdown.Features{
			DisableAtMentions:  true,
			DisableHashtags:    true,
			DisableChannelLink: true,
		},
	}

	assert.Equal(t, "<p>hi @bob #surgery ~town</p>", render(t, Options{}, "hi @bob #surgery ~town", disabled))
}

func TestRenderMentionHighlight(t *testing.T) {
	out := render(t, Options{}, "hey bob and @bob", markdown.RenderOptions{
		MentionKeys: []string{"bob"},
	})

	assert.Equal(t, `<p>hey <span class="mention-highlight">bob</span> and `+
		`<span class="mention-highlight"><span class="mention" data-mention="bob">@bob</span></span></p>`, out)
}

func TestRenderEditedIndicator(t *testing.T) {
	edited := markdown.RenderOptions{IsEdited: true}

	assert.Equal(t,
		`<p>hello <span class="edited-indicator">(edited)</span></p>`,
		render(t, Options{}, "hello", edited))

	assert.Equal(t,
		`<pre><code>code</code></pre><p><span class="edited-indicator">(edited)</span></p>`,
		render(t, Options{}, "```\ncode\n```", edited))

	assert.Equal(t,
		`<p>hello <span class="edited-indicator">bearbeitet</span></p>`,
		render(t, Options{EditedLabel: "bearbeitet"}, "hello", edited))
}
