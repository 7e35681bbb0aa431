package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScheme(t *testing.T) {
	assert.Equal(t, "http", GetScheme("http://example.com"))
	assert.Equal(t, "HTTPS", GetScheme("HTTPS://example.com"))
	assert.Equal(t, "mailto", GetScheme("mailto:alice@example.com"))
	assert.Equal(t, "", GetScheme("example.com/path"))
}

func TestURLFilter(t *testing.T) {
	filter := NewURLFilter([]string{"http", "HTTPS"})

	assert.True(t, filter("http://example.com"))
	assert.True(t, filter("https://example.com"))
	assert.True(t, filter("HTTP://example.com"))
	assert.True(t, filter("example.com"), "URLs without a scheme are accepted")

	assert.False(t, filter("ftp://example.com"))
	assert.False(t, filter("javascript:alert(1)"))
}

func TestNormalizeProtocol(t *testing.T) {
	assert.Equal(t, "https://Example.com/Path", NormalizeProtocol("HTTPS://Example.com/Path"))
	assert.Equal(t, "/relative/Path", NormalizeProtocol("/relative/Path"))
}

func TestMatchDeepLink(t *testing.T) {
	const server = "https://chat.example.com"

	t.Run("channel", func(t *testing.T) {
		dl := MatchDeepLink(server+"/vets/channels/town-square", server, server)
		require.NotNil(t, dl)

		assert.Equal(t, DeepLinkChannel, dl.Type)
		assert.Equal(t, "vets", dl.TeamName)
		assert.Equal(t, "town-square", dl.ChannelName)
	})

	t.Run("relative permalink", func(t *testing.T) {
		dl := MatchDeepLink("/vets/pl/abc123", server, server)
		require.NotNil(t, dl)

		assert.Equal(t, DeepLinkPermalink, dl.Type)
		assert.Equal(t, "vets", dl.TeamName)
		assert.Equal(t, "abc123", dl.PostID)
	})

	t.Run("foreign server", func(t *testing.T) {
		assert.Nil(t, MatchDeepLink("https://other.example.com/vets/channels/town-square", server, server))
	})

	t.Run("not configured", func(t *testing.T) {
		assert.Nil(t, MatchDeepLink(server+"/vets/channels/town-square", "", ""))
	})
}
