package cmds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadContent(t *testing.T) {
	t.Run("content is used verbatim", func(t *testing.T) {
		for _, content := range []string{"@bob hi", "@-", "plain"} {
			text, err := readContent(content, "", strings.NewReader("stdin"))
			require.NoError(t, err)
			assert.Equal(t, content, text)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "message.md")
		require.NoError(t, os.WriteFile(path, []byte("# from file"), 0o600))

		text, err := readContent("", path, nil)
		require.NoError(t, err)
		assert.Equal(t, "# from file", text)
	})

	t.Run("stdin", func(t *testing.T) {
		text, err := readContent("", "-", strings.NewReader("@alice see above"))
		require.NoError(t, err)
		assert.Equal(t, "@alice see above", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readContent("", filepath.Join(t.TempDir(), "missing"), nil)
		assert.Error(t, err)
	})

	t.Run("content and file", func(t *testing.T) {
		_, err := readContent("hi", "-", strings.NewReader("stdin"))
		assert.Error(t, err)
	})
}
