package cmds

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tierklinik-dobersberg/markdown-service/internal/service"
)

var serverURL string

func addServerFlag(cmd *cobra.Command) {
	def := os.Getenv("MARKDOWN_SERVICE_URL")
	if def == "" {
		def = "http://localhost:8080"
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", def, "The base URL of the markdown service")
}

func newClient() *service.Client {
	return service.NewClient(http.DefaultClient, serverURL)
}

func addFileFlag(cmd *cobra.Command, file *string) {
	cmd.Flags().StringVarP(file, "file", "f", "", "Read the message from the given file, - reads from stdin")
}

// readContent returns content unless file is set, in which case the message
// is read from file. A file of "-" reads from stdin.
func readContent(content, file string, stdin io.Reader) (string, error) {
	if file == "" {
		return content, nil
	}

	if content != "" {
		return "", fmt.Errorf("content and file must not be used together")
	}

	var (
		blob []byte
		err  error
	)

	if file == "-" {
		blob, err = io.ReadAll(stdin)
	} else {
		blob, err = os.ReadFile(file)
	}

	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", file, err)
	}

	return string(blob), nil
}

func mustReadContent(content, file string) string {
	text, err := readContent(content, file, os.Stdin)
	if err != nil {
		logrus.Fatal(err)
	}

	return text
}
