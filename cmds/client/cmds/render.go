package cmds

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tierklinik-dobersberg/apis/pkg/cli"
	"github.com/tierklinik-dobersberg/markdown-service/internal/config"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/html"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/instructions"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/term"
	"github.com/tierklinik-dobersberg/markdown-service/internal/service"
)

func RenderCommand(root *cli.Root) *cobra.Command {
	var (
		settings         service.RenderSettings
		format           string
		edited           bool
		remote           bool
		file             string
		minHashtagLength int
		schemes          []string
	)

	cmd := &cobra.Command{
		Use:   "render [content]",
		Short: "Render a message to html, text or render instructions",
		Long:  "Render a message given as argument or read from the file set by --file.",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var content string
			if len(args) > 0 {
				content = args[0]
			} else if file == "" {
				logrus.Fatalf("either content or --file must be set")
			}

			text := mustReadContent(content, file)
			settings.Format = service.Format(format)

			if remote {
				if cmd.Flags().Changed("min-hashtag-length") {
					settings.MinimumHashtagLength = minHashtagLength
				}
				if cmd.Flags().Changed("schemes") {
					settings.AutolinkedURLSchemes = schemes
				}

				res, err := newClient().Call(root.Context(), service.RenderProcedure, service.RenderRequest{
					RenderSettings: settings,
					Text:           text,
					IsEdited:       edited,
				}, nil)
				if err != nil {
					logrus.Fatalf("failed to render message: %s", err)
				}

				root.Print(res)

				return
			}

			pipeline := markdown.NewPipeline(markdown.NewParser(markdown.ParserOptions{
				URLFilter:            markdown.NewURLFilter(schemes),
				MinimumHashtagLength: minHashtagLength,
			}))

			opts := markdown.RenderOptions{
				MentionKeys: settings.MentionKeys,
				IsEdited:    edited,
				Features: markdown.Features{
					DisableHashtags:    settings.DisableHashtags,
					DisableAtMentions:  settings.DisableAtMentions,
					DisableChannelLink: settings.DisableChannelLink,
				},
			}

			switch settings.Format {
			case service.FormatText:
				fmt.Println(markdown.Render(pipeline, term.New(term.DefaultStyles()), text, opts))

			case service.FormatHTML:
				fmt.Println(markdown.Render(pipeline, html.New(html.Options{}), text, opts))

			case service.FormatInstructions:
				root.Print(markdown.Render(pipeline, instructions.New(), text, opts))

			default:
				logrus.Fatalf("unsupported format %q", format)
			}
		},
	}

	addServerFlag(cmd)
	addFileFlag(cmd, &file)

	f := cmd.Flags()
	{
		f.StringVar(&format, "format", string(service.FormatText), "The output format, one of text, html or instructions")
		f.StringSliceVar(&settings.MentionKeys, "mention-key", nil, "Words that should be highlighted as mentions")
		f.BoolVar(&settings.DisableHashtags, "disable-hashtags", false, "Render hashtags as plain text")
		f.BoolVar(&settings.DisableAtMentions, "disable-at-mentions", false, "Render @-mentions as plain text")
		f.BoolVar(&settings.DisableChannelLink, "disable-channel-links", false, "Render ~channel links as plain text")
		f.BoolVar(&edited, "edited", false, "Append the edited indicator")
		f.BoolVar(&remote, "remote", false, "Render using the markdown service instead of locally")
		f.IntVar(&minHashtagLength, "min-hashtag-length", config.DefaultMinimumHashtagLength, "The minimum length of hashtags")
		f.StringSliceVar(&schemes, "schemes", config.DefaultAutolinkedURLSchemes, "URL schemes that are linked automatically")
	}

	return cmd
}
