package cmds

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tierklinik-dobersberg/apis/pkg/cli"
	"github.com/tierklinik-dobersberg/markdown-service/internal/service"
)

func renderFlag(cmd *cobra.Command, format *string) func() *service.RenderSettings {
	cmd.Flags().StringVar(format, "render", "", "Render posts to the given format (html, text or instructions)")

	return func() *service.RenderSettings {
		if *format == "" {
			return nil
		}

		return &service.RenderSettings{
			Format: service.Format(*format),
		}
	}
}

func PostsCommand(root *cli.Root) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "posts [channel]",
		Aliases: []string{"post"},
		Args:    cobra.ExactArgs(1),
	}

	settings := renderFlag(cmd, &format)

	cmd.Run = func(cmd *cobra.Command, args []string) {
		res, err := newClient().Call(root.Context(), service.ListPostsProcedure, service.ListPostsRequest{
			Channel: args[0],
			Render:  settings(),
		}, nil)
		if err != nil {
			logrus.Fatalf("failed to list posts: %s", err)
		}

		root.Print(res)
	}

	addServerFlag(cmd)

	cmd.AddCommand(
		CreatePostCommand(root),
		UpdatePostCommand(root),
		GetPostCommand(root),
		GetThreadCommand(root),
	)

	return cmd
}

func CreatePostCommand(root *cli.Root) *cobra.Command {
	var (
		content string
		file    string
		req     service.CreatePostRequest
	)

	cmd := &cobra.Command{
		Use: "create",
		Run: func(cmd *cobra.Command, args []string) {
			if req.Channel == "" && req.ParentID == "" {
				logrus.Fatalf("channel must be set if reply-to is not")
			}

			ids, err := root.ResolveUserIds(root.Context(), []string{req.UserID})
			if err != nil {
				logrus.Fatalf("failed to resolve user: %s", err)
			}
			req.UserID = ids[0]

			req.Message = mustReadContent(content, file)

			res, err := newClient().Call(root.Context(), service.CreatePostProcedure, req, nil)
			if err != nil {
				logrus.Fatalf("failed to create post: %s", err)
			}

			root.Print(res)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&content, "content", "", "The message of the post")
		f.StringVar(&req.ParentID, "reply-to", "", "The ID of the post to which this is a reply")
		f.StringVar(&req.Channel, "channel", "", "The name of the channel")
		f.StringVar(&req.UserID, "user", "", "The name or ID of the author")
	}

	addFileFlag(cmd, &file)

	cmd.MarkFlagsMutuallyExclusive("channel", "reply-to")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	cmd.MarkFlagsOneRequired("content", "file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func UpdatePostCommand(root *cli.Root) *cobra.Command {
	var content, file string

	cmd := &cobra.Command{
		Use:  "update [id]",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := newClient().Call(root.Context(), service.UpdatePostProcedure, service.UpdatePostRequest{
				ID:      args[0],
				Message: mustReadContent(content, file),
			}, nil)
			if err != nil {
				logrus.Fatalf("failed to update post: %s", err)
			}

			root.Print(res)
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "The new message of the post")
	addFileFlag(cmd, &file)

	cmd.MarkFlagsMutuallyExclusive("content", "file")
	cmd.MarkFlagsOneRequired("content", "file")

	return cmd
}

func GetPostCommand(root *cli.Root) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:  "get [id]",
		Args: cobra.ExactArgs(1),
	}

	settings := renderFlag(cmd, &format)

	cmd.Run = func(cmd *cobra.Command, args []string) {
		res, err := newClient().Call(root.Context(), service.GetPostProcedure, service.GetPostRequest{
			ID:     args[0],
			Render: settings(),
		}, nil)
		if err != nil {
			logrus.Fatalf("failed to load post: %s", err)
		}

		root.Print(res)
	}

	return cmd
}

func GetThreadCommand(root *cli.Root) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:  "thread [id]",
		Args: cobra.ExactArgs(1),
	}

	settings := renderFlag(cmd, &format)

	cmd.Run = func(cmd *cobra.Command, args []string) {
		res, err := newClient().Call(root.Context(), service.GetThreadProcedure, service.GetThreadRequest{
			ID:     args[0],
			Render: settings(),
		}, nil)
		if err != nil {
			logrus.Fatalf("failed to load thread: %s", err)
		}

		root.Print(res)
	}

	return cmd
}
