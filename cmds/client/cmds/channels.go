package cmds

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tierklinik-dobersberg/apis/pkg/cli"
	"github.com/tierklinik-dobersberg/markdown-service/internal/service"
)

func ChannelsCommand(root *cli.Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "channels",
		Aliases: []string{"channel"},
		Run: func(cmd *cobra.Command, args []string) {
			res, err := newClient().Call(root.Context(), service.ListChannelsProcedure, service.Empty{}, nil)
			if err != nil {
				logrus.Fatalf("failed to list channels: %s", err)
			}

			root.Print(res)
		},
	}

	addServerFlag(cmd)

	cmd.AddCommand(
		CreateChannelCommand(root),
		DeleteChannelCommand(root),
	)

	return cmd
}

func CreateChannelCommand(root *cli.Root) *cobra.Command {
	var req service.CreateChannelRequest

	cmd := &cobra.Command{
		Use:  "create [name]",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req.Name = args[0]

			res, err := newClient().Call(root.Context(), service.CreateChannelProcedure, req, nil)
			if err != nil {
				logrus.Fatalf("failed to create channel: %s", err)
			}

			root.Print(res)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&req.DisplayName, "display-name", "", "The display name of the channel")
		f.StringVar(&req.Team, "team", "", "The team the channel belongs to")
	}

	return cmd
}

func DeleteChannelCommand(root *cli.Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := newClient().Call(root.Context(), service.DeleteChannelProcedure, service.DeleteChannelRequest{
				Name: args[0],
			}, nil)
			if err != nil {
				logrus.Fatalf("failed to delete channel: %s", err)
			}

			root.Print(res)
		},
	}

	return cmd
}
