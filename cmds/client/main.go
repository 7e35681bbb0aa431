package main

import (
	"github.com/sirupsen/logrus"
	"github.com/tierklinik-dobersberg/apis/pkg/cli"
	"github.com/tierklinik-dobersberg/markdown-service/cmds/client/cmds"
)

func main() {
	root := cli.New("mdctl")

	root.AddCommand(
		cmds.RenderCommand(root),
		cmds.ChannelsCommand(root),
		cmds.PostsCommand(root),
	)

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
