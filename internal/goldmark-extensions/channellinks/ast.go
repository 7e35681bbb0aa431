package channellinks

import "github.com/yuin/goldmark/ast"

var Kind = ast.NewNodeKind("ChannelLink")

// Node is a `~channel-name` reference.
type Node struct {
	ast.BaseInline

	Name []byte
}

func (*Node) Kind() ast.NodeKind {
	return Kind
}

func (n *Node) Dump(src []byte, level int) {
	ast.DumpHelper(n, src, level, map[string]string{
		"Name": string(n.Name),
	}, nil)
}
