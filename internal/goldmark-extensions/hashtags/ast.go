package hashtags

import "github.com/yuin/goldmark/ast"

var Kind = ast.NewNodeKind("Hashtag")

// Node is a `#hashtag`. Tag does not include the leading '#'.
type Node struct {
	ast.BaseInline

	Tag []byte
}

func (*Node) Kind() ast.NodeKind {
	return Kind
}

func (n *Node) Dump(src []byte, level int) {
	ast.DumpHelper(n, src, level, map[string]string{
		"Tag": string(n.Tag),
	}, nil)
}
