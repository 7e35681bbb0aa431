package mentions

import (
	idmv1 "github.com/tierklinik-dobersberg/apis/gen/go/tkd/idm/v1"
	"github.com/yuin/goldmark/ast"
)

var Kind = ast.NewNodeKind("AtMention")

type Node struct {
	ast.BaseInline

	Name    []byte
	Profile *idmv1.Profile
}

func (*Node) Kind() ast.NodeKind {
	return Kind
}

func (n *Node) Dump(src []byte, level int) {
	ast.DumpHelper(n, src, level, map[string]string{
		"Name": string(n.Name),
	}, nil)
}

// DisplayName returns the display name of the resolved profile, falling
// back to the username. It is empty for unresolved mentions.
func (n *Node) DisplayName() string {
	if n.Profile == nil {
		return ""
	}

	if name := n.Profile.GetUser().GetDisplayName(); name != "" {
		return name
	}

	return n.Profile.GetUser().GetUsername()
}
