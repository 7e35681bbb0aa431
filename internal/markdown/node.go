package markdown

import "strings"

// NodeType identifies the kind of a document tree node.
type NodeType string

const (
	TypeDocument NodeType = "document"

	// inlines
	TypeText             NodeType = "text"
	TypeEmph             NodeType = "emph"
	TypeStrong           NodeType = "strong"
	TypeDel              NodeType = "del"
	TypeCode             NodeType = "code"
	TypeLink             NodeType = "link"
	TypeImage            NodeType = "image"
	TypeAtMention        NodeType = "at_mention"
	TypeChannelLink      NodeType = "channel_link"
	TypeEmoji            NodeType = "emoji"
	TypeHashtag          NodeType = "hashtag"
	TypeHTMLInline       NodeType = "html_inline"
	TypeHardBreak        NodeType = "hard_break"
	TypeSoftBreak        NodeType = "soft_break"
	TypeMentionHighlight NodeType = "mention_highlight"
	TypeEditedIndicator  NodeType = "edited_indicator"

	// blocks
	TypeParagraph     NodeType = "paragraph"
	TypeHeading       NodeType = "heading"
	TypeCodeBlock     NodeType = "code_block"
	TypeBlockQuote    NodeType = "block_quote"
	TypeList          NodeType = "list"
	TypeItem          NodeType = "item"
	TypeThematicBreak NodeType = "thematic_break"
	TypeHTMLBlock     NodeType = "html_block"
	TypeTable         NodeType = "table"
	TypeTableRow      NodeType = "table_row"
	TypeTableCell     NodeType = "table_cell"
)

func (t NodeType) String() string {
	return string(t)
}

// Node is a single node of the document tree. Only the fields relevant for
// the node's Type are populated.
type Node struct {
	Type     NodeType
	Literal  string
	Children []*Node

	// heading
	Level int

	// list, Ordered is copied to list items. Paragraphs of tight list
	// items have Tight set as well.
	Ordered bool
	Start   int
	Tight   bool

	// list item
	Index    int
	Number   int
	Continue bool

	// link and image
	Destination string
	Title       string

	// Caption holds the detached inline content of an image.
	Caption []*Node

	// code block
	Language string

	// at-mention
	MentionName string
	UserID      string
	DisplayName string

	ChannelName string
	Hashtag     string

	// emoji
	EmojiName    string
	EmojiUnicode string

	// html
	IsBlock bool

	// table
	NumColumns int
	Align      string
	IsHeader   bool
}

// NewNode creates a node of type t with the given children.
func NewNode(t NodeType, children ...*Node) *Node {
	return &Node{
		Type:     t,
		Children: children,
	}
}

// NewText creates a text leaf.
func NewText(literal string) *Node {
	return &Node{
		Type:    TypeText,
		Literal: literal,
	}
}

func (n *Node) AppendChild(c *Node) {
	n.Children = append(n.Children, c)
}

func (n *Node) LastChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}

	return n.Children[len(n.Children)-1]
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits n and all descendants in document order. Detached image
// captions are not visited. Returning false from fn skips the children of
// the current node.
func Walk(n *Node, fn func(n *Node) bool) {
	if n == nil {
		return
	}

	if !fn(n) {
		return
	}

	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// CanonicalText returns the textual form a node had in the source message.
// It is used when a rich node is rendered as plain text.
func (n *Node) CanonicalText() string {
	switch n.Type {
	case TypeAtMention:
		return "@" + n.MentionName
	case TypeChannelLink:
		return "~" + n.ChannelName
	case TypeHashtag:
		return "#" + n.Hashtag
	case TypeEmoji:
		if n.Literal != "" {
			return n.Literal
		}

		return ":" + n.EmojiName + ":"
	case TypeSoftBreak, TypeHardBreak:
		return "\n"
	}

	if n.IsLeaf() {
		return n.Literal
	}

	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.CanonicalText())
	}

	return sb.String()
}
