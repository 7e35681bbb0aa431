package markdown

import (
	"strings"
	"unicode/utf8"
)

// CombineTextNodes merges runs of adjacent text siblings into a single text
// node. The parser splits text at every potential inline trigger so mention
// highlighting would otherwise miss keys spanning those splits.
func CombineTextNodes(root *Node) *Node {
	Walk(root, func(n *Node) bool {
		if len(n.Children) < 2 {
			return true
		}

		combined := make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			if last := lastOf(combined); last != nil && last.Type == TypeText && c.Type == TypeText {
				last.Literal += c.Literal
				continue
			}

			combined = append(combined, c)
		}
		n.Children = combined

		return true
	})

	return root
}

// AddListItemIndices numbers the items of every list. Index is zero based,
// Number is the value displayed for ordered lists and Continue is set on
// every item after the first. Items inherit Ordered from their list.
func AddListItemIndices(root *Node) *Node {
	Walk(root, func(n *Node) bool {
		if n.Type != TypeList {
			return true
		}

		for idx, item := range n.Children {
			item.Index = idx
			item.Ordered = n.Ordered
			item.Number = n.Start + idx
			item.Continue = idx > 0
		}

		return true
	})

	return root
}

// PullOutImages moves the inline content of every image into its Caption so
// the caption is rendered by the image rule and not as regular text.
func PullOutImages(root *Node) *Node {
	Walk(root, func(n *Node) bool {
		if n.Type != TypeImage || len(n.Children) == 0 {
			return true
		}

		n.Caption = append(n.Caption, n.Children...)
		n.Children = nil

		for _, c := range n.Caption {
			PullOutImages(c)
		}

		return false
	})

	return root
}

// HighlightMentions splits text nodes around mention keys and wraps each
// match in a mention_highlight node. At-mention nodes that refer to one of
// the keys are wrapped as well. Concatenating the literals of the resulting
// text nodes yields the original text.
func HighlightMentions(root *Node, mentionKeys []string) *Node {
	return HighlightMentionsWith(root, NewMentionMatcher(mentionKeys))
}

func HighlightMentionsWith(root *Node, m *MentionMatcher) *Node {
	if root == nil || m.Empty() {
		return root
	}

	root.Children = highlightChildren(root.Children, m)

	return root
}

func highlightChildren(children []*Node, m *MentionMatcher) []*Node {
	result := make([]*Node, 0, len(children))

	for _, c := range children {
		switch c.Type {
		case TypeText:
			result = append(result, splitMentions(c.Literal, m)...)

		case TypeAtMention:
			if m.MatchesName(c.MentionName) {
				result = append(result, NewNode(TypeMentionHighlight, c))
			} else {
				result = append(result, c)
			}

		case TypeMentionHighlight:
			result = append(result, c)

		default:
			if len(c.Children) > 0 {
				c.Children = highlightChildren(c.Children, m)
			}

			result = append(result, c)
		}
	}

	return result
}

func splitMentions(literal string, m *MentionMatcher) []*Node {
	var nodes []*Node

	rest := literal
	prev := utf8.RuneError
	for rest != "" {
		start, end, ok := m.FindFirstAfter(rest, prev)
		if !ok {
			break
		}

		if start > 0 {
			nodes = append(nodes, NewText(rest[:start]))
		}

		nodes = append(nodes, NewNode(TypeMentionHighlight, NewText(rest[start:end])))
		prev, _ = utf8.DecodeLastRuneInString(rest[:end])
		rest = rest[end:]
	}

	if rest != "" || len(nodes) == 0 {
		nodes = append(nodes, NewText(rest))
	}

	return nodes
}

// AddEditedIndicator appends an edited_indicator to the last top-level
// block if it is a paragraph or heading. Otherwise a new paragraph holding
// only the indicator is appended to the document.
func AddEditedIndicator(root *Node) *Node {
	indicator := NewNode(TypeEditedIndicator)

	if last := root.LastChild(); last != nil && (last.Type == TypeParagraph || last.Type == TypeHeading) {
		last.AppendChild(indicator)
		return root
	}

	root.AppendChild(NewNode(TypeParagraph, indicator))

	return root
}

// TextContent concatenates the literals of all text leaves below n in
// document order.
func TextContent(n *Node) string {
	var sb strings.Builder

	Walk(n, func(c *Node) bool {
		if c.Type == TypeText {
			sb.WriteString(c.Literal)
		}

		return true
	})

	return sb.String()
}

func lastOf(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return nil
	}

	return nodes[len(nodes)-1]
}
