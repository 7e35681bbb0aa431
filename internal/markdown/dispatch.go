package markdown

// Props is passed to a render rule.
type Props[T any] struct {
	// Node is the node being rendered, it carries the node specific
	// fields like Level, Destination or MentionName.
	Node *Node

	Literal string

	// Children holds the already rendered children of Node.
	Children []T

	// Context lists the types of all ancestors, from the top-level block
	// down to the parent of Node. The document root is not included.
	Context []NodeType

	// First is set if Node is the first child of its parent.
	First bool

	// Caption holds the rendered caption of an image.
	Caption []T
}

// InContext reports whether any ancestor is of type t.
func (p Props[T]) InContext(t NodeType) bool {
	return p.CountContext(t) > 0
}

// CountContext returns how many ancestors are of type t.
func (p Props[T]) CountContext(t NodeType) int {
	count := 0
	for _, c := range p.Context {
		if c == t {
			count++
		}
	}

	return count
}

type Rule[T any] func(Props[T]) T

type Rules[T any] map[NodeType]Rule[T]

// Features toggles rich rendering of chat specific nodes. Disabled nodes
// are rendered as text in the form they were written.
type Features struct {
	DisableHashtags    bool
	DisableAtMentions  bool
	DisableChannelLink bool
}

// Renderer dispatches document nodes to render rules based on their type.
type Renderer[T any] struct {
	Rules Rules[T]

	// Text renders text leaves and every leaf without a rule. It must be
	// set.
	Text Rule[T]

	// Fragment combines the rendered children of container nodes without
	// a rule, including the document itself.
	Fragment func(children []T) T
}

// Render dispatches root and all its descendants top-down and returns the
// result of the root.
func (r *Renderer[T]) Render(root *Node, features Features) T {
	if root == nil {
		var zero T
		return zero
	}

	if root.Type != TypeDocument {
		return r.dispatch(root, nil, true, features)
	}

	children := r.renderAll(root.Children, nil, features)
	if rule, ok := r.Rules[TypeDocument]; ok {
		return rule(Props[T]{
			Node:     root,
			Children: children,
			First:    true,
		})
	}

	return r.fragment(children)
}

func (r *Renderer[T]) renderAll(nodes []*Node, ctx []NodeType, features Features) []T {
	if len(nodes) == 0 {
		return nil
	}

	result := make([]T, len(nodes))
	for idx, n := range nodes {
		result[idx] = r.dispatch(n, ctx, idx == 0, features)
	}

	return result
}

func (r *Renderer[T]) dispatch(n *Node, ctx []NodeType, first bool, features Features) T {
	if disabled(n.Type, features) {
		return r.text(Props[T]{
			Node:    n,
			Literal: n.CanonicalText(),
			Context: ctx,
			First:   first,
		})
	}

	// the full slice expression makes append copy, siblings must not see
	// each others context.
	childCtx := append(ctx[:len(ctx):len(ctx)], n.Type)

	props := Props[T]{
		Node:     n,
		Literal:  n.Literal,
		Children: r.renderAll(n.Children, childCtx, features),
		Context:  ctx,
		First:    first,
	}

	if len(n.Caption) > 0 {
		props.Caption = r.renderAll(n.Caption, childCtx, features)
	}

	if rule, ok := r.Rules[n.Type]; ok && rule != nil {
		return rule(props)
	}

	if n.IsLeaf() {
		if props.Literal == "" {
			props.Literal = n.CanonicalText()
		}

		return r.text(props)
	}

	return r.fragment(props.Children)
}

func (r *Renderer[T]) text(p Props[T]) T {
	if r.Text == nil {
		var zero T
		return zero
	}

	return r.Text(p)
}

func (r *Renderer[T]) fragment(children []T) T {
	if r.Fragment == nil {
		var zero T
		if len(children) > 0 {
			return children[0]
		}

		return zero
	}

	return r.Fragment(children)
}

func disabled(t NodeType, f Features) bool {
	switch t {
	case TypeHashtag:
		return f.DisableHashtags
	case TypeAtMention:
		return f.DisableAtMentions
	case TypeChannelLink:
		return f.DisableChannelLink
	}

	return false
}
