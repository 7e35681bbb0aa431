package markdown

// RenderOptions configures a single render of a message.
type RenderOptions struct {
	Features

	// MentionKeys are highlighted wherever they appear in text.
	MentionKeys []string

	// IsEdited appends an edited indicator to the document.
	IsEdited bool
}

// Pipeline parses message text and runs the transform passes. It keeps no
// state between calls and every call works on a fresh tree.
type Pipeline struct {
	Parser Parser
}

func NewPipeline(p Parser) *Pipeline {
	return &Pipeline{
		Parser: p,
	}
}

// Transform parses text and applies all transform passes in order.
func (p *Pipeline) Transform(text string, opts RenderOptions) *Node {
	root := p.Parser.Parse(text)
	if root == nil {
		root = NewNode(TypeDocument)
	}

	root = CombineTextNodes(root)
	root = AddListItemIndices(root)
	root = PullOutImages(root)
	root = HighlightMentions(root, opts.MentionKeys)

	if opts.IsEdited {
		root = AddEditedIndicator(root)
	}

	return root
}

// Render transforms text and dispatches the resulting tree to r.
func Render[T any](p *Pipeline, r *Renderer[T], text string, opts RenderOptions) T {
	return r.Render(p.Transform(text, opts), opts.Features)
}
