package channellinks

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

// Priority is lower than the one of the strikethrough delimiter parser so
// `~town-square` is tried as a channel link first.
const Priority = 400

type Extender struct{}

func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&Parser{}, Priority),
		),
	)
}

var _ goldmark.Extender = (*Extender)(nil)
