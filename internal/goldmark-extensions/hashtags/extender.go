package hashtags

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

const DefaultMinimumLength = 3

type Extender struct {
	// MinimumLength is the minimum number of characters (excluding '#') a
	// tag needs. Zero selects DefaultMinimumLength.
	MinimumLength int
}

func (e *Extender) Extend(m goldmark.Markdown) {
	min := e.MinimumLength
	if min <= 0 {
		min = DefaultMinimumLength
	}

	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&Parser{MinimumLength: min}, 400),
		),
	)
}

var _ goldmark.Extender = (*Extender)(nil)
