package mentions

import (
	"context"

	idmv1 "github.com/tierklinik-dobersberg/apis/gen/go/tkd/idm/v1"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

type Resolver interface {
	ResolveMention(*Node) (profile *idmv1.Profile, err error)
}

type ResolverFunc func(*Node) (*idmv1.Profile, error)

func (fn ResolverFunc) ResolveMention(n *Node) (*idmv1.Profile, error) {
	return fn(n)
}

// Priority of the at-mention parser. It must run before linkify which would
// otherwise claim `user@host` style text.
const Priority = 400

type Extender struct {
	Context  context.Context
	Resolver Resolver
}

func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(
				&Parser{
					Context:  e.Context,
					Resolver: e.Resolver,
				},
				Priority,
			),
		),
	)
}

var _ goldmark.Extender = (*Extender)(nil)
