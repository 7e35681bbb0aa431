package mentions

import (
	"bytes"
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/tierklinik-dobersberg/apis/pkg/log"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type Parser struct {
	Context context.Context

	Resolver Resolver
}

func (*Parser) Trigger() []byte {
	return []byte{'@'}
}

func (p *Parser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	// `foo@bar` is not a mention
	if isNameRune(block.PrecendingCharacter()) {
		return nil
	}

	line, seg := block.PeekLine()

	if len(line) == 0 || line[0] != '@' {
		return nil
	}

	end := getSpan(line[1:])
	if end <= 0 {
		return nil
	}

	seg = seg.WithStop(seg.Start + end + 1) // + '@'

	n := Node{
		Name: block.Value(seg.WithStart(seg.Start + 1)),
	}

	if res := p.Resolver; res != nil {
		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}

		profile, err := res.ResolveMention(&n)
		if err != nil {
			// unknown users are still rendered as mentions, just without
			// a display name.
			log.L(ctx).Debugf("failed to resolve mention %q: %s", n.Name, err)
		} else {
			n.Profile = profile
		}
	}

	block.Advance(seg.Len())

	return &n
}

// getSpan returns the length of the mention name at the start of line or -1
// if line does not start with a valid name. Trailing dots are not part of
// the name so "@alice." mentions alice.
func getSpan(line []byte) int {
	start, sz := utf8.DecodeRune(line)

	if !unicode.IsLetter(start) && !unicode.IsNumber(start) {
		return -1
	}

	end := len(line)
	if i := bytes.IndexFunc(line[sz:], endOfMention); i >= 0 {
		end = i + sz
	}

	for end > sz && line[end-1] == '.' {
		end--
	}

	return end
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func endOfMention(r rune) bool {
	return !isNameRune(r) && r != '-' && r != '.'
}

var _ parser.InlineParser = (*Parser)(nil)
