package hashtags

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type Parser struct {
	MinimumLength int
}

func (*Parser) Trigger() []byte {
	return []byte{'#'}
}

func (p *Parser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	prev := block.PrecendingCharacter()
	if isTagRune(prev) || prev == '#' || prev == '&' {
		return nil
	}

	line, seg := block.PeekLine()
	if len(line) < 2 || line[0] != '#' {
		return nil
	}

	tag := line[1:]

	first, _ := utf8.DecodeRune(tag)
	if !unicode.IsLetter(first) {
		return nil
	}

	end := bytes.IndexFunc(tag, func(r rune) bool {
		return !isTagRune(r) && r != '.' && r != '-'
	})
	if end < 0 {
		end = len(tag)
	}

	for end > 0 && tag[end-1] == '.' {
		end--
	}

	if utf8.RuneCount(tag[:end]) < p.MinimumLength {
		return nil
	}

	seg = seg.WithStop(seg.Start + end + 1)

	n := &Node{
		Tag: block.Value(seg.WithStart(seg.Start + 1)),
	}

	block.Advance(seg.Len())

	return n
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

var _ parser.InlineParser = (*Parser)(nil)
