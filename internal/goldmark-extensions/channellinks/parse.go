package channellinks

import (
	"bytes"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type Parser struct{}

func (*Parser) Trigger() []byte {
	return []byte{'~'}
}

func (p *Parser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	if isNameByte(block.PrecendingCharacter()) {
		return nil
	}

	line, seg := block.PeekLine()
	if len(line) < 2 || line[0] != '~' {
		return nil
	}

	end := bytes.IndexFunc(line[1:], func(r rune) bool {
		return !isNameByte(r)
	})
	if end < 0 {
		end = len(line) - 1
	}

	if end == 0 {
		return nil
	}

	seg = seg.WithStop(seg.Start + end + 1)

	n := &Node{
		Name: bytes.ToLower(block.Value(seg.WithStart(seg.Start + 1))),
	}

	block.Advance(seg.Len())

	return n
}

func isNameByte(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || r == '-' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
}

var _ parser.InlineParser = (*Parser)(nil)
