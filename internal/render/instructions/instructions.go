// Package instructions renders document trees to a tree of typed render
// instructions encoded as protobuf Struct values. Clients with their own UI
// toolkit use them instead of HTML.
package instructions

import (
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	"google.golang.org/protobuf/types/known/structpb"
)

var genericTypes = []markdown.NodeType{
	markdown.TypeEmph,
	markdown.TypeStrong,
	markdown.TypeDel,
	markdown.TypeCode,
	markdown.TypeLink,
	markdown.TypeAtMention,
	markdown.TypeChannelLink,
	markdown.TypeEmoji,
	markdown.TypeHashtag,
	markdown.TypeHTMLInline,
	markdown.TypeHardBreak,
	markdown.TypeSoftBreak,
	markdown.TypeMentionHighlight,
	markdown.TypeEditedIndicator,
	markdown.TypeParagraph,
	markdown.TypeHeading,
	markdown.TypeCodeBlock,
	markdown.TypeBlockQuote,
	markdown.TypeList,
	markdown.TypeItem,
	markdown.TypeThematicBreak,
	markdown.TypeHTMLBlock,
	markdown.TypeTable,
	markdown.TypeTableRow,
	markdown.TypeTableCell,
}

// New returns a renderer producing instruction values. Every instruction is
// a struct with a "type" and the ancestor "context". Containers carry
// "children", text instructions a "text" field and the remaining fields
// depend on the type.
func New() *markdown.Renderer[*structpb.Value] {
	rules := markdown.Rules[*structpb.Value]{
		markdown.TypeDocument: document,
		markdown.TypeText:     text,
		markdown.TypeImage:    generic,
	}

	for _, t := range genericTypes {
		rules[t] = generic
	}

	return &markdown.Renderer[*structpb.Value]{
		Text:  text,
		Rules: rules,
		Fragment: func(children []*structpb.Value) *structpb.Value {
			return build("fragment", nil, children, nil)
		},
	}
}

func document(p markdown.Props[*structpb.Value]) *structpb.Value {
	return build(string(markdown.TypeDocument), nil, p.Children, nil)
}

func text(p markdown.Props[*structpb.Value]) *structpb.Value {
	return build(string(markdown.TypeText), p.Context, nil, map[string]*structpb.Value{
		"text": structpb.NewStringValue(p.Literal),
	})
}

func generic(p markdown.Props[*structpb.Value]) *structpb.Value {
	fields := nodeFields(p.Node)

	if len(p.Caption) > 0 {
		fields["caption"] = list(p.Caption)
	}

	return build(string(p.Node.Type), p.Context, p.Children, fields)
}

// nodeFields returns the node specific fields relevant for the node's type.
func nodeFields(n *markdown.Node) map[string]*structpb.Value {
	fields := make(map[string]*structpb.Value)

	str := func(key, value string) {
		if value != "" {
			fields[key] = structpb.NewStringValue(value)
		}
	}

	switch n.Type {
	case markdown.TypeCode, markdown.TypeHTMLInline, markdown.TypeHTMLBlock:
		str("text", n.Literal)

	case markdown.TypeCodeBlock:
		str("text", n.Literal)
		str("language", n.Language)

	case markdown.TypeHeading:
		fields["level"] = structpb.NewNumberValue(float64(n.Level))

	case markdown.TypeList:
		fields["ordered"] = structpb.NewBoolValue(n.Ordered)
		fields["start"] = structpb.NewNumberValue(float64(n.Start))
		fields["tight"] = structpb.NewBoolValue(n.Tight)

	case markdown.TypeItem:
		fields["index"] = structpb.NewNumberValue(float64(n.Index))
		fields["number"] = structpb.NewNumberValue(float64(n.Number))
		fields["continue"] = structpb.NewBoolValue(n.Continue)

	case markdown.TypeLink, markdown.TypeImage:
		str("destination", n.Destination)
		str("title", n.Title)

	case markdown.TypeAtMention:
		str("mentionName", n.MentionName)
		str("userId", n.UserID)
		str("displayName", n.DisplayName)

	case markdown.TypeChannelLink:
		str("channelName", n.ChannelName)

	case markdown.TypeHashtag:
		str("hashtag", n.Hashtag)

	case markdown.TypeEmoji:
		str("emojiName", n.EmojiName)
		str("unicode", n.EmojiUnicode)
		str("text", n.Literal)

	case markdown.TypeTable:
		fields["numColumns"] = structpb.NewNumberValue(float64(n.NumColumns))

	case markdown.TypeTableRow:
		fields["header"] = structpb.NewBoolValue(n.IsHeader)

	case markdown.TypeTableCell:
		fields["header"] = structpb.NewBoolValue(n.IsHeader)
		str("align", n.Align)
	}

	return fields
}

func build(typ string, context []markdown.NodeType, children []*structpb.Value, fields map[string]*structpb.Value) *structpb.Value {
	s := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type": structpb.NewStringValue(typ),
		},
	}

	for k, v := range fields {
		s.Fields[k] = v
	}

	if len(context) > 0 {
		ctx := make([]*structpb.Value, len(context))
		for idx, c := range context {
			ctx[idx] = structpb.NewStringValue(string(c))
		}

		s.Fields["context"] = list(ctx)
	}

	if len(children) > 0 {
		s.Fields["children"] = list(children)
	}

	return structpb.NewStructValue(s)
}

func list(values []*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{
		Values: values,
	})
}
