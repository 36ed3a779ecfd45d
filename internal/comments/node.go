package comments

import "github.com/dshills/cdoc/pkg/types"

// Node is one node of a parsed documentation comment.
//
// The set of implementations is closed: FullComment, ParagraphComment and the
// inline and block kinds declared in this file.
type Node interface {
	Kind() types.CommentKind
	Children() []Node
}

// FullComment is the root of a parsed comment
type FullComment struct {
	Blocks []Node
}

func (c *FullComment) Kind() types.CommentKind { return types.KindFullComment }
func (c *FullComment) Children() []Node        { return c.Blocks }

// ParagraphComment holds inline content
type ParagraphComment struct {
	Content []Node
}

func (c *ParagraphComment) Kind() types.CommentKind { return types.KindParagraph }
func (c *ParagraphComment) Children() []Node        { return c.Content }

// IsWhitespace reports whether the paragraph has no visible content
func (c *ParagraphComment) IsWhitespace() bool {
	for _, n := range c.Content {
		t, ok := n.(*TextComment)
		if !ok || !IsWhitespace(t.Text) {
			return false
		}
	}
	return true
}

// TextComment is a run of plain text on a single line
type TextComment struct {
	Text string
}

func (c *TextComment) Kind() types.CommentKind { return types.KindText }
func (c *TextComment) Children() []Node        { return nil }

// InlineCommandComment is a command rendered inside a paragraph, such as \b or \p
type InlineCommandComment struct {
	CommandID uint
	Args      []string
}

func (c *InlineCommandComment) Kind() types.CommentKind { return types.KindInlineCommand }
func (c *InlineCommandComment) Children() []Node        { return nil }

// HTMLAttr is one attribute of an HTML start tag
type HTMLAttr struct {
	Name  string
	Value string
}

// HTMLStartTagComment is an opening HTML tag, possibly self-closing
type HTMLStartTagComment struct {
	TagName     string
	Attrs       []HTMLAttr
	SelfClosing bool
}

func (c *HTMLStartTagComment) Kind() types.CommentKind { return types.KindHTMLStartTag }
func (c *HTMLStartTagComment) Children() []Node        { return nil }

// HTMLEndTagComment is a closing HTML tag
type HTMLEndTagComment struct {
	TagName string
}

func (c *HTMLEndTagComment) Kind() types.CommentKind { return types.KindHTMLEndTag }
func (c *HTMLEndTagComment) Children() []Node        { return nil }

// BlockCommandComment is a block-level command such as \brief or \returns.
// Paragraph is never nil.
type BlockCommandComment struct {
	CommandID uint
	Args      []string
	Paragraph *ParagraphComment
}

func (c *BlockCommandComment) Kind() types.CommentKind { return types.KindBlockCommand }
func (c *BlockCommandComment) Children() []Node        { return []Node{c.Paragraph} }

// ParamDirection is the data flow direction of a documented parameter
type ParamDirection int

const (
	DirectionIn ParamDirection = iota
	DirectionOut
	DirectionInOut
)

// String returns the direction as written in \param[...]
func (d ParamDirection) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionInOut:
		return "in,out"
	default:
		return "in"
	}
}

// InvalidParamIndex marks a \param whose name did not resolve
const InvalidParamIndex = -1

// ParamCommandComment is a \param directive
type ParamCommandComment struct {
	CommandID         uint
	Direction         ParamDirection
	DirectionExplicit bool
	ParamName         string
	ParamIndex        int
	Paragraph         *ParagraphComment
}

func (c *ParamCommandComment) Kind() types.CommentKind { return types.KindParamCommand }
func (c *ParamCommandComment) Children() []Node        { return []Node{c.Paragraph} }

// HasParamName reports whether a parameter name was written
func (c *ParamCommandComment) HasParamName() bool { return c.ParamName != "" }

// IsParamIndexValid reports whether the name matched a parameter of the
// documented declaration
func (c *ParamCommandComment) IsParamIndexValid() bool { return c.ParamIndex != InvalidParamIndex }

// TParamCommandComment is a \tparam directive. Position is the index path of
// the template parameter through nested template parameter lists, nil when
// the name did not resolve.
type TParamCommandComment struct {
	CommandID uint
	ParamName string
	Position  []int
	Paragraph *ParagraphComment
}

func (c *TParamCommandComment) Kind() types.CommentKind { return types.KindTParamCommand }
func (c *TParamCommandComment) Children() []Node        { return []Node{c.Paragraph} }

// HasParamName reports whether a template parameter name was written
func (c *TParamCommandComment) HasParamName() bool { return c.ParamName != "" }

// IsPositionValid reports whether Position was resolved
func (c *TParamCommandComment) IsPositionValid() bool { return len(c.Position) > 0 }

// VerbatimBlockComment is a \code ... \endcode style block
type VerbatimBlockComment struct {
	CommandID uint
	CloseName string
	Lines     []*VerbatimBlockLineComment
}

func (c *VerbatimBlockComment) Kind() types.CommentKind { return types.KindVerbatimBlock }

func (c *VerbatimBlockComment) Children() []Node {
	out := make([]Node, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l
	}
	return out
}

// VerbatimBlockLineComment is one untouched line inside a verbatim block
type VerbatimBlockLineComment struct {
	Text string
}

func (c *VerbatimBlockLineComment) Kind() types.CommentKind { return types.KindVerbatimBlockLine }
func (c *VerbatimBlockLineComment) Children() []Node        { return nil }

// VerbatimLineComment is a command whose argument is the rest of the line,
// such as \fn or \defgroup
type VerbatimLineComment struct {
	CommandID uint
	Text      string
}

func (c *VerbatimLineComment) Kind() types.CommentKind { return types.KindVerbatimLine }
func (c *VerbatimLineComment) Children() []Node        { return nil }

// IsWhitespace reports whether s is empty or made only of
// space, tab, newline, vertical tab, form feed and carriage return.
func IsWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\v', '\f', '\r':
		default:
			return false
		}
	}
	return true
}
