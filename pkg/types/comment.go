package types

import "strings"

// CommentKind labels one node of a structured comment tree
type CommentKind string

const (
	KindFullComment       CommentKind = "full-comment"
	KindParagraph         CommentKind = "paragraph"
	KindText              CommentKind = "text"
	KindInlineCommand     CommentKind = "inline-command"
	KindHTMLStartTag      CommentKind = "html-start-tag"
	KindHTMLEndTag        CommentKind = "html-end-tag"
	KindBlockCommand      CommentKind = "block-command"
	KindParamCommand      CommentKind = "param-command"
	KindTParamCommand     CommentKind = "tparam-command"
	KindVerbatimBlock     CommentKind = "verbatim-block"
	KindVerbatimBlockLine CommentKind = "verbatim-block-line"
	KindVerbatimLine      CommentKind = "verbatim-line"
)

// Valid reports whether k is one of the known comment kinds
func (k CommentKind) Valid() bool {
	switch k {
	case KindFullComment, KindParagraph, KindText, KindInlineCommand,
		KindHTMLStartTag, KindHTMLEndTag, KindBlockCommand, KindParamCommand,
		KindTParamCommand, KindVerbatimBlock, KindVerbatimBlockLine, KindVerbatimLine:
		return true
	default:
		return false
	}
}

// StringPair is an ordered key/value pair, used for HTML tag attributes
type StringPair struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// CommentInfo is one node of a structured comment tree.
//
// Only the fields meaningful for Kind are ever set; every other field keeps
// its zero value and is left out of serialized output.
type CommentInfo struct {
	Kind        CommentKind   `yaml:"Kind" json:"kind"`
	Text        string        `yaml:"Text,omitempty" json:"text,omitempty"`
	Name        string        `yaml:"Name,omitempty" json:"name,omitempty"`
	Direction   string        `yaml:"Direction,omitempty" json:"direction,omitempty"`
	ParamName   string        `yaml:"ParamName,omitempty" json:"param_name,omitempty"`
	CloseName   string        `yaml:"CloseName,omitempty" json:"close_name,omitempty"`
	SelfClosing bool          `yaml:"SelfClosing,omitempty" json:"self_closing,omitempty"`
	Explicit    bool          `yaml:"Explicit,omitempty" json:"explicit,omitempty"`
	Args        []string      `yaml:"Args,omitempty" json:"args,omitempty"`
	Attrs       []StringPair  `yaml:"Attrs,omitempty" json:"attrs,omitempty"`
	Position    []int         `yaml:"Position,omitempty" json:"position,omitempty"`
	Children    []CommentInfo `yaml:"Children,omitempty" json:"children,omitempty"`
}

// Validate checks that the tree only carries kinds it knows about
func (c *CommentInfo) Validate() error {
	if !c.Kind.Valid() {
		return ErrInvalidCommentKind
	}
	for i := range c.Children {
		if err := c.Children[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PlainText concatenates the text carried by the tree, one line per text node.
func (c *CommentInfo) PlainText() string {
	var b strings.Builder
	c.appendText(&b)
	return strings.TrimSpace(b.String())
}

func (c *CommentInfo) appendText(b *strings.Builder) {
	switch c.Kind {
	case KindText, KindVerbatimBlockLine, KindVerbatimLine:
		if c.Text != "" {
			b.WriteString(c.Text)
			b.WriteByte('\n')
		}
	}
	for i := range c.Children {
		c.Children[i].appendText(b)
	}
}
