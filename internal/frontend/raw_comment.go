package frontend

import "github.com/dshills/cdoc/internal/comments"

// CommentStyle separates documentation comments from ordinary ones
type CommentStyle int

const (
	StyleOrdinary CommentStyle = iota
	StyleDoxygen
)

// RawComment is the unparsed text of one comment, or of several adjacent
// comments merged together.
type RawComment struct {
	Text string
	Loc  Location
	// EndOffset and EndLine locate the end of the last merged comment
	EndOffset int
	EndLine   int
	Kind      CommentStyle
	Trailing  bool

	attached bool
}

// NewRawComment classifies text and returns a comment spanning
// [loc.Offset, endOffset)
func NewRawComment(text string, loc Location, endOffset, endLine int) *RawComment {
	rc := &RawComment{
		Text:      text,
		Loc:       loc,
		EndOffset: endOffset,
		EndLine:   endLine,
		Trailing:  comments.IsTrailing(text),
	}
	if comments.IsDoxygen(text) {
		rc.Kind = StyleDoxygen
	}
	return rc
}

// IsDoxygen reports whether the comment uses a documentation marker
func (c *RawComment) IsDoxygen() bool { return c.Kind == StyleDoxygen }

// IsAttached reports whether the comment was claimed by a declaration
func (c *RawComment) IsAttached() bool { return c.attached }

// SetAttached marks the comment as claimed by a declaration
func (c *RawComment) SetAttached() { c.attached = true }

// Parse parses the comment markup. decl resolves \param and \tparam
// references and may be nil.
func (c *RawComment) Parse(traits *comments.Traits, decl *Decl) *comments.FullComment {
	if decl == nil {
		return comments.Parse(c.Text, traits, nil)
	}
	return comments.Parse(c.Text, traits, decl)
}
