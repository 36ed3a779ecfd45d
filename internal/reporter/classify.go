package reporter

import (
	"github.com/dshills/cdoc/internal/comments"
	"github.com/dshills/cdoc/pkg/types"
)

// notBuiltinCommand names commands missing from the builtin table
const notBuiltinCommand = "<not a builtin command>"

// commandName resolves a command id through the builtin command table
func commandName(id uint) string {
	if info := comments.BuiltinCommandInfo(id); info != nil {
		return info.Name
	}
	return notBuiltinCommand
}

// classify fills the fields of ci that belong to the concrete kind of n.
// Fields of other kinds are never touched.
func classify(n comments.Node, ci *types.CommentInfo) {
	switch c := n.(type) {
	case *comments.TextComment:
		if !comments.IsWhitespace(c.Text) {
			ci.Text = c.Text
		}

	case *comments.InlineCommandComment:
		ci.Name = commandName(c.CommandID)
		ci.Args = copyStrings(c.Args)

	case *comments.HTMLStartTagComment:
		ci.Name = c.TagName
		ci.SelfClosing = c.SelfClosing
		for _, a := range c.Attrs {
			ci.Attrs = append(ci.Attrs, types.StringPair{Key: a.Name, Value: a.Value})
		}

	case *comments.HTMLEndTagComment:
		ci.Name = c.TagName
		ci.SelfClosing = true

	case *comments.BlockCommandComment:
		ci.Name = commandName(c.CommandID)
		ci.Args = copyStrings(c.Args)

	case *comments.ParamCommandComment:
		if c.DirectionExplicit {
			ci.Direction = c.Direction.String()
			ci.Explicit = true
		}
		if c.HasParamName() && c.IsParamIndexValid() {
			ci.ParamName = c.ParamName
		}

	case *comments.TParamCommandComment:
		if c.HasParamName() && c.IsPositionValid() {
			ci.ParamName = c.ParamName
			ci.Position = append([]int(nil), c.Position...)
		}

	case *comments.VerbatimBlockComment:
		ci.Name = commandName(c.CommandID)
		ci.CloseName = c.CloseName

	case *comments.VerbatimBlockLineComment:
		if !comments.IsWhitespace(c.Text) {
			ci.Text = c.Text
		}

	case *comments.VerbatimLineComment:
		if !comments.IsWhitespace(c.Text) {
			ci.Text = c.Text
		}
	}
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
