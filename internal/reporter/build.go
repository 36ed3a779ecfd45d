package reporter

import (
	"github.com/dshills/cdoc/internal/comments"
	"github.com/dshills/cdoc/pkg/types"
)

// ParseFullComment converts a parsed comment into a structured comment tree.
// Children keep their source order.
func ParseFullComment(fc *comments.FullComment) types.CommentInfo {
	if fc == nil {
		return types.CommentInfo{Kind: types.KindFullComment}
	}
	return parseComment(fc)
}

func parseComment(n comments.Node) types.CommentInfo {
	ci := types.CommentInfo{Kind: n.Kind()}
	classify(n, &ci)
	for _, child := range n.Children() {
		ci.Children = append(ci.Children, parseComment(child))
	}
	return ci
}
