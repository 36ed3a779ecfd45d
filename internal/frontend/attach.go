package frontend

import (
	"bytes"
	"sort"
)

// Merge joins adjacent comments of one file into single raw comments. Two
// comments merge when they share style and trailing-ness, only whitespace
// separates them and the second starts at most one line below the end of the
// first. cs must be sorted by offset; merged entries are updated in place.
func Merge(src []byte, cs []*RawComment) []*RawComment {
	out := make([]*RawComment, 0, len(cs))
	for _, c := range cs {
		if n := len(out); n > 0 && mergeable(src, out[n-1], c) {
			prev := out[n-1]
			prev.Text = string(src[prev.Loc.Offset:c.EndOffset])
			prev.EndOffset = c.EndOffset
			prev.EndLine = c.EndLine
			continue
		}
		out = append(out, c)
	}
	return out
}

func mergeable(src []byte, a, b *RawComment) bool {
	if a.Loc.Filename != b.Loc.Filename || a.Kind != b.Kind || a.Trailing != b.Trailing {
		return false
	}
	if b.Loc.Line > a.EndLine+1 || b.Loc.Offset < a.EndOffset {
		return false
	}
	return isBlank(src[a.EndOffset:b.Loc.Offset])
}

// KeepDoxygen returns the documentation comments of cs
func KeepDoxygen(cs []*RawComment) []*RawComment {
	out := cs[:0:0]
	for _, c := range cs {
		if c.IsDoxygen() {
			out = append(out, c)
		}
	}
	return out
}

// Attach assigns a raw comment to every declaration of decls that has none.
// A trailing comment (///<) on the same line right after the declaration wins;
// otherwise the closest preceding non-trailing comment is used when nothing
// but whitespace separates it from the declaration and it does not follow
// code on its first line. decls and cs must belong to the file src was read
// from, and cs must be sorted by offset.
func Attach(src []byte, decls []*Decl, cs []*RawComment) {
	for _, d := range decls {
		if d.RawComment != nil {
			continue
		}
		if c := trailingComment(src, cs, d); c != nil {
			d.RawComment = c
			continue
		}
		d.RawComment = precedingComment(src, cs, d)
	}
}

func trailingComment(src []byte, cs []*RawComment, d *Decl) *RawComment {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Loc.Offset >= d.EndOffset })
	if i == len(cs) || !cs[i].Trailing {
		return nil
	}
	for _, b := range src[d.EndOffset:cs[i].Loc.Offset] {
		switch b {
		case ' ', '\t', ';', ',':
		default:
			return nil
		}
	}
	return cs[i]
}

func precedingComment(src []byte, cs []*RawComment, d *Decl) *RawComment {
	j := sort.Search(len(cs), func(j int) bool { return cs[j].EndOffset > d.Loc.Offset }) - 1
	if j < 0 || cs[j].Trailing {
		return nil
	}
	if !isBlank(src[cs[j].EndOffset:d.Loc.Offset]) {
		return nil
	}
	lineStart := bytes.LastIndexByte(src[:cs[j].Loc.Offset], '\n') + 1
	if !isBlank(src[lineStart:cs[j].Loc.Offset]) {
		return nil
	}
	return cs[j]
}

func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
		default:
			return false
		}
	}
	return true
}
