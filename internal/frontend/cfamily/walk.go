package cfamily

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/cdoc/internal/frontend"
)

// fileScan walks the syntax tree of one file of the translation unit
type fileScan struct {
	w              *walker
	path           string
	src            []byte
	characteristic frontend.Characteristic

	// decls declared in this file, for comment attachment
	decls []*frontend.Decl
}

// scope is the declaration context names are qualified with
type scope struct {
	name   string
	record bool
}

func (sc scope) qualify(name string) string {
	if sc.name == "" {
		return name
	}
	return sc.name + "::" + name
}

// template carries the header of an enclosing template declaration to the
// declaration it introduces
type template struct {
	start  *sitter.Node
	params []frontend.TemplateParam
}

// enterFile reads, parses and walks path. A file is entered at most once per
// translation unit.
func (w *walker) enterFile(path string, ch frontend.Characteristic) error {
	if w.entered[path] {
		return nil
	}
	w.entered[path] = true

	if err := w.ctx.Err(); err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(w.language)
	defer parser.Close()

	tree, err := parser.ParseCtx(w.ctx, nil, src)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstError(root)
		if ch == frontend.User {
			return fmt.Errorf("%w: %s:%d:%d: syntax error", frontend.ErrParse, path, line, col)
		}
		// System headers lean on compiler extensions the grammar does not know.
		w.fe.logger.Debug("syntax error in system header", "file", path, "line", line, "column", col)
	}

	s := &fileScan{w: w, path: path, src: src, characteristic: ch}

	cs := frontend.Merge(src, s.scanComments(root, nil))
	if w.fe.opts.DoxygenOnly {
		cs = frontend.KeepDoxygen(cs)
	}
	w.tu.Comments = append(w.tu.Comments, cs...)

	if err := s.visit(root, scope{}, nil); err != nil {
		return err
	}
	frontend.Attach(src, s.decls, cs)
	return nil
}

// firstError returns the 1-based position of the first ERROR node under n
func firstError(n *sitter.Node) (int, int) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1, int(n.StartPoint().Column) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() {
			return firstError(child)
		}
	}
	return int(n.StartPoint().Row) + 1, int(n.StartPoint().Column) + 1
}

func (s *fileScan) text(n *sitter.Node) string {
	return string(s.src[n.StartByte():n.EndByte()])
}

func (s *fileScan) location(n *sitter.Node) frontend.Location {
	return frontend.Location{
		Filename:       s.path,
		Offset:         int(n.StartByte()),
		Line:           int(n.StartPoint().Row) + 1,
		Column:         int(n.StartPoint().Column) + 1,
		Characteristic: s.characteristic,
	}
}

// emit records a declaration spanning from start to the end of end
func (s *fileScan) emit(kind frontend.DeclKind, name string, start, end *sitter.Node) *frontend.Decl {
	d := &frontend.Decl{
		Kind:          kind,
		QualifiedName: name,
		Loc:           s.location(start),
		EndOffset:     int(end.EndByte()),
	}
	s.decls = append(s.decls, d)
	s.w.tu.Decls = append(s.w.tu.Decls, d)
	return d
}

// scanComments appends every comment node under n in document order
func (s *fileScan) scanComments(n *sitter.Node, out []*frontend.RawComment) []*frontend.RawComment {
	if n.Type() == "comment" {
		return append(out, frontend.NewRawComment(
			s.text(n),
			s.location(n),
			int(n.EndByte()),
			int(n.EndPoint().Row)+1,
		))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		out = s.scanComments(n.Child(i), out)
	}
	return out
}
