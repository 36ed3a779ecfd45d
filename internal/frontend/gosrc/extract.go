package gosrc

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/dshills/cdoc/internal/frontend"
)

// declExtractor walks the top-level declarations of one file
type declExtractor struct {
	fe      *Frontend
	fset    *token.FileSet
	pkgPath string
	file    parsedFile

	comments []*frontend.RawComment
	decls    []*frontend.Decl

	// byGroup maps the comment groups that survived filtering to their raw
	// comment
	byGroup map[*ast.CommentGroup]*frontend.RawComment
}

func newDeclExtractor(fe *Frontend, fset *token.FileSet, pkgPath string, file parsedFile) *declExtractor {
	return &declExtractor{
		fe:      fe,
		fset:    fset,
		pkgPath: pkgPath,
		file:    file,
		byGroup: make(map[*ast.CommentGroup]*frontend.RawComment),
	}
}

// extract surfaces the comments of the file and then its declarations
func (e *declExtractor) extract() {
	e.extractComments()

	f := e.file.file
	d := e.emit(frontend.DeclPackage, e.pkgPath, f.Package, f.End())
	d.RawComment = e.commentOf(f.Doc)

	ast.Inspect(f, e.visit)
}

func (e *declExtractor) extractComments() {
	cs := make([]*frontend.RawComment, 0, len(e.file.file.Comments))
	groups := make([]*ast.CommentGroup, 0, len(e.file.file.Comments))
	for _, g := range e.file.file.Comments {
		lines := make([]string, 0, len(g.List))
		for _, c := range g.List {
			lines = append(lines, c.Text)
		}
		end := e.fset.Position(g.End())
		cs = append(cs, frontend.NewRawComment(strings.Join(lines, "\n"), e.location(g.Pos()), end.Offset, end.Line))
		groups = append(groups, g)
	}

	for i, c := range cs {
		if e.fe.opts.DoxygenOnly && !c.IsDoxygen() {
			continue
		}
		e.byGroup[groups[i]] = c
		e.comments = append(e.comments, c)
	}
}

// visit only descends from the file into its top-level declarations
func (e *declExtractor) visit(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.File:
		return true
	case *ast.FuncDecl:
		e.extractFunction(n)
	case *ast.GenDecl:
		e.extractGenDecl(n)
	}
	return false
}

func (e *declExtractor) extractFunction(fn *ast.FuncDecl) {
	kind := frontend.DeclFunction
	name := e.qualify(fn.Name.Name)
	var recvParams []frontend.TemplateParam
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		kind = frontend.DeclMethod
		recv, params := receiverType(fn.Recv.List[0].Type)
		name = e.qualify(recv + "." + fn.Name.Name)
		recvParams = params
	}

	d := e.emit(kind, name, fn.Pos(), fn.End())
	d.RawComment = e.commentOf(fn.Doc)
	d.Params = paramNames(fn.Type.Params)
	d.TemplateParams = append(recvParams, typeParams(fn.Type.TypeParams)...)
}

func (e *declExtractor) extractGenDecl(gen *ast.GenDecl) {
	for _, spec := range gen.Specs {
		start := spec.Pos()
		doc := e.specDoc(gen, spec)
		if !gen.Lparen.IsValid() {
			start = gen.Pos()
		}
		switch s := spec.(type) {
		case *ast.TypeSpec:
			e.extractTypeSpec(s, start, doc)
		case *ast.ValueSpec:
			e.extractValueSpec(s, gen.Tok, start, doc)
		}
	}
}

// specDoc picks the comment of a spec: its own doc, the doc of an
// unparenthesized declaration, or the line comment after it
func (e *declExtractor) specDoc(gen *ast.GenDecl, spec ast.Spec) *ast.CommentGroup {
	var doc, line *ast.CommentGroup
	switch s := spec.(type) {
	case *ast.TypeSpec:
		doc, line = s.Doc, s.Comment
	case *ast.ValueSpec:
		doc, line = s.Doc, s.Comment
	}
	if doc == nil && !gen.Lparen.IsValid() {
		doc = gen.Doc
	}
	if doc == nil {
		doc = line
	}
	return doc
}

func (e *declExtractor) extractTypeSpec(spec *ast.TypeSpec, start token.Pos, doc *ast.CommentGroup) {
	name := e.qualify(spec.Name.Name)

	kind := frontend.DeclType
	switch {
	case spec.Assign.IsValid():
		kind = frontend.DeclTypeAlias
	case isStruct(spec.Type):
		kind = frontend.DeclRecord
	case isInterface(spec.Type):
		kind = frontend.DeclInterface
	}

	d := e.emit(kind, name, start, spec.End())
	d.RawComment = e.commentOf(doc)
	d.TemplateParams = typeParams(spec.TypeParams)

	switch t := spec.Type.(type) {
	case *ast.StructType:
		e.extractStructFields(name, t)
	case *ast.InterfaceType:
		e.extractInterfaceMethods(name, t)
	}
}

func isStruct(expr ast.Expr) bool {
	_, ok := expr.(*ast.StructType)
	return ok
}

func isInterface(expr ast.Expr) bool {
	_, ok := expr.(*ast.InterfaceType)
	return ok
}

func (e *declExtractor) extractStructFields(owner string, st *ast.StructType) {
	if st.Fields == nil {
		return
	}
	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}
		names := identNames(field.Names)
		if len(names) == 0 {
			// embedded
			names = []string{baseTypeName(field.Type)}
		}
		for _, n := range names {
			if n == "" {
				continue
			}
			d := e.emit(frontend.DeclField, owner+"."+n, field.Pos(), field.End())
			d.RawComment = e.commentOf(doc)
		}
	}
}

func (e *declExtractor) extractInterfaceMethods(owner string, it *ast.InterfaceType) {
	if it.Methods == nil {
		return
	}
	for _, m := range it.Methods.List {
		fn, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 {
			continue
		}
		doc := m.Doc
		if doc == nil {
			doc = m.Comment
		}
		d := e.emit(frontend.DeclMethod, owner+"."+m.Names[0].Name, m.Pos(), m.End())
		d.RawComment = e.commentOf(doc)
		d.Params = paramNames(fn.Params)
	}
}

func (e *declExtractor) extractValueSpec(spec *ast.ValueSpec, tok token.Token, start token.Pos, doc *ast.CommentGroup) {
	kind := frontend.DeclVariable
	if tok == token.CONST {
		kind = frontend.DeclConstant
	}
	for _, name := range spec.Names {
		if name.Name == "_" {
			continue
		}
		d := e.emit(kind, e.qualify(name.Name), start, spec.End())
		d.RawComment = e.commentOf(doc)
	}
}

func (e *declExtractor) qualify(name string) string {
	return e.pkgPath + "." + name
}

func (e *declExtractor) emit(kind frontend.DeclKind, name string, start, end token.Pos) *frontend.Decl {
	d := &frontend.Decl{
		Kind:          kind,
		QualifiedName: name,
		Loc:           e.location(start),
		EndOffset:     e.fset.Position(end).Offset,
	}
	e.decls = append(e.decls, d)
	return d
}

func (e *declExtractor) commentOf(g *ast.CommentGroup) *frontend.RawComment {
	if g == nil {
		return nil
	}
	return e.byGroup[g]
}

func (e *declExtractor) location(pos token.Pos) frontend.Location {
	p := e.fset.Position(pos)
	return frontend.Location{
		Filename:       e.file.path,
		Offset:         p.Offset,
		Line:           p.Line,
		Column:         p.Column,
		Characteristic: e.fe.characteristic(e.file.path),
	}
}

// receiverType returns the base type name of a method receiver together with
// the type parameters it binds
func receiverType(expr ast.Expr) (string, []frontend.TemplateParam) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.ParenExpr:
		return receiverType(t.X)
	case *ast.Ident:
		return t.Name, nil
	case *ast.IndexExpr:
		name, _ := receiverType(t.X)
		return name, exprParams(t.Index)
	case *ast.IndexListExpr:
		name, _ := receiverType(t.X)
		return name, exprParams(t.Indices...)
	}
	return "", nil
}

func exprParams(exprs ...ast.Expr) []frontend.TemplateParam {
	out := make([]frontend.TemplateParam, 0, len(exprs))
	for _, x := range exprs {
		name := ""
		if id, ok := x.(*ast.Ident); ok {
			name = id.Name
		}
		out = append(out, frontend.TemplateParam{Name: name})
	}
	return out
}

// baseTypeName names an embedded field after its type
func baseTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return baseTypeName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return baseTypeName(t.X)
	case *ast.IndexListExpr:
		return baseTypeName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func identNames(ids []*ast.Ident) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Name)
	}
	return out
}

// paramNames flattens a parameter list; unnamed parameters are empty strings
func paramNames(list *ast.FieldList) []string {
	if list == nil || len(list.List) == 0 {
		return nil
	}
	var out []string
	for _, field := range list.List {
		if len(field.Names) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, identNames(field.Names)...)
	}
	return out
}

func typeParams(list *ast.FieldList) []frontend.TemplateParam {
	if list == nil {
		return nil
	}
	var out []frontend.TemplateParam
	for _, field := range list.List {
		for _, n := range field.Names {
			out = append(out, frontend.TemplateParam{Name: n.Name})
		}
	}
	return out
}
