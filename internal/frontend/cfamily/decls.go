package cfamily

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/cdoc/internal/frontend"
)

// nameTypes are node types that spell the name of a declarator
var nameTypes = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"type_identifier":      true,
	"qualified_identifier": true,
	"destructor_name":      true,
	"operator_name":        true,
	"operator_cast":        true,
	"template_function":    true,
}

// declaratorTypes wrap a name with pointer, array, function or initializer
// syntax
var declaratorTypes = map[string]bool{
	"init_declarator":          true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
	"attributed_declarator":    true,
	"variadic_declarator":      true,
}

var recordKinds = map[string]string{
	"class_specifier":  "class",
	"struct_specifier": "struct",
	"union_specifier":  "union",
}

// visit walks n and emits the named declarations it contains
func (s *fileScan) visit(n *sitter.Node, sc scope, tmpl *template) error {
	switch n.Type() {
	case "translation_unit", "declaration_list", "field_declaration_list",
		"preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		return s.visitChildren(n, sc)

	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			return s.visit(body, sc, nil)
		}

	case "preproc_include":
		return s.include(n)

	case "namespace_definition":
		name := "(anonymous namespace)"
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = s.text(nameNode)
		}
		qualified := sc.qualify(name)
		s.emit(frontend.DeclNamespace, qualified, n, n)
		if body := n.ChildByFieldName("body"); body != nil {
			return s.visit(body, scope{name: qualified}, nil)
		}

	case "template_declaration":
		return s.templateDecl(n, sc, tmpl)

	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		// A specifier directly in a scope is a standalone definition or a
		// forward declaration.
		return s.specifier(n, n, sc, tmpl, true)

	case "function_definition":
		return s.functionDefinition(n, sc, tmpl)

	case "declaration", "field_declaration":
		return s.declaration(n, sc, tmpl)

	case "type_definition":
		return s.typeDefinition(n, sc, tmpl)

	case "alias_declaration":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			d := s.emit(frontend.DeclTypeAlias, sc.qualify(s.text(nameNode)), startOf(n, tmpl), n)
			d.TemplateParams = tmpl.paramList()
		}
	}
	return nil
}

func (s *fileScan) visitChildren(n *sitter.Node, sc scope) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if err := s.visit(n.NamedChild(i), sc, nil); err != nil {
			return err
		}
	}
	return nil
}

func startOf(n *sitter.Node, tmpl *template) *sitter.Node {
	if tmpl != nil {
		return tmpl.start
	}
	return n
}

func (t *template) paramList() []frontend.TemplateParam {
	if t == nil {
		return nil
	}
	return t.params
}

func (s *fileScan) templateDecl(n *sitter.Node, sc scope, outer *template) error {
	tmpl := &template{start: n}
	if outer != nil {
		tmpl.start = outer.start
	}
	params := n.ChildByFieldName("parameters")
	if params != nil {
		tmpl.params = s.templateParams(params)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "template_parameter_list" || child.Type() == "comment" {
			continue
		}
		if err := s.visit(child, sc, tmpl); err != nil {
			return err
		}
	}
	return nil
}

func (s *fileScan) templateParams(list *sitter.Node) []frontend.TemplateParam {
	var out []frontend.TemplateParam
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		out = append(out, s.templateParam(p))
	}
	return out
}

func (s *fileScan) templateParam(p *sitter.Node) frontend.TemplateParam {
	switch p.Type() {
	case "type_parameter_declaration", "variadic_type_parameter_declaration":
		for i := 0; i < int(p.NamedChildCount()); i++ {
			if child := p.NamedChild(i); child.Type() == "type_identifier" {
				return frontend.TemplateParam{Name: s.text(child)}
			}
		}
	case "optional_type_parameter_declaration":
		if name := p.ChildByFieldName("name"); name != nil {
			return frontend.TemplateParam{Name: s.text(name)}
		}
	case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		return frontend.TemplateParam{Name: s.declaratorName(p.ChildByFieldName("declarator"))}
	case "template_template_parameter_declaration":
		var tp frontend.TemplateParam
		for i := 0; i < int(p.NamedChildCount()); i++ {
			child := p.NamedChild(i)
			if child.Type() == "template_parameter_list" {
				tp.Params = s.templateParams(child)
			} else {
				tp.Name = s.templateParam(child).Name
			}
		}
		return tp
	}
	return frontend.TemplateParam{}
}

// specifier handles class, struct, union and enum specifiers. start is the
// node the declaration begins at, which is the enclosing declaration when
// the specifier is its type. Specifiers without a body are only emitted when
// standalone.
func (s *fileScan) specifier(n, start *sitter.Node, sc scope, tmpl *template, standalone bool) error {
	nameNode := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if body == nil && (!standalone || nameNode == nil) {
		return nil
	}

	if n.Type() == "enum_specifier" {
		s.enum(n, nameNode, body, startOf(start, tmpl), sc)
		return nil
	}

	inner := scope{name: sc.qualify("(anonymous " + recordKinds[n.Type()] + ")"), record: true}
	if nameNode != nil {
		qualified := sc.qualify(s.text(nameNode))
		d := s.emit(frontend.DeclRecord, qualified, startOf(start, tmpl), n)
		d.TemplateParams = tmpl.paramList()
		inner.name = qualified
	}
	if body == nil {
		return nil
	}
	return s.visitChildren(body, inner)
}

func (s *fileScan) enum(n, nameNode, body, start *sitter.Node, sc scope) {
	scoped := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if t := n.Child(i).Type(); t == "class" || t == "struct" {
			scoped = true
		}
	}

	enumScope := sc
	if nameNode != nil {
		qualified := sc.qualify(s.text(nameNode))
		s.emit(frontend.DeclEnum, qualified, start, n)
		if scoped {
			enumScope = scope{name: qualified}
		}
	}
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e := body.NamedChild(i)
		if e.Type() != "enumerator" {
			continue
		}
		if name := e.ChildByFieldName("name"); name != nil {
			s.emit(frontend.DeclEnumConstant, enumScope.qualify(s.text(name)), e, e)
		}
	}
}

func (s *fileScan) functionDefinition(n *sitter.Node, sc scope, tmpl *template) error {
	fn := functionDeclarator(n.ChildByFieldName("declarator"))
	if fn == nil {
		return nil
	}
	s.function(fn, startOf(n, tmpl), n, sc, tmpl)
	return nil
}

// function emits the function declared by the function_declarator fn
func (s *fileScan) function(fn, start, end *sitter.Node, sc scope, tmpl *template) {
	name := s.declaratorName(fn.ChildByFieldName("declarator"))
	if name == "" {
		return
	}
	kind := frontend.DeclFunction
	if sc.record {
		kind = frontend.DeclMethod
	}
	d := s.emit(kind, sc.qualify(name), start, end)
	d.Params = s.params(fn.ChildByFieldName("parameters"))
	d.TemplateParams = tmpl.paramList()
}

func (s *fileScan) params(list *sitter.Node) []string {
	if list == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			out = append(out, s.declaratorName(p.ChildByFieldName("declarator")))
		}
	}
	return out
}

// declaration handles declarations of variables, fields and functions,
// together with any record or enum defined in their type.
func (s *fileScan) declaration(n *sitter.Node, sc scope, tmpl *template) error {
	typ := n.ChildByFieldName("type")
	declarators := s.declarators(n, typ)

	if typ != nil {
		if _, ok := recordKinds[typ.Type()]; ok || typ.Type() == "enum_specifier" {
			if err := s.specifier(typ, n, sc, tmpl, len(declarators) == 0); err != nil {
				return err
			}
		}
	}

	for _, decl := range declarators {
		if fn := functionDeclarator(decl); fn != nil {
			s.function(fn, startOf(n, tmpl), n, sc, tmpl)
			continue
		}
		name := s.declaratorName(decl)
		if name == "" {
			continue
		}
		kind := frontend.DeclVariable
		if sc.record {
			kind = frontend.DeclField
		}
		s.emit(kind, sc.qualify(name), startOf(n, tmpl), n)
	}
	return nil
}

func (s *fileScan) typeDefinition(n *sitter.Node, sc scope, tmpl *template) error {
	typ := n.ChildByFieldName("type")
	if typ != nil {
		if _, ok := recordKinds[typ.Type()]; ok || typ.Type() == "enum_specifier" {
			if err := s.specifier(typ, n, sc, tmpl, false); err != nil {
				return err
			}
		}
	}
	for _, decl := range s.declarators(n, typ) {
		if name := s.declaratorName(decl); name != "" {
			s.emit(frontend.DeclTypedef, sc.qualify(name), startOf(n, tmpl), n)
		}
	}
	return nil
}

// declarators returns the declarator children of a declaration, skipping its
// type
func (s *fileScan) declarators(n, typ *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if typ != nil && child.StartByte() == typ.StartByte() && child.EndByte() == typ.EndByte() {
			continue
		}
		if nameTypes[child.Type()] || declaratorTypes[child.Type()] {
			out = append(out, child)
		}
	}
	return out
}

// declaratorName digs the declared name out of a declarator
func (s *fileScan) declaratorName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if nameTypes[n.Type()] {
		return s.text(n)
	}
	if inner := n.ChildByFieldName("declarator"); inner != nil {
		return s.declaratorName(inner)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if !nameTypes[child.Type()] && !declaratorTypes[child.Type()] {
			continue
		}
		if name := s.declaratorName(child); name != "" {
			return name
		}
	}
	return ""
}

// functionDeclarator returns the function_declarator of d when d declares a
// function. Pointers to functions are not functions.
func functionDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			if inner := d.ChildByFieldName("declarator"); inner != nil && inner.Type() == "parenthesized_declarator" {
				return nil
			}
			return d
		case "pointer_declarator", "reference_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		default:
			return nil
		}
	}
	return nil
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	for i := 0; i < int(d.NamedChildCount()); i++ {
		child := d.NamedChild(i)
		if declaratorTypes[child.Type()] || nameTypes[child.Type()] {
			return child
		}
	}
	return nil
}
