package frontend

import "github.com/dshills/cdoc/internal/comments"

// DeclKind tags the category of a declaration
type DeclKind string

const (
	DeclNamespace    DeclKind = "namespace"
	DeclPackage      DeclKind = "package"
	DeclRecord       DeclKind = "record"
	DeclInterface    DeclKind = "interface"
	DeclEnum         DeclKind = "enum"
	DeclEnumConstant DeclKind = "enum-constant"
	DeclFunction     DeclKind = "function"
	DeclMethod       DeclKind = "method"
	DeclField        DeclKind = "field"
	DeclVariable     DeclKind = "variable"
	DeclConstant     DeclKind = "constant"
	DeclTypedef      DeclKind = "typedef"
	DeclTypeAlias    DeclKind = "type-alias"
	DeclType         DeclKind = "type"
)

// TemplateParam is one entry of a template (or type) parameter list. Params
// holds the parameter list of a template template parameter.
type TemplateParam struct {
	Name   string
	Params []TemplateParam
}

// Decl is a named declaration produced by a front-end.
type Decl struct {
	Kind          DeclKind
	QualifiedName string
	// Loc is where the declaration begins, including any template header
	Loc Location
	// EndOffset is the byte offset just past the declaration
	EndOffset int

	RawComment     *RawComment
	Params         []string
	TemplateParams []TemplateParam
}

// ParamIndex returns the index of the named function parameter
func (d *Decl) ParamIndex(name string) int {
	for i, p := range d.Params {
		if p == name {
			return i
		}
	}
	return comments.InvalidParamIndex
}

// TemplateParamPosition returns the index path of the named template
// parameter, searching nested parameter lists depth first.
func (d *Decl) TemplateParamPosition(name string) []int {
	return findTemplateParam(d.TemplateParams, name)
}

func findTemplateParam(params []TemplateParam, name string) []int {
	for i, p := range params {
		if p.Name == name {
			return []int{i}
		}
	}
	for i, p := range params {
		if sub := findTemplateParam(p.Params, name); sub != nil {
			return append([]int{i}, sub...)
		}
	}
	return nil
}
