package comments

import "sync"

// CommandInfo describes one documentation command
type CommandInfo struct {
	ID             uint
	Name           string
	EndCommandName string
	NumArgs        int

	IsInlineCommand           bool
	IsBlockCommand            bool
	IsParamCommand            bool
	IsTParamCommand           bool
	IsVerbatimBlockCommand    bool
	IsVerbatimBlockEndCommand bool
	IsVerbatimLineCommand     bool
	IsUnknownCommand          bool
}

var builtinCommands = buildCommandTable()

func inline(name string, args int) CommandInfo {
	return CommandInfo{Name: name, NumArgs: args, IsInlineCommand: true}
}

func block(name string, args int) CommandInfo {
	return CommandInfo{Name: name, NumArgs: args, IsBlockCommand: true}
}

func verbatimBlock(name, end string) []CommandInfo {
	return []CommandInfo{
		{Name: name, EndCommandName: end, IsVerbatimBlockCommand: true},
		{Name: end, IsVerbatimBlockEndCommand: true},
	}
}

func verbatimLine(name string) CommandInfo {
	return CommandInfo{Name: name, IsVerbatimLineCommand: true}
}

func buildCommandTable() []CommandInfo {
	var table []CommandInfo

	for _, name := range []string{"a", "b", "c", "e", "em", "p", "anchor", "emoji", "ref"} {
		table = append(table, inline(name, 1))
	}

	for _, name := range []string{
		"details", "author", "authors", "pre", "post", "note", "warning",
		"see", "sa", "since", "todo", "version", "deprecated", "invariant",
		"remark", "remarks", "attention", "bug", "copyright", "date", "par",
		"li", "headerfile", "brief", "short", "return", "returns", "result",
	} {
		table = append(table, block(name, 0))
	}
	for _, name := range []string{"throw", "throws", "exception", "retval"} {
		table = append(table, block(name, 1))
	}
	table = append(table,
		CommandInfo{Name: "param", IsBlockCommand: true, IsParamCommand: true},
		CommandInfo{Name: "tparam", IsBlockCommand: true, IsTParamCommand: true},
	)

	for _, pair := range [][2]string{
		{"code", "endcode"},
		{"verbatim", "endverbatim"},
		{"htmlonly", "endhtmlonly"},
		{"latexonly", "endlatexonly"},
		{"xmlonly", "endxmlonly"},
		{"manonly", "endmanonly"},
		{"rtfonly", "endrtfonly"},
		{"docbookonly", "enddocbookonly"},
		{"dot", "enddot"},
		{"msc", "endmsc"},
		{"f[", "f]"},
		{"f{", "f}"},
	} {
		table = append(table, verbatimBlock(pair[0], pair[1])...)
	}
	// \f$ opens and closes an inline formula with the same token.
	table = append(table, CommandInfo{Name: "f$", EndCommandName: "f$", IsVerbatimBlockCommand: true})

	for _, name := range []string{
		"fn", "function", "method", "callback", "var", "typedef", "property",
		"overload", "namespace", "class", "struct", "union", "enum",
		"interface", "protocol", "category", "defgroup", "ingroup",
		"addtogroup", "weakgroup", "name", "section", "subsection",
		"subsubsection", "mainpage", "page", "subpage", "related", "relates",
		"relatedalso", "relatesalso", "memberof",
	} {
		table = append(table, verbatimLine(name))
	}

	for i := range table {
		table[i].ID = uint(i)
	}
	return table
}

var builtinByName = func() map[string]*CommandInfo {
	m := make(map[string]*CommandInfo, len(builtinCommands))
	for i := range builtinCommands {
		m[builtinCommands[i].Name] = &builtinCommands[i]
	}
	return m
}()

// BuiltinCommandInfo returns the builtin command with the given id, or nil
// when id does not name a builtin command.
func BuiltinCommandInfo(id uint) *CommandInfo {
	if id >= uint(len(builtinCommands)) {
		return nil
	}
	return &builtinCommands[id]
}

// Traits resolves command names to CommandInfo. Commands that are not builtin
// are registered on first use with ids past the builtin range.
type Traits struct {
	mu      sync.Mutex
	unknown map[string]*CommandInfo
}

// NewTraits creates an empty command registry
func NewTraits() *Traits {
	return &Traits{unknown: make(map[string]*CommandInfo)}
}

// Lookup returns the command named name, registering it as an unknown inline
// command when it is not builtin.
func (t *Traits) Lookup(name string) *CommandInfo {
	if c, ok := builtinByName[name]; ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.unknown[name]; ok {
		return c
	}
	c := &CommandInfo{
		ID:               uint(len(builtinCommands) + len(t.unknown)),
		Name:             name,
		IsInlineCommand:  true,
		IsUnknownCommand: true,
	}
	t.unknown[name] = c
	return c
}
