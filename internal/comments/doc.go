// Package comments parses Doxygen style documentation comments.
//
// A raw comment (one or more adjacent //, ///, //!, /* */, /** */ or /*! */
// comments) is split into content lines by Lines and then parsed by Parse
// into a tree rooted at a FullComment:
//
//	FullComment
//	├── ParagraphComment
//	│   ├── TextComment            "Adds two numbers."
//	│   └── InlineCommandComment   \b, \p, unknown commands, ...
//	├── ParamCommandComment        \param[in] a
//	│   └── ParagraphComment
//	├── BlockCommandComment        \returns, \note, ...
//	│   └── ParagraphComment
//	├── VerbatimBlockComment       \code ... \endcode
//	│   └── VerbatimBlockLineComment
//	└── VerbatimLineComment        \fn, \defgroup, ...
//
// Commands are written with either a backslash or an at sign. Commands that
// are not in the builtin table are registered on the Traits passed to Parse
// and treated as inline commands without arguments.
//
// Parameter references are resolved through a DeclContext. When the comment
// is not attached to a declaration, or the name does not match, the
// reference stays unresolved (ParamIndex is InvalidParamIndex, Position is
// nil) and the name is kept as written.
//
// Text is split per line and trimmed at line boundaries only, so spacing
// between inline commands on one line is preserved. Verbatim content is
// never trimmed.
package comments
