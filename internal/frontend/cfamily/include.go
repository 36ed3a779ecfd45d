package cfamily

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/cdoc/internal/frontend"
)

type searchDir struct {
	path           string
	characteristic frontend.Characteristic
}

// include enters the file named by an #include directive. Includes that
// cannot be resolved are skipped.
func (s *fileScan) include(n *sitter.Node) error {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return nil
	}

	raw := s.text(pathNode)
	var (
		name   string
		angled bool
	)
	switch pathNode.Type() {
	case "string_literal":
		name = strings.Trim(raw, `"`)
	case "system_lib_string":
		name = strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
		angled = true
	default:
		// Computed includes (#include MACRO) are not expanded.
		return nil
	}

	path, ch, ok := s.w.fe.resolveInclude(name, angled, s.path, s.characteristic)
	if !ok {
		s.w.fe.logger.Debug("include not found",
			"include", raw,
			"from", s.path,
			"line", int(n.StartPoint().Row)+1)
		return nil
	}
	return s.w.enterFile(path, ch)
}

// resolveInclude searches for name the way a C preprocessor does: quoted
// includes try the directory of the including file first, then every search
// directory in order. The characteristic of the found file is that of the
// directory it was found in; files next to their includer inherit the
// includer's.
func (f *Frontend) resolveInclude(name string, angled bool, includer string, includerCh frontend.Characteristic) (string, frontend.Characteristic, bool) {
	if filepath.IsAbs(name) {
		if isFile(name) {
			if p, err := frontend.CanonicalPath(name); err == nil {
				return p, includerCh, true
			}
		}
		return "", frontend.User, false
	}

	candidates := make([]searchDir, 0, len(f.search)+1)
	if !angled {
		candidates = append(candidates, searchDir{path: filepath.Dir(includer), characteristic: includerCh})
	}
	candidates = append(candidates, f.search...)

	for _, dir := range candidates {
		p := filepath.Join(dir.path, name)
		if !isFile(p) {
			continue
		}
		canonical, err := frontend.CanonicalPath(p)
		if err != nil {
			continue
		}
		return canonical, dir.characteristic, true
	}
	return "", frontend.User, false
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
