package frontend

import (
	"fmt"
	"path/filepath"
)

// Characteristic classifies the file a location belongs to
type Characteristic int

const (
	// User marks files that belong to the code base being documented
	User Characteristic = iota
	// System marks files found through a system include directory or the
	// toolchain root
	System
	// ExternCSystem marks system files that are implicitly wrapped in
	// extern "C"
	ExternCSystem
)

func (c Characteristic) String() string {
	switch c {
	case User:
		return "user"
	case System:
		return "system"
	case ExternCSystem:
		return "extern-c-system"
	default:
		return fmt.Sprintf("Characteristic(%d)", int(c))
	}
}

// Location is a position in a source file. Line and Column are 1-based,
// Offset is a byte offset.
type Location struct {
	Filename       string
	Offset         int
	Line           int
	Column         int
	Characteristic Characteristic
}

// IsValid reports whether the location points into a file
func (l Location) IsValid() bool {
	return l.Filename != "" && l.Line > 0
}

// IsInSystemHeader reports whether the location is inside any system file,
// including extern "C" system files.
func (l Location) IsInSystemHeader() bool {
	return l.Characteristic != User
}

// IsInExternCSystemHeader reports whether the location is inside an extern
// "C" system file
func (l Location) IsInExternCSystemHeader() bool {
	return l.Characteristic == ExternCSystem
}

func (l Location) String() string {
	if !l.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

// CanonicalPath returns the absolute, symlink-free form of path. When the
// path cannot be resolved on disk the cleaned absolute path is returned.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}
