package reporter

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects an output backend
type Format string

const (
	// FormatJSON is the structured format: one YAML document per file
	FormatJSON Format = "json"
	// FormatLLVM is reserved for a bitstream backend and only writes a notice
	FormatLLVM Format = "llvm"
)

// ErrUnknownFormat is returned for an unrecognized output format
var ErrUnknownFormat = errors.New("unknown output format")

const llvmPlaceholder = "Not yet implemented.\n"

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatLLVM:
		return Format(name), nil
	}
	return "", fmt.Errorf("%w %q: please specify %s or %s", ErrUnknownFormat, name, FormatJSON, FormatLLVM)
}

// Serialize writes every file record to w in the given format. Files are
// written in filename order.
func (r *Reporter) Serialize(format Format, w io.Writer) error {
	switch format {
	case FormatJSON:
		return r.serializeYAML(w)
	case FormatLLVM:
		_, err := io.WriteString(w, llvmPlaceholder)
		return err
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func (r *Reporter) serializeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, rec := range r.Files() {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode %s: %w", rec.Filename, err)
		}
	}
	return enc.Close()
}
