package types

// DeclInfo is one documented declaration.
type DeclInfo struct {
	QualifiedName string       `yaml:"Name" json:"name"`
	Comment       *CommentInfo `yaml:"Comment,omitempty" json:"comment,omitempty"`
}

// FileRecord aggregates everything collected for one source file
type FileRecord struct {
	Filename           string        `yaml:"Filename" json:"filename"`
	Decls              []DeclInfo    `yaml:"Decls" json:"decls"`
	UnattachedComments []CommentInfo `yaml:"UnattachedComments" json:"unattached_comments"`
}

// NewFileRecord returns an empty record for filename
func NewFileRecord(filename string) *FileRecord {
	return &FileRecord{
		Filename:           filename,
		Decls:              []DeclInfo{},
		UnattachedComments: []CommentInfo{},
	}
}

// Validate checks the record and every comment tree it holds
func (f *FileRecord) Validate() error {
	if f.Filename == "" {
		return ErrMissingFilename
	}
	for i := range f.Decls {
		if f.Decls[i].QualifiedName == "" {
			return ErrMissingQualifiedName
		}
		if c := f.Decls[i].Comment; c != nil {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	}
	for i := range f.UnattachedComments {
		if err := f.UnattachedComments[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CommentCount returns the number of comment trees in the record, attached
// and unattached.
func (f *FileRecord) CommentCount() int {
	n := len(f.UnattachedComments)
	for i := range f.Decls {
		if f.Decls[i].Comment != nil {
			n++
		}
	}
	return n
}
