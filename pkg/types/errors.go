package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidCommentKind   = errors.New("invalid comment kind")
	ErrMissingFilename      = errors.New("filename is required")
	ErrMissingQualifiedName = errors.New("qualified name is required")
)
