package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"line comment", "// hello", []string{" hello"}},
		{"doxygen line", "/// hello", []string{" hello"}},
		{"qt line", "//! hello", []string{" hello"}},
		{"trailing", "///< the x", []string{" the x"}},
		{"merged lines", "// one\n// two", []string{" one", " two"}},
		{"block", "/* one */", []string{" one "}},
		{"javadoc", "/**\n * one\n * two\n */", []string{"", " one", " two"}},
		{"qt block trailing", "/*!< value */", []string{" value "}},
		{"crlf", "// one\r\n// two\r", []string{" one", " two"}},
		{"undecorated block", "/* one\n   two */", []string{" one", "   two "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.raw))
		})
	}
}

func TestIsDoxygen(t *testing.T) {
	assert.True(t, IsDoxygen("/// doc"))
	assert.True(t, IsDoxygen("//! doc"))
	assert.True(t, IsDoxygen("/** doc */"))
	assert.True(t, IsDoxygen("/*! doc */"))
	assert.True(t, IsDoxygen("///< doc"))

	assert.False(t, IsDoxygen("// plain"))
	assert.False(t, IsDoxygen("/* plain */"))
	assert.False(t, IsDoxygen("//// banner"))
	assert.False(t, IsDoxygen("/*** banner ***/"))
	assert.False(t, IsDoxygen("/**/"))
}

func TestIsTrailing(t *testing.T) {
	assert.True(t, IsTrailing("///< x"))
	assert.True(t, IsTrailing("//!< x"))
	assert.True(t, IsTrailing("/**< x */"))
	assert.True(t, IsTrailing("/*!< x */"))
	assert.False(t, IsTrailing("/// x"))
	assert.False(t, IsTrailing("// < x"))
}

func TestIsWhitespace(t *testing.T) {
	assert.True(t, IsWhitespace(""))
	assert.True(t, IsWhitespace(" \t\n\v\f\r"))
	assert.False(t, IsWhitespace(" x "))
}
