package comments

import "strings"

// Lines splits raw comment text into content lines. Comment markers
// (//, ///, //!, /*, /**, /*!, */), trailing-comment markers (<) and the
// leading '*' decoration of block comment lines are removed; everything else,
// including leading whitespace, is kept.
//
// raw may hold several adjacent comments separated by whitespace.
func Lines(raw string) []string {
	var lines []string
	i := 0
	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}

		switch {
		case strings.HasPrefix(raw[i:], "//"):
			j := i + 2
			if j < len(raw) && (raw[j] == '/' || raw[j] == '!') {
				j++
			}
			if j < len(raw) && raw[j] == '<' {
				j++
			}
			end := strings.IndexByte(raw[j:], '\n')
			if end < 0 {
				end = len(raw)
			} else {
				end += j
			}
			lines = append(lines, strings.TrimRight(raw[j:end], "\r"))
			i = end

		case strings.HasPrefix(raw[i:], "/*"):
			j := i + 2
			if j < len(raw) && (raw[j] == '*' || raw[j] == '!') && !strings.HasPrefix(raw[j:], "*/") {
				j++
			}
			if j < len(raw) && raw[j] == '<' {
				j++
			}
			end := strings.Index(raw[j:], "*/")
			next := len(raw)
			if end < 0 {
				end = len(raw)
			} else {
				end += j
				next = end + 2
			}
			lines = append(lines, blockLines(raw[j:end])...)
			i = next

		default:
			end := strings.IndexByte(raw[i:], '\n')
			if end < 0 {
				end = len(raw)
			} else {
				end += i
			}
			lines = append(lines, strings.TrimRight(raw[i:end], "\r"))
			i = end
		}
	}
	return lines
}

// blockLines splits the body of a /* */ comment, dropping the leading '*'
// that decorates continuation lines.
func blockLines(body string) []string {
	parts := strings.Split(body, "\n")
	out := make([]string, 0, len(parts))
	for n, line := range parts {
		line = strings.TrimRight(line, "\r")
		if n > 0 {
			k := 0
			for k < len(line) && (line[k] == ' ' || line[k] == '\t') {
				k++
			}
			if k < len(line) && line[k] == '*' {
				line = line[k+1:]
			}
		}
		out = append(out, line)
	}
	// The closing line of a decorated block is usually just indentation.
	if len(out) > 1 && IsWhitespace(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// IsDoxygen reports whether raw starts with a documentation comment marker:
// ///, //!, /** or /*!. Runs such as //// or /*** are ordinary comments.
func IsDoxygen(raw string) bool {
	raw = strings.TrimLeft(raw, " \t\r\n")
	switch {
	case strings.HasPrefix(raw, "///"):
		return !strings.HasPrefix(raw, "////")
	case strings.HasPrefix(raw, "//!"):
		return true
	case strings.HasPrefix(raw, "/**"):
		return !strings.HasPrefix(raw, "/***") && !strings.HasPrefix(raw, "/**/")
	case strings.HasPrefix(raw, "/*!"):
		return true
	}
	return false
}

// IsTrailing reports whether raw documents the declaration before it
// (///<, //!<, /**<, /*!<).
func IsTrailing(raw string) bool {
	raw = strings.TrimLeft(raw, " \t\r\n")
	for _, p := range []string{"///<", "//!<", "/**<", "/*!<"} {
		if strings.HasPrefix(raw, p) {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
