package comments

import "strings"

var knownHTMLTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "big": true, "blockquote": true,
	"br": true, "caption": true, "center": true, "cite": true, "code": true,
	"dd": true, "del": true, "dfn": true, "div": true, "dl": true, "dt": true,
	"em": true, "font": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "hr": true, "i": true, "img": true, "ins": true,
	"kbd": true, "li": true, "ol": true, "p": true, "pre": true, "s": true,
	"small": true, "span": true, "strike": true, "strong": true, "sub": true,
	"sup": true, "table": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true, "tt": true, "u": true, "ul": true,
	"var": true,
}

// parseHTMLTag parses a start or end tag beginning at line[pos] == '<'.
// Tags that are unknown or not closed on the same line are rejected and left
// as text.
func parseHTMLTag(line string, pos int) (Node, int, bool) {
	i := pos + 1
	closing := false
	if i < len(line) && line[i] == '/' {
		closing = true
		i++
	}

	start := i
	for i < len(line) && isTagNameChar(line[i]) {
		i++
	}
	name := line[start:i]
	if name == "" || !knownHTMLTags[strings.ToLower(name)] {
		return nil, pos, false
	}

	if closing {
		i = skipSpaces(line, i)
		if i < len(line) && line[i] == '>' {
			return &HTMLEndTagComment{TagName: name}, i + 1, true
		}
		return nil, pos, false
	}

	tag := &HTMLStartTagComment{TagName: name}
	for {
		i = skipSpaces(line, i)
		if i >= len(line) {
			return nil, pos, false
		}
		switch {
		case line[i] == '>':
			return tag, i + 1, true
		case strings.HasPrefix(line[i:], "/>"):
			tag.SelfClosing = true
			return tag, i + 2, true
		case isAttrNameChar(line[i]):
			attrStart := i
			for i < len(line) && isAttrNameChar(line[i]) {
				i++
			}
			attr := HTMLAttr{Name: line[attrStart:i]}
			i = skipSpaces(line, i)
			if i < len(line) && line[i] == '=' {
				i = skipSpaces(line, i+1)
				if i >= len(line) {
					return nil, pos, false
				}
				if q := line[i]; q == '"' || q == '\'' {
					end := strings.IndexByte(line[i+1:], q)
					if end < 0 {
						return nil, pos, false
					}
					attr.Value = line[i+1 : i+1+end]
					i += end + 2
				} else {
					valStart := i
					for i < len(line) && !isSpace(line[i]) && line[i] != '>' {
						i++
					}
					attr.Value = line[valStart:i]
				}
			}
			tag.Attrs = append(tag.Attrs, attr)
		default:
			return nil, pos, false
		}
	}
}

func skipSpaces(line string, i int) int {
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	return i
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isAttrNameChar(c byte) bool {
	return isIdentChar(c) || c == '-' || c == ':'
}
