package comments

import "strings"

// DeclContext resolves \param and \tparam references against the
// declaration a comment documents.
type DeclContext interface {
	// ParamIndex returns the index of the named parameter or InvalidParamIndex
	ParamIndex(name string) int
	// TemplateParamPosition returns the index path of the named template
	// parameter, or nil when it does not exist
	TemplateParamPosition(name string) []int
}

// Parse parses raw comment text into a comment tree. decl may be nil, in
// which case no parameter reference resolves.
func Parse(raw string, traits *Traits, decl DeclContext) *FullComment {
	if traits == nil {
		traits = NewTraits()
	}
	p := &parser{traits: traits, decl: decl}
	for _, line := range Lines(raw) {
		p.line(line)
	}
	p.flush()
	return &FullComment{Blocks: p.blocks}
}

type parser struct {
	traits *Traits
	decl   DeclContext

	blocks []Node
	// para receives inline content; nil between paragraphs
	para *ParagraphComment
	// pending holds the inline nodes of the current line segment
	pending []Node

	verbatim *VerbatimBlockComment
}

func (p *parser) line(line string) {
	if p.verbatim != nil {
		rest, closed := p.verbatimLine(line, false)
		if !closed {
			return
		}
		line = rest
	}
	if IsWhitespace(line) {
		p.flush()
		p.para = nil
		return
	}
	p.parseLine(line)
}

// parseLine splits one content line into inline nodes and block commands.
func (p *parser) parseLine(line string) {
	textStart := 0
	emitText := func(end int) {
		if end > textStart {
			p.pending = append(p.pending, &TextComment{Text: line[textStart:end]})
		}
	}

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case (c == '\\' || c == '@') && i+1 < len(line):
			next := line[i+1]
			if strings.HasPrefix(line[i+1:], "::") {
				emitText(i)
				p.pending = append(p.pending, &TextComment{Text: "::"})
				i += 3
				textStart = i
				continue
			}
			if strings.IndexByte(`\@&$#<>%".`, next) >= 0 {
				emitText(i)
				p.pending = append(p.pending, &TextComment{Text: string(next)})
				i += 2
				textStart = i
				continue
			}

			nameEnd := i + 1
			if next == 'f' && i+2 < len(line) && strings.IndexByte("$[]{}", line[i+2]) >= 0 {
				nameEnd = i + 3
			} else {
				for nameEnd < len(line) && isIdentChar(line[nameEnd]) {
					nameEnd++
				}
			}
			if nameEnd == i+1 {
				i++
				continue
			}

			info := p.traits.Lookup(line[i+1 : nameEnd])
			emitText(i)

			switch {
			case info.IsVerbatimBlockCommand:
				p.flush()
				p.para = nil
				p.verbatim = &VerbatimBlockComment{CommandID: info.ID, CloseName: info.EndCommandName}
				p.blocks = append(p.blocks, p.verbatim)
				rest, closed := p.verbatimLine(line[nameEnd:], true)
				if closed && !IsWhitespace(rest) {
					p.parseLine(rest)
				}
				return

			case info.IsVerbatimLineCommand:
				p.flush()
				p.para = nil
				p.blocks = append(p.blocks, &VerbatimLineComment{CommandID: info.ID, Text: line[nameEnd:]})
				return

			case info.IsParamCommand:
				p.flush()
				i = p.paramCommand(info, line, nameEnd)

			case info.IsTParamCommand:
				p.flush()
				i = p.tparamCommand(info, line, nameEnd)

			case info.IsBlockCommand:
				p.flush()
				args, end := readWords(line, nameEnd, info.NumArgs)
				cmd := &BlockCommandComment{CommandID: info.ID, Args: args, Paragraph: &ParagraphComment{}}
				p.blocks = append(p.blocks, cmd)
				p.para = cmd.Paragraph
				i = end

			default:
				args, end := readWords(line, nameEnd, info.NumArgs)
				p.pending = append(p.pending, &InlineCommandComment{CommandID: info.ID, Args: args})
				i = end
			}
			textStart = i

		case c == '<':
			node, end, ok := parseHTMLTag(line, i)
			if !ok {
				i++
				continue
			}
			emitText(i)
			p.pending = append(p.pending, node)
			i = end
			textStart = i

		default:
			i++
		}
	}
	emitText(len(line))
	p.flush()
}

func (p *parser) paramCommand(info *CommandInfo, line string, pos int) int {
	cmd := &ParamCommandComment{
		CommandID:  info.ID,
		ParamIndex: InvalidParamIndex,
		Paragraph:  &ParagraphComment{},
	}
	if pos < len(line) && line[pos] == '[' {
		if end := strings.IndexByte(line[pos:], ']'); end > 0 {
			if dir, ok := parseDirection(line[pos+1 : pos+end]); ok {
				cmd.Direction = dir
				cmd.DirectionExplicit = true
			}
			pos += end + 1
		}
	}
	names, end := readWords(line, pos, 1)
	if len(names) == 1 {
		cmd.ParamName = names[0]
		if p.decl != nil {
			cmd.ParamIndex = p.decl.ParamIndex(cmd.ParamName)
		}
	}
	p.blocks = append(p.blocks, cmd)
	p.para = cmd.Paragraph
	return end
}

func (p *parser) tparamCommand(info *CommandInfo, line string, pos int) int {
	cmd := &TParamCommandComment{CommandID: info.ID, Paragraph: &ParagraphComment{}}
	names, end := readWords(line, pos, 1)
	if len(names) == 1 {
		cmd.ParamName = names[0]
		if p.decl != nil {
			cmd.Position = p.decl.TemplateParamPosition(cmd.ParamName)
		}
	}
	p.blocks = append(p.blocks, cmd)
	p.para = cmd.Paragraph
	return end
}

// verbatimLine feeds text to the open verbatim block. It reports whether the
// block was closed on this line and returns the text after the closing
// command. Blank lines inside the block are kept, except on the opening line.
func (p *parser) verbatimLine(text string, first bool) (string, bool) {
	idx, end := findCommand(text, p.verbatim.CloseName)
	if idx < 0 {
		if !first || !IsWhitespace(text) {
			p.verbatim.Lines = append(p.verbatim.Lines, &VerbatimBlockLineComment{Text: text})
		}
		return "", false
	}
	if before := text[:idx]; !IsWhitespace(before) {
		p.verbatim.Lines = append(p.verbatim.Lines, &VerbatimBlockLineComment{Text: before})
	}
	p.verbatim = nil
	return text[end:], true
}

// flush trims the pending line segment at both ends and moves it into the
// current paragraph, opening a new one when needed.
func (p *parser) flush() {
	nodes := p.pending
	p.pending = nil

	if n := len(nodes); n > 0 {
		if t, ok := nodes[0].(*TextComment); ok {
			t.Text = strings.TrimLeft(t.Text, " \t\v\f\r\n")
		}
		if t, ok := nodes[n-1].(*TextComment); ok {
			t.Text = strings.TrimRight(t.Text, " \t\v\f\r\n")
		}
	}

	for _, n := range nodes {
		if t, ok := n.(*TextComment); ok && t.Text == "" {
			continue
		}
		if p.para == nil {
			p.para = &ParagraphComment{}
			p.blocks = append(p.blocks, p.para)
		}
		p.para.Content = append(p.para.Content, n)
	}
}

func parseDirection(s string) (ParamDirection, bool) {
	s = strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch s {
	case "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	case "in,out", "out,in":
		return DirectionInOut, true
	}
	return DirectionIn, false
}

// readWords reads up to n whitespace separated words starting at pos.
func readWords(line string, pos, n int) ([]string, int) {
	var words []string
	for len(words) < n {
		k := pos
		for k < len(line) && isSpace(line[k]) {
			k++
		}
		start := k
		for k < len(line) && !isSpace(line[k]) {
			k++
		}
		if k == start {
			break
		}
		words = append(words, line[start:k])
		pos = k
	}
	return words, pos
}

// findCommand locates \name or @name in text and returns the offsets of the
// marker and of the first byte after the name.
func findCommand(text, name string) (int, int) {
	for i := 0; i+len(name) < len(text); i++ {
		if text[i] != '\\' && text[i] != '@' {
			continue
		}
		if !strings.HasPrefix(text[i+1:], name) {
			continue
		}
		end := i + 1 + len(name)
		if isIdentChar(name[len(name)-1]) && end < len(text) && isIdentChar(text[end]) {
			continue
		}
		return i, end
	}
	return -1, -1
}
