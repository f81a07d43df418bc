// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"strconv"
	"strings"
)

// ParseTemplate compiles text into a *Template named name. It is the
// external tokenizer/parser the core specification treats as a pure
// collaborator: it produces the RawText/Expression/HelperTemplate/
// DirectiveTemplate/PartialTemplate/CommentElement tag set §6 names,
// each carrying a (line, column) source mapping for error enrichment.
func ParseTemplate(name, text string) (*Template, error) {
	p := &parser{lx: newLexer(text)}
	elems, mapping, err := p.parseUntil(nil)
	if err != nil {
		return nil, err
	}
	return &Template{Name: name, Elements: elems, Mapping: mapping}, nil
}

type parser struct {
	lx *lexer
}

// parseUntil consumes items until EOF or a close tag, returning the
// parsed element/position sequence. openNames identifies the chain of
// block names currently open, checked against each "{{/name}}" seen.
func (p *parser) parseUntil(openNames []string) ([]Element, []Position, error) {
	var elems []Element
	var mapping []Position

	for {
		it := p.lx.nextItem()
		switch it.kind {
		case itemError:
			return nil, nil, NewRenderErrorf("%s", it.val)
		case itemEOF:
			if len(openNames) > 0 {
				return nil, nil, NewRenderErrorf("unclosed block %q", openNames[len(openNames)-1])
			}
			return elems, mapping, nil
		case itemText:
			elems = append(elems, RawText(it.val))
			mapping = append(mapping, Position{it.line, it.col})
		case itemComment:
			elems = append(elems, CommentElement(it.val))
			mapping = append(mapping, Position{it.line, it.col})
		case itemTag, itemRawTag:
			tag, err := parseTagContent(it.val)
			if err != nil {
				return nil, nil, err
			}
			pos := Position{it.line, it.col}

			switch tag.form {
			case tagClose:
				return elems, mapping, p.checkClose(tag.name, openNames)

			case tagElse:
				return elems, mapping, errElseMarker{}

			case tagHelperOpen, tagDirectiveOpen, tagPartialOpen:
				el, err := p.parseBlock(tag)
				if err != nil {
					return nil, nil, err
				}
				elems = append(elems, el)
				mapping = append(mapping, pos)

			default: // inline expression / helper / directive / partial
				el := p.buildInline(tag, it.kind == itemRawTag || strings.HasPrefix(it.val, "&"))
				elems = append(elems, el)
				mapping = append(mapping, pos)
			}
		}
	}
}

// errElseMarker unwinds parseUntil when an {{else}} tag is found;
// parseBlock recovers it to start the inverse arm.
type errElseMarker struct{}

func (errElseMarker) Error() string { return "else" }

func (p *parser) checkClose(name string, openNames []string) error {
	if len(openNames) == 0 {
		return NewRenderErrorf("unexpected closing tag %q", name)
	}
	want := openNames[len(openNames)-1]
	if want != name {
		return NewRenderErrorf("mismatched closing tag: expected %q, found %q", want, name)
	}
	return nil
}

// parseBlock parses the body (and optional inverse arm) of a block tag
// already identified by tag, then builds the corresponding Element.
func (p *parser) parseBlock(tag *parsedTag) (Element, error) {
	main, mainMap, err := p.parseUntil(append([]string(nil), tag.name))
	var inverse *Template
	if _, ok := err.(errElseMarker); ok {
		inv, invMap, err2 := p.parseUntil(append([]string(nil), tag.name))
		if err2 != nil {
			if _, ok2 := err2.(errElseMarker); ok2 {
				return nil, NewRenderErrorf("block %q has more than one else", tag.name)
			}
			return nil, err2
		}
		inverse = &Template{Name: "", Elements: inv, Mapping: invMap}
	} else if err != nil {
		return nil, err
	}
	mainTpl := &Template{Name: "", Elements: main, Mapping: mainMap}

	switch tag.form {
	case tagHelperOpen:
		return &HelperTemplate{
			Name: tag.name, Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder,
			Block: true, Main: mainTpl, Inverse: inverse, BlockVar: tag.blockParam,
		}, nil
	case tagDirectiveOpen:
		return &DirectiveTemplate{
			NameParam: NameParam(tag.name), Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder,
			Block: true, Main: mainTpl,
		}, nil
	case tagPartialOpen:
		return &PartialTemplate{
			NameParam: NameParam(tag.name), Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder,
			Block: true, Main: mainTpl,
		}, nil
	}
	panic("unreachable")
}

func (p *parser) buildInline(tag *parsedTag, raw bool) Element {
	switch tag.form {
	case tagDirectiveInline:
		return &DirectiveTemplate{NameParam: NameParam(tag.name), Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder}
	case tagPartialInline:
		return &PartialTemplate{NameParam: tag.nameParam, Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder}
	case tagPlainExpr:
		if len(tag.params) == 0 && len(tag.hash) == 0 {
			p0 := tag.nameParam
			if raw {
				return &HTMLExpression{Param: p0}
			}
			return &Expression{Param: p0}
		}
		ht := &HelperTemplate{Name: tag.name, Params: tag.params, Hash: tag.hash, HashOrder: tag.hashOrder}
		if raw {
			return &htmlHelperWrapper{ht}
		}
		return ht
	}
	panic("unreachable")
}

// htmlHelperWrapper renders a helper invocation the way "{{{helper a}}}"
// requires: the helper's own writes are never escaped, matching the
// reference implementation where escaping is the helper's own
// responsibility and a triple-stash call simply disables it up front.
type htmlHelperWrapper struct{ ht *HelperTemplate }

func (w *htmlHelperWrapper) Render(rc *RenderContext) error {
	prev := rc.DisableEscape()
	rc.SetDisableEscape(true)
	defer rc.SetDisableEscape(prev)
	return w.ht.Render(rc)
}

// tagForm classifies one parsed {{ }} body.
type tagForm int

const (
	tagPlainExpr tagForm = iota
	tagHelperOpen
	tagDirectiveOpen
	tagDirectiveInline
	tagPartialOpen
	tagPartialInline
	tagClose
	tagElse
)

type parsedTag struct {
	form       tagForm
	name       string
	nameParam  Parameter
	params     []Parameter
	hash       map[string]Parameter
	hashOrder  []string
	blockParam BlockParam
}

// parseTagContent parses the trimmed text between a tag's delimiters into
// a parsedTag, implementing the grammar summarized in §6: a leading
// '#'/'/'/'^'/'>'/'*'/'&' marks the tag's form, optionally combined
// ("#>" block partial, "#*" block directive); the remainder is a
// whitespace-separated argument list (quote/paren/pipe aware) split into
// positional params, "key=value" hash entries, and a trailing "as |x y|"
// block-parameter clause.
func parseTagContent(s string) (*parsedTag, error) {
	s = strings.TrimSpace(s)
	if s == "else" {
		return &parsedTag{form: tagElse}, nil
	}

	tag := &parsedTag{hash: map[string]Parameter{}}
	body := s

	switch {
	case strings.HasPrefix(s, "#>"):
		tag.form = tagPartialOpen
		body = s[2:]
	case strings.HasPrefix(s, "#*"):
		tag.form = tagDirectiveOpen
		body = s[2:]
	case strings.HasPrefix(s, "#"):
		tag.form = tagHelperOpen
		body = s[1:]
	case strings.HasPrefix(s, "/"):
		tag.form = tagClose
		tag.name = strings.TrimSpace(s[1:])
		return tag, nil
	case strings.HasPrefix(s, "^"):
		rest := strings.TrimSpace(s[1:])
		if rest == "" {
			return &parsedTag{form: tagElse}, nil
		}
		words, err := splitWords(rest)
		if err != nil {
			return nil, err
		}
		if len(words) == 0 {
			return nil, NewRenderError("empty inverse section name")
		}
		tag.form = tagHelperOpen
		tag.name = "unless"
		tag.params = []Parameter{parseArgWord(words[0])}
		return tag, nil
	case strings.HasPrefix(s, ">"):
		tag.form = tagPartialInline
		body = s[1:]
	case strings.HasPrefix(s, "*"):
		tag.form = tagDirectiveInline
		body = s[1:]
	case strings.HasPrefix(s, "&"):
		tag.form = tagPlainExpr
		body = s[1:]
	default:
		tag.form = tagPlainExpr
	}

	words, err := splitWords(body)
	if err != nil {
		return nil, err
	}
	if bp, rest, ok := extractBlockParam(words); ok {
		tag.blockParam = bp
		words = rest
	}
	if len(words) == 0 {
		return nil, NewRenderError("empty tag")
	}

	nameWord := words[0]
	tag.name = nameWord
	tag.nameParam = parseArgWord(nameWord)

	for _, w := range words[1:] {
		if key, val, ok := splitHashWord(w); ok {
			tag.hash[key] = parseArgWord(val)
			tag.hashOrder = append(tag.hashOrder, key)
			continue
		}
		tag.params = append(tag.params, parseArgWord(w))
	}

	return tag, nil
}

// extractBlockParam recognizes a trailing "as |x|" / "as |x y|" clause.
func extractBlockParam(words []string) (BlockParam, []string, bool) {
	n := len(words)
	if n >= 2 && words[n-2] == "as" && strings.HasPrefix(words[n-1], "|") && strings.HasSuffix(words[n-1], "|") {
		inner := strings.TrimSuffix(strings.TrimPrefix(words[n-1], "|"), "|")
		names := strings.Fields(inner)
		return BlockParam{Names: names}, words[:n-2], true
	}
	return BlockParam{}, words, false
}

// splitHashWord splits "key=value" at the first top-level '=', rejecting
// matches where the prefix is not a plain identifier (so "(eq a b)" or a
// quoted string are never mistaken for hash entries).
func splitHashWord(w string) (key, val string, ok bool) {
	i := strings.IndexByte(w, '=')
	if i <= 0 {
		return "", "", false
	}
	key = w[:i]
	for _, r := range key {
		if !(r == '_' || r == '@' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return "", "", false
		}
	}
	return key, w[i+1:], true
}

// parseArgWord classifies one already-isolated argument word into a
// Parameter: a parenthesized subexpression, a quoted or bare literal, or
// a path name.
func parseArgWord(w string) Parameter {
	switch {
	case strings.HasPrefix(w, "(") && strings.HasSuffix(w, ")"):
		inner := w[1 : len(w)-1]
		sub, err := parseTagContent(inner)
		if err != nil {
			return LiteralParam(NULL)
		}
		var el Element
		if len(sub.params) == 0 && len(sub.hash) == 0 {
			el = &Expression{Param: sub.nameParam}
		} else {
			el = &HelperTemplate{Name: sub.name, Params: sub.params, Hash: sub.hash, HashOrder: sub.hashOrder}
		}
		return SubexpressionParam(&Template{Elements: []Element{el}, Mapping: []Position{{}}})
	case len(w) >= 2 && (w[0] == '"' || w[0] == '\'') && w[len(w)-1] == w[0]:
		return LiteralParam(String(w[1 : len(w)-1]))
	case w == "true":
		return LiteralParam(Bool(true))
	case w == "false":
		return LiteralParam(Bool(false))
	case w == "null" || w == "undefined":
		return LiteralParam(NULL)
	case isNumberLiteral(w):
		f, _ := strconv.ParseFloat(w, 64)
		return LiteralParam(Number(f))
	default:
		return NameParam(w)
	}
}

func isNumberLiteral(w string) bool {
	if w == "" {
		return false
	}
	i := 0
	if w[0] == '-' {
		i++
	}
	if i >= len(w) {
		return false
	}
	seenDigit, seenDot := false, false
	for ; i < len(w); i++ {
		switch {
		case w[i] >= '0' && w[i] <= '9':
			seenDigit = true
		case w[i] == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// splitWords tokenizes body on top-level whitespace, treating quotes,
// parens and "|...|" pipes as keeping their contents glued to one word
// (mirroring lexTagBody's own delimiter scanning, applied one level down
// to a tag's argument list).
func splitWords(body string) ([]string, error) {
	var words []string
	i, n := 0, len(body)
	for i < n {
		for i < n && isSpace(body[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		depth := 0
		var quote byte
		pipe := false
	scan:
		for i < n {
			c := body[i]
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case pipe:
				if c == '|' {
					pipe = false
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '|':
				pipe = true
			case c == '(':
				depth++
			case c == ')':
				depth--
			case isSpace(c) && depth == 0:
				break scan
			}
			i++
		}
		words = append(words, body[start:i])
	}
	return words, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
