package acd

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/acdform/log"
)

// ParseReader reads all of r and parses it with [Parse]. The only errors it
// returns come from reading r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Model, error) {
	// Wrap reader with async read-ahead so large definitions are fetched
	// while earlier chunks are being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...), nil
}

// Parse parses definition text into a new [Model].
//
// Parsing is best-effort: a line that cannot be parsed is skipped, recorded in
// [Model.Warnings], and logged at warn level. Every field parsed successfully
// is returned regardless of failures elsewhere in the text.
func Parse(ctx context.Context, text string, opts ...Option) *Model {
	cfg := makeConfig(opts...)

	p := &parser{
		ctx:    ctx,
		src:    []byte(text),
		pos:    0,
		line:   1,
		vars:   newShorthand(),
		logger: cfg.logger,
		model: &Model{
			fields:   make([]*Field, 0),
			checksum: Fingerprint([]byte(text)),
			filename: cfg.filename,
		},
	}

	p.parseDefinition()

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("file", cfg.filename),
		slog.Int("fields", len(p.model.fields)),
		slog.Int("sections", p.model.sections),
		slog.Int("subsections", p.model.subsections),
		slog.Int("warnings", len(p.model.warnings)),
	)

	return p.model
}

// Fingerprint returns the xxh3 hash of definition source data. Two sources
// with equal fingerprints parse to equivalent models.
func Fingerprint(data []byte) uint64 { return xxh3.Hash(data) }

// parser holds the state of a single parse.
type parser struct {
	ctx    context.Context
	src    []byte
	pos    int
	line   int
	vars   *shorthand
	logger log.Logger
	model  *Model
	depth  int // open sections
}

// numericLiteral matches the unquoted values stored as numbers.
var numericLiteral = regexp.MustCompile(
	`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`,
)

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	if p.src[p.pos] == '\n' {
		p.line++
	}

	p.pos++
}

// skipBlank skips spaces and tabs on the current line.
func (p *parser) skipBlank() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			p.advance()
		default:
			return
		}
	}
}

// skipSpace skips all whitespace, including newlines and # comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.peek()

		switch {
		case c == '#':
			p.skipLine()
		case isSpace(c):
			p.advance()
		default:
			return
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// skipLine advances past the next newline.
func (p *parser) skipLine() {
	for !p.eof() {
		c := p.peek()
		p.advance()

		if c == '\n' {
			return
		}
	}
}

// lineText returns the trimmed text of the current line from offset start.
func (p *parser) lineText(start int) string {
	end := start
	for end < len(p.src) && p.src[end] != '\n' {
		end++
	}

	return strings.TrimSpace(string(p.src[start:end]))
}

// atLineEnd reports whether only blanks or a comment remain on this line.
func (p *parser) atLineEnd() bool {
	p.skipBlank()

	return p.eof() || p.peek() == '\n' || p.peek() == '#'
}

func (p *parser) warn(line int, text, reason string) {
	w := Warning{Line: line, Text: text, Reason: reason}
	p.model.warnings = append(p.model.warnings, w)

	p.logger.WarnContext(p.ctx, "skipped definition input",
		slog.String("file", p.model.filename),
		slog.Any("warning", w),
	)
}

// parseDefinition parses fields until the end of input.
func (p *parser) parseDefinition() {
	for {
		p.skipSpace()

		if p.eof() {
			return
		}

		p.parseField()
	}
}

// parseField parses: dataType (':' | '=') name ['[' attribute* ']'].
func (p *parser) parseField() {
	line := p.line
	start := p.pos

	sep := p.pos
	for sep < len(p.src) && !strings.ContainsRune(":=\n[", rune(p.src[sep])) {
		sep++
	}

	if sep >= len(p.src) || (p.src[sep] != ':' && p.src[sep] != '=') {
		p.skipMalformed(line, start, "missing ':' or '=' after data type")

		return
	}

	typ := normalizeType(string(p.src[p.pos:sep]))
	if !isTypeToken(typ) {
		p.skipMalformed(line, start, "invalid data type")

		return
	}

	for p.pos <= sep {
		p.advance()
	}

	p.skipBlank()

	name := p.scanName()
	if name == "" {
		p.warn(line, p.lineText(start), "missing field name")
	}

	field := &Field{
		Params: []Param{{Name: typ, Value: StringValue(name)}},
		Handle: -1,
		Line:   line,
	}

	p.skipBlank()

	switch {
	case p.peek() == '[':
		p.advance()
		p.parseAttributes(field)

		if isVariable(typ) {
			if v, ok := field.Attr("value"); ok {
				p.vars.bind(name, v.Text)
			}
		}

	case isVariable(typ):
		value, _ := p.scanValue(field.Line)
		field.Params = append(field.Params, Param{
			Name:  "value",
			Value: StringValue(p.vars.bind(name, value)),
		})
	}

	if !p.atLineEnd() {
		p.warn(p.line, p.lineText(p.pos), "unexpected text after field")
		p.skipLine()
	}

	p.finish(field)
}

// skipMalformed records a single warning for the line at start and skips it,
// together with the attribute block it opens, if any.
func (p *parser) skipMalformed(line, start int, reason string) {
	p.warn(line, p.lineText(start), reason)

	var quote byte

	depth := 0

	for !p.eof() {
		c := p.peek()
		p.advance()

		switch {
		case c == '\n' && depth == 0:
			return

		case quote != 0:
			if c == '\\' && p.peek() == quote {
				p.advance()
			} else if c == quote {
				quote = 0
			}

		case c == '"' || c == '\'':
			quote = c

		case c == '#':
			p.skipLine()

			if depth == 0 {
				return
			}

		case c == '[':
			depth++

		case c == ']' && depth > 0:
			depth--

			if depth == 0 {
				p.skipLine()

				return
			}
		}
	}
}

func isTypeToken(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isNameRune(r) {
			return false
		}
	}

	return true
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' ||
		unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanName scans a field name, which ends at whitespace, '[', ']', or '#'.
func (p *parser) scanName() string {
	start := p.pos

	for !p.eof() {
		c := p.peek()
		if c == '[' || c == ']' || c == '#' || isSpace(c) {
			break
		}

		p.advance()
	}

	return string(p.src[start:p.pos])
}

// parseAttributes parses attribute pairs up to and including the closing ']'.
func (p *parser) parseAttributes(field *Field) {
	for {
		p.skipSpace()

		if p.eof() {
			p.warn(field.Line, field.Name(), "unterminated attribute block")

			return
		}

		if p.peek() == ']' {
			p.advance()

			return
		}

		line, start := p.line, p.pos

		name := p.scanAttrName()
		if name == "" {
			p.warn(line, p.lineText(start), "invalid attribute name")
			p.skipAttribute()

			continue
		}

		p.skipBlank()

		explicit := false
		if c := p.peek(); c == ':' || c == '=' {
			p.advance()
			p.skipBlank()

			explicit = true
		}

		value, quoted := p.scanValue(line)
		if explicit && !quoted && p.bareWordFollows() {
			p.warn(line, p.lineText(start), "unquoted value contains spaces")
		}

		value = p.vars.expand(value)

		v := StringValue(value)
		if !quoted && numericLiteral.MatchString(value) {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				v = NumberValue(value, n)
			}
		}

		field.Params = append(field.Params, Param{
			Name:  strings.ToLower(name),
			Value: v,
		})
	}
}

// skipAttribute skips input up to the next blank, newline, or ']'.
func (p *parser) skipAttribute() {
	for !p.eof() {
		c := p.peek()
		if c == ']' || isSpace(c) {
			return
		}

		p.advance()
	}
}

// bareWordFollows reports whether the rest of the line starts with a word
// that is not itself followed by ':' or '=', as in the "words here" of
// "information: Some words here". It does not consume input.
func (p *parser) bareWordFollows() bool {
	pos := p.pos
	defer func() { p.pos = pos }()

	p.skipBlank()

	if p.scanAttrName() == "" {
		return false
	}

	p.skipBlank()

	c := p.peek()

	return c != ':' && c != '='
}

func (p *parser) scanAttrName() string {
	start := p.pos

	for !p.eof() && p.peek() < 0x80 && isNameRune(rune(p.peek())) {
		p.advance()
	}

	return string(p.src[start:p.pos])
}

// scanValue scans a quoted or bare attribute value. quoted reports whether the
// value was a quoted string.
func (p *parser) scanValue(line int) (value string, quoted bool) {
	switch c := p.peek(); c {
	case '"', '\'':
		return p.scanQuoted(line, c), true
	case ']', '\n', '#', 0:
		return "", false
	default:
		return p.scanBare(), false
	}
}

// scanQuoted scans a string delimited by q that may span lines. Runs of
// whitespace inside it collapse to a single space; q may be escaped with '\'.
func (p *parser) scanQuoted(line int, q byte) string {
	start := p.pos
	p.advance()

	var sb strings.Builder

	space := false

	for {
		if p.eof() {
			p.warn(line, p.lineText(start), "unterminated quoted string")

			return sb.String()
		}

		c := p.peek()
		p.advance()

		switch {
		case c == q:
			return sb.String()

		case c == '\\' && p.peek() == q:
			sb.WriteByte(q)
			p.advance()

			space = false

		case isSpace(c):
			if !space {
				sb.WriteByte(' ')
			}

			space = true

		default:
			sb.WriteByte(c)

			space = false
		}
	}
}

// scanBare scans an unquoted value. It ends at whitespace or ']' outside of
// parentheses, and always at a newline.
func (p *parser) scanBare() string {
	start := p.pos
	depth := 0

	for !p.eof() {
		c := p.peek()

		if c == '\n' {
			break
		}

		if depth == 0 && (c == ']' || isSpace(c)) {
			break
		}

		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}

		p.advance()
	}

	return strings.TrimRight(string(p.src[start:p.pos]), " \t\r")
}

// finish assigns the field's category and handle, updates section totals, and
// appends it to the model.
func (p *parser) finish(field *Field) {
	m := p.model
	typ := field.Type()

	switch {
	case typ == typeSection:
		if _, ok := topSections[strings.ToLower(field.Name())]; ok && p.depth == 0 {
			m.sections++
		} else {
			m.subsections++
		}

		p.depth++

	case typ == typeEndSection:
		if p.depth > 0 {
			p.depth--
		}

	case !isStructural(typ):
		field.Category = categorize(typ, func() (float64, bool) {
			v, ok := field.Attr("maximum")
			if !ok {
				return 0, false
			}

			return v.Float()
		})

		if field.Category != CategoryNone {
			field.Handle = m.handles[field.Category]
			m.handles[field.Category]++
		}
	}

	m.fields = append(m.fields, field)
}
