// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is a fatal lexical or syntactic defect. It is pure data: the
// pipeline converts it to a message string in the Result rather than
// propagating it across the package boundary.
type ParseError struct {
	// Message is the full user-facing message, e.g.
	// "Syntax error at line 3: unterminated string".
	Message string
	Line    int
	Col     int
}

// Error implements the error interface.
func (e *ParseError) Error() string { return e.Message }

// syntaxErrorf builds a ParseError in the "Syntax error" family.
func syntaxErrorf(line, col int, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("Syntax error at line %d: %s", line, fmt.Sprintf(format, args...)),
		Line:    line,
		Col:     col,
	}
}

// utf8BOM is the byte-order mark some editors prepend to TOML files.
const utf8BOM = "\xef\xbb\xbf"

// lexer turns catalog text into a token stream. It is single-pass with no
// backtracking, so lexing stays linear in the input size.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(data []byte) *lexer {
	src := strings.TrimPrefix(string(data), utf8BOM)
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// next returns the next token, discarding whitespace and comments.
// Consecutive line breaks collapse into a single newline token.
func (l *lexer) next() (token, *ParseError) {
	l.skipSpacesAndComments()

	startLine, startCol := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, line: startLine, col: startCol}, nil
	}

	switch c := l.peek(); c {
	case '\n', '\r':
		l.consumeLineBreaks()
		return token{kind: tokenNewline, line: startLine, col: startCol}, nil
	case '[':
		l.advance()
		return token{kind: tokenLeftBracket, line: startLine, col: startCol}, nil
	case ']':
		l.advance()
		return token{kind: tokenRightBracket, line: startLine, col: startCol}, nil
	case '{':
		l.advance()
		return token{kind: tokenLeftBrace, line: startLine, col: startCol}, nil
	case '}':
		l.advance()
		return token{kind: tokenRightBrace, line: startLine, col: startCol}, nil
	case '=':
		l.advance()
		return token{kind: tokenEquals, line: startLine, col: startCol}, nil
	case ',':
		l.advance()
		return token{kind: tokenComma, line: startLine, col: startCol}, nil
	case '"':
		return l.lexBasicString(startLine, startCol)
	case '\'':
		return l.lexLiteralString(startLine, startCol)
	default:
		if isKeyChar(c) {
			return l.lexKey(startLine, startCol), nil
		}
		l.advance()
		return token{}, syntaxErrorf(startLine, startCol, "unexpected character %q", string(c))
	}
}

// skipSpacesAndComments discards spaces, tabs, and '#' comments up to (but not
// including) the line break that terminates a comment.
func (l *lexer) skipSpacesAndComments() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case ' ', '\t':
			l.advance()
		case '#':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// consumeLineBreaks eats one or more consecutive CR/LF sequences, including
// any blank or comment-only lines between them.
func (l *lexer) consumeLineBreaks() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case '\n', '\r':
			l.advance()
		case ' ', '\t', '#':
			l.skipSpacesAndComments()
			if l.pos < len(l.src) && (l.peek() == '\n' || l.peek() == '\r') {
				continue
			}
			return
		default:
			return
		}
	}
}

// isKeyChar reports whether c may appear in a bare or dotted key. Dots are
// included so that composite keys like "version.ref" lex as one token;
// downstream they are treated as opaque names, not nested structure.
func isKeyChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.' || c == '+':
		return true
	}
	return false
}

func (l *lexer) lexKey(line, col int) token {
	start := l.pos
	for l.pos < len(l.src) && isKeyChar(l.peek()) {
		l.advance()
	}
	return token{kind: tokenKey, text: l.src[start:l.pos], line: line, col: col}
}

// lexBasicString lexes "..." and """...""" forms. The returned token text has
// quotes removed and escape sequences resolved.
func (l *lexer) lexBasicString(line, col int) (token, *ParseError) {
	if l.peekAt(1) == '"' && l.peekAt(2) == '"' {
		return l.lexMultiline(line, col, '"')
	}
	l.advance() // opening quote

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) || l.peek() == '\n' || l.peek() == '\r' {
			return token{}, syntaxErrorf(line, col, "unterminated string")
		}
		c := l.advance()
		switch c {
		case '"':
			return token{kind: tokenString, text: sb.String(), line: line, col: col}, nil
		case '\\':
			if err := l.resolveEscape(&sb, line); err != nil {
				return token{}, err
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// resolveEscape decodes one escape sequence following a consumed backslash.
func (l *lexer) resolveEscape(sb *strings.Builder, line int) *ParseError {
	if l.pos >= len(l.src) {
		return syntaxErrorf(line, l.col, "unterminated string")
	}
	c := l.advance()
	switch c {
	case '"':
		sb.WriteByte('"')
	case '\\':
		sb.WriteByte('\\')
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'u':
		return l.resolveUnicodeEscape(sb, line, 4)
	case 'U':
		return l.resolveUnicodeEscape(sb, line, 8)
	default:
		return syntaxErrorf(line, l.col, "unknown escape sequence '\\%s'", string(c))
	}
	return nil
}

func (l *lexer) resolveUnicodeEscape(sb *strings.Builder, line, digits int) *ParseError {
	if l.pos+digits > len(l.src) {
		return syntaxErrorf(line, l.col, "incomplete unicode escape")
	}
	hex := l.src[l.pos : l.pos+digits]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || (n >= 0xD800 && n <= 0xDFFF) || n > 0x10FFFF {
		return syntaxErrorf(line, l.col, "invalid unicode escape '\\u%s'", hex)
	}
	for i := 0; i < digits; i++ {
		l.advance()
	}
	sb.WriteRune(rune(n))
	return nil
}

// lexLiteralString lexes '...' and '''...''' forms. No escape processing.
func (l *lexer) lexLiteralString(line, col int) (token, *ParseError) {
	if l.peekAt(1) == '\'' && l.peekAt(2) == '\'' {
		return l.lexMultiline(line, col, '\'')
	}
	l.advance() // opening quote

	start := l.pos
	for {
		if l.pos >= len(l.src) || l.peek() == '\n' || l.peek() == '\r' {
			return token{}, syntaxErrorf(line, col, "unterminated string")
		}
		if l.peek() == '\'' {
			text := l.src[start:l.pos]
			l.advance()
			return token{kind: tokenString, text: text, line: line, col: col}, nil
		}
		l.advance()
	}
}

// lexMultiline lexes a triple-quoted string (basic or literal). Content is
// kept verbatim apart from the closing delimiter and an immediate leading
// line break after the opening delimiter.
func (l *lexer) lexMultiline(line, col int, quote byte) (token, *ParseError) {
	for i := 0; i < 3; i++ {
		l.advance()
	}
	if l.peek() == '\r' {
		l.advance()
	}
	if l.peek() == '\n' {
		l.advance()
	}

	start := l.pos
	for l.pos < len(l.src) {
		if l.pos+3 <= len(l.src) && l.src[l.pos] == quote && l.src[l.pos+1] == quote && l.src[l.pos+2] == quote {
			text := l.src[start:l.pos]
			for i := 0; i < 3; i++ {
				l.advance()
			}
			return token{kind: tokenString, text: text, line: line, col: col}, nil
		}
		l.advance()
	}
	return token{}, syntaxErrorf(line, col, "unterminated multi-line string")
}
