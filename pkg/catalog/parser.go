// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

// reservedTables are the section names that may not be redefined as arrays
// of tables.
var reservedTables = map[string]bool{
	TableVersions:  true,
	TableLibraries: true,
	TablePlugins:   true,
	TableBundles:   true,
}

// parser consumes the token stream and builds a Document. The first syntax
// error aborts parsing; duplicate-key errors are collected and parsing
// continues, so every duplicate in the file is reported.
type parser struct {
	lx         *lexer
	cur        token
	duplicates []string
	current    *Table
	doc        *Document
}

// parseDocument parses catalog text. On a fatal syntax error the document is
// nil. Duplicate-key messages are returned separately: they invalidate the
// catalog but do not stop parsing.
func parseDocument(data []byte) (*Document, []string, *ParseError) {
	p := &parser{lx: newLexer(data), doc: newDocument()}
	if err := p.advance(); err != nil {
		return nil, nil, err
	}
	if err := p.parse(); err != nil {
		return nil, nil, err
	}
	return p.doc, p.duplicates, nil
}

func (p *parser) advance() *ParseError {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) skipNewlines() *ParseError {
	for p.cur.kind == tokenNewline {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parse() *ParseError {
	for {
		if err := p.skipNewlines(); err != nil {
			return err
		}
		switch p.cur.kind {
		case tokenEOF:
			return nil
		case tokenLeftBracket:
			if err := p.parseTableHeader(); err != nil {
				return err
			}
		case tokenKey, tokenString:
			if err := p.parseKeyValue(); err != nil {
				return err
			}
		default:
			return syntaxErrorf(p.cur.line, p.cur.col, "unexpected %s", p.cur.kind)
		}
	}
}

// parseTableHeader handles `[name]` and `[[name]]` lines. Array-of-tables
// headers are rejected on reserved section names and otherwise open an
// anonymous table whose content is parsed but never interpreted.
func (p *parser) parseTableHeader() *ParseError {
	line, col := p.cur.line, p.cur.col
	if err := p.advance(); err != nil {
		return err
	}

	arrayOfTables := false
	if p.cur.kind == tokenLeftBracket {
		arrayOfTables = true
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.cur.kind != tokenKey && p.cur.kind != tokenString {
		return syntaxErrorf(p.cur.line, p.cur.col, "expected table name, found %s", p.cur.kind)
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return err
	}

	closings := 1
	if arrayOfTables {
		closings = 2
	}
	for i := 0; i < closings; i++ {
		if p.cur.kind != tokenRightBracket {
			return syntaxErrorf(p.cur.line, p.cur.col, "expected ']' to close table header, found %s", p.cur.kind)
		}
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.cur.kind != tokenNewline && p.cur.kind != tokenEOF {
		return syntaxErrorf(p.cur.line, p.cur.col, "unexpected %s after table header", p.cur.kind)
	}

	if arrayOfTables {
		if reservedTables[name] {
			return &ParseError{
				Message: fmt.Sprintf("Invalid table definition at line %d: [[%s]] is not allowed for a reserved section", line, name),
				Line:    line,
				Col:     col,
			}
		}
		p.current = p.doc.appendAnonymousTable(name)
		return nil
	}

	p.current = p.doc.openTable(name)
	return nil
}

// parseKeyValue handles one `key = value` statement in the current table.
// Keys that appear before any table header land in a synthetic root table.
func (p *parser) parseKeyValue() *ParseError {
	key := p.cur.text
	if err := p.advance(); err != nil {
		return err
	}

	if p.cur.kind != tokenEquals {
		return syntaxErrorf(p.cur.line, p.cur.col, "expected '=' after key '%s', found %s", key, p.cur.kind)
	}
	if err := p.advance(); err != nil {
		return err
	}

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	if p.cur.kind != tokenNewline && p.cur.kind != tokenEOF {
		return syntaxErrorf(p.cur.line, p.cur.col, "unexpected %s after value", p.cur.kind)
	}

	if p.current == nil {
		p.current = p.doc.openTable("")
	}
	if insErr := p.current.Insert(key, val); insErr != nil {
		p.duplicates = append(p.duplicates, insErr.Error())
	}
	return nil
}

// parseValue parses a scalar, inline table, or array at the current token.
func (p *parser) parseValue() (Value, *ParseError) {
	switch p.cur.kind {
	case tokenString:
		v := Scalar{Text: p.cur.text, Quoted: true}
		return v, p.advance()
	case tokenKey:
		v := Scalar{Text: p.cur.text, Quoted: false}
		return v, p.advance()
	case tokenLeftBrace:
		return p.parseInlineTable()
	case tokenLeftBracket:
		return p.parseArray()
	default:
		return nil, syntaxErrorf(p.cur.line, p.cur.col, "expected a value, found %s", p.cur.kind)
	}
}

// parseInlineTable parses `{ k = v, … }`. Embedded newlines and a trailing
// comma are accepted; catalogs commonly soft-wrap long library entries.
func (p *parser) parseInlineTable() (Value, *ParseError) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	tbl := newInlineTable()

	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokenRightBrace {
			return tbl, p.advance()
		}
		if p.cur.kind != tokenKey && p.cur.kind != tokenString {
			return nil, syntaxErrorf(p.cur.line, p.cur.col, "expected key in inline table, found %s", p.cur.kind)
		}
		key := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokenEquals {
			return nil, syntaxErrorf(p.cur.line, p.cur.col, "expected '=' after key '%s', found %s", key, p.cur.kind)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if insErr := tbl.Insert(key, val); insErr != nil {
			p.duplicates = append(p.duplicates, insErr.Error())
		}

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokenRightBrace:
			// closing brace handled at loop top
		default:
			return nil, syntaxErrorf(p.cur.line, p.cur.col, "expected ',' or '}' in inline table, found %s", p.cur.kind)
		}
	}
}

// parseArray parses `[ v, … ]` with optional newlines and a trailing comma.
func (p *parser) parseArray() (Value, *ParseError) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	arr := &Array{}

	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokenRightBracket {
			return arr, p.advance()
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, val)

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokenRightBracket:
			// closing bracket handled at loop top
		default:
			return nil, syntaxErrorf(p.cur.line, p.cur.col, "expected ',' or ']' in array, found %s", p.cur.kind)
		}
	}
}
