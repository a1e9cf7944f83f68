// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

const (
	tokenEOF tokenKind = iota
	tokenNewline
	tokenLeftBracket  // [
	tokenRightBracket // ]
	tokenLeftBrace    // {
	tokenRightBrace   // }
	tokenEquals       // =
	tokenComma        // ,
	tokenKey          // bare or dotted key, e.g. agp or version.ref
	tokenString       // quoted string with quotes removed and escapes resolved
)

type (
	// tokenKind discriminates the token variants the parser consumes.
	tokenKind int

	// token is a single lexeme with its source position (1-based line/column).
	token struct {
		kind tokenKind
		// text is the token payload. For tokenString the quotes are already
		// stripped and escape sequences resolved; for tokenKey it is the key
		// text including any dots.
		text string
		line int
		col  int
	}
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "newline"
	case tokenLeftBracket:
		return "'['"
	case tokenRightBracket:
		return "']'"
	case tokenLeftBrace:
		return "'{'"
	case tokenRightBrace:
		return "'}'"
	case tokenEquals:
		return "'='"
	case tokenComma:
		return "','"
	case tokenKey:
		return "key"
	case tokenString:
		return "string"
	}
	return fmt.Sprintf("token(%d)", int(k))
}
