package format

import "github.com/dhamidi/bladefmt/blade/parser"

// Encoder writes a parse tree in some output format.
type Encoder interface {
	Encode(node *parser.Node) error
}

// TokenEncoder writes the token stream of a template.
type TokenEncoder interface {
	EncodeTokens(records []TokenRecord) error
}

// TokenRecord is a token together with the lexer state right after it was
// produced.
type TokenRecord struct {
	Token parser.Token
	Mode  parser.Mode
	Depth int
}

// Tokens lexes src and records the mode stack after every token.
func Tokens(src []byte, opts Options) ([]TokenRecord, []parser.Diagnostic) {
	lexer := parser.NewLexer(src, opts.File)
	lexer.SetDirectives(opts.Directives)

	var records []TokenRecord
	for {
		tok := lexer.NextToken()
		records = append(records, TokenRecord{Token: tok, Mode: lexer.Mode(), Depth: lexer.Depth()})
		if tok.Kind == parser.TokenEOF {
			break
		}
	}
	return records, lexer.Diagnostics()
}
