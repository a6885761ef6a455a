package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	// TokenEOFExit closes a mode that was still open when the input ended.
	TokenEOFExit

	// Static content
	TokenHTML
	TokenHTMLComment
	TokenBladeComment

	// Directives
	TokenDirectiveBlockStart
	TokenDirectiveBlockEnd
	TokenDirectiveInline
	TokenDirectiveNonParam
	TokenDirectiveAligned
	TokenDirective

	// Directive arguments
	TokenDArgLParen
	TokenDArgRParen
	TokenParamComma

	// Echoes and PHP
	TokenContentEchoOpen
	TokenContentEchoClose
	TokenRawEchoOpen
	TokenRawEchoClose
	TokenPHPBlockOpen
	TokenPHPBlockClose
	TokenPHPExpr
	TokenPHPCode

	// HTML tags
	TokenHTMLTagOpen
	TokenHTMLVoidTagOpen
	TokenHTMLCloseTag
	TokenGT
	TokenSelfClose
	TokenQuote
	TokenString
	TokenIdentifier
	TokenEQ

	TokenWS
	TokenNL
	TokenOther
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:                 "EOF",
	TokenEOFExit:             "EOF_EXIT",
	TokenHTML:                "HTML",
	TokenHTMLComment:         "HTML_COMMENT",
	TokenBladeComment:        "BLADE_COMMENT",
	TokenDirectiveBlockStart: "D_BLOCK_START",
	TokenDirectiveBlockEnd:   "D_BLOCK_END",
	TokenDirectiveInline:     "D_INLINE",
	TokenDirectiveNonParam:   "D_NON_PARAM",
	TokenDirectiveAligned:    "D_BLOCK_ALIGNED",
	TokenDirective:           "D_GENERIC",
	TokenDArgLParen:          "D_ARG_LPAREN",
	TokenDArgRParen:          "D_ARG_RPAREN",
	TokenParamComma:          "PARAM_COMMA",
	TokenContentEchoOpen:     "CONTENT_ECHO_OPEN",
	TokenContentEchoClose:    "CONTENT_ECHO_CLOSE",
	TokenRawEchoOpen:         "RAW_ECHO_OPEN",
	TokenRawEchoClose:        "RAW_ECHO_CLOSE",
	TokenPHPBlockOpen:        "PHP_BLOCK_OPEN",
	TokenPHPBlockClose:       "PHP_BLOCK_CLOSE",
	TokenPHPExpr:             "PHP_EXPR",
	TokenPHPCode:             "PHP_CODE",
	TokenHTMLTagOpen:         "HTML_TAG_OPEN",
	TokenHTMLVoidTagOpen:     "HTML_VOID_TAG_OPEN",
	TokenHTMLCloseTag:        "HTML_CLOSE_TAG",
	TokenGT:                  "GT",
	TokenSelfClose:           "SELF_CLOSE",
	TokenQuote:               "QUOTE",
	TokenString:              "STRING",
	TokenIdentifier:          "IDENTIFIER",
	TokenEQ:                  "EQ",
	TokenWS:                  "WS",
	TokenNL:                  "NL",
	TokenOther:               "OTHER",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsDirective reports whether k is one of the directive name kinds.
func (k TokenKind) IsDirective() bool {
	return k >= TokenDirectiveBlockStart && k <= TokenDirective
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// DirectiveName returns the name of a directive token without its "@".
func (t Token) DirectiveName() string {
	if len(t.Literal) > 0 && t.Literal[0] == '@' {
		return t.Literal[1:]
	}
	return t.Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}
