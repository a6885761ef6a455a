package parser

import "fmt"

type DiagnosticKind int

const (
	DiagUnterminatedArgs DiagnosticKind = iota
	DiagUnterminatedPHPBlock
	DiagUnterminatedEcho
	DiagUnterminatedQuote
	DiagUnterminatedComment
	DiagUnbalancedDelimiter
	DiagUnexpectedToken
	DiagMissingEnd
)

var diagnosticKindNames = map[DiagnosticKind]string{
	DiagUnterminatedArgs:     "unterminated-args",
	DiagUnterminatedPHPBlock: "unterminated-php-block",
	DiagUnterminatedEcho:     "unterminated-echo",
	DiagUnterminatedQuote:    "unterminated-quote",
	DiagUnterminatedComment:  "unterminated-comment",
	DiagUnbalancedDelimiter:  "unbalanced-delimiter",
	DiagUnexpectedToken:      "unexpected-token",
	DiagMissingEnd:           "missing-end",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsError reports whether the lexer lost track of the input structure. The
// other kinds are structural mismatches the tree still represents in full.
func (k DiagnosticKind) IsError() bool {
	return k != DiagMissingEnd && k != DiagUnexpectedToken
}

// Diagnostic describes a recovered problem. Diagnostics never stop lexing
// or parsing.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Span    Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Span.Start, d.Message)
}
