package parser

import (
	"bytes"
	"strings"

	"github.com/dhamidi/bladefmt/blade/directive"
)

// Lexer turns a Blade template into tokens. Every piece of state that
// decides how the next byte is read lives on the mode stack, so one Lexer
// per input is all the synchronization needed.
type Lexer struct {
	input       []byte
	file        string
	pos         int
	line        int
	column      int
	directives  *directive.Table
	modes       ModeStack
	diagnostics []Diagnostic
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:      input,
		file:       file,
		pos:        0,
		line:       1,
		column:     1,
		directives: directive.Default(),
	}
}

// SetDirectives replaces the classification table. A nil table is ignored.
func (l *Lexer) SetDirectives(t *directive.Table) {
	if t != nil {
		l.directives = t
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) Mode() Mode {
	return l.modes.Mode()
}

func (l *Lexer) Depth() int {
	return l.modes.Depth()
}

// Counters returns the balance counters of the innermost argument list,
// or zero counters outside one.
func (l *Lexer) Counters() BalanceCounters {
	top := l.modes.Top()
	if top.Mode != ModeDirectiveArg {
		return BalanceCounters{}
	}
	return top.Balance.Counters()
}

func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diagnostics
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) advanceTo(offset int) {
	for l.pos < offset && l.pos < len(l.input) {
		l.advance()
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) hasPrefixFold(s string) bool {
	if len(l.input)-l.pos < len(s) {
		return false
	}
	return strings.EqualFold(string(l.input[l.pos:l.pos+len(s)]), s)
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) report(kind DiagnosticKind, msg string, start, end Position) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:    kind,
		Message: msg,
		Span:    Span{Start: start, End: end},
	})
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

// exit pops the top frame at end of input and returns the synthetic token
// that closes it.
func (l *Lexer) exit(kind DiagnosticKind, msg string, start Position) Token {
	frame, _ := l.modes.Pop()
	l.report(kind, msg, frame.Start, start)
	return Token{Kind: TokenEOFExit, Span: Span{Start: start, End: start}}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()

	switch l.modes.Mode() {
	case ModeDirectiveArg:
		return l.nextDirectiveArg(start)
	case ModePHPBlock:
		return l.nextRawBlock(start)
	case ModeContentEcho:
		return l.nextEcho(start, "}}", TokenContentEchoClose)
	case ModeRawEcho:
		return l.nextEcho(start, "!!}", TokenRawEchoClose)
	}
	return l.nextDefault(start)
}

// Tokenize returns all remaining tokens, ending with EOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) nextDefault(start Position) Token {
	tag := &l.modes.Top().tag

	if l.atEOF() {
		tag.open = false
		if tag.quote != 0 {
			tag.quote = 0
			l.report(DiagUnterminatedQuote, "unterminated attribute value", tag.quoteStart, start)
			return Token{Kind: TokenEOFExit, Span: Span{Start: start, End: start}}
		}
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()

	if tag.rawText != "" && !tag.open {
		if l.hasPrefixFold("</" + tag.rawText) {
			tag.rawText = ""
			return l.scanCloseTag(start)
		}
		if ch == '@' {
			if tok, ok := l.scanAt(start); ok {
				return tok
			}
		}
		if !l.hasPrefix("{{") && !l.hasPrefix("{!!") {
			return l.scanRawText(start, tag.rawText)
		}
	}

	switch {
	case ch == '\n':
		l.advance()
		return l.token(TokenNL, start)
	case ch == '\r' && l.peekN(1) == '\n':
		l.advanceN(2)
		return l.token(TokenNL, start)
	case ch == ' ' || ch == '\t' || ch == '\r':
		return l.scanWhitespace(start)
	case l.hasPrefix("{{--"):
		return l.scanComment(start, "{{--", "--}}", TokenBladeComment)
	case l.hasPrefix("{{"):
		l.advanceN(2)
		l.modes.Push(ModeContentEcho, start)
		return l.token(TokenContentEchoOpen, start)
	case l.hasPrefix("{!!"):
		l.advanceN(3)
		l.modes.Push(ModeRawEcho, start)
		return l.token(TokenRawEchoOpen, start)
	case ch == '@' && tag.quote == 0:
		if tok, ok := l.scanAt(start); ok {
			return tok
		}
	}

	if tag.quote != 0 {
		return l.scanQuoted(start, tag)
	}
	if tag.open {
		return l.scanTagInner(start, tag)
	}

	switch {
	case l.hasPrefix("<!--"):
		return l.scanComment(start, "<!--", "-->", TokenHTMLComment)
	case l.hasPrefix("<?php") || l.hasPrefix("<?="):
		return l.scanPHPTag(start)
	case ch == '<' && l.peekN(1) == '/' && isTagNameStart(l.peekN(2)):
		return l.scanCloseTag(start)
	case ch == '<' && (isTagNameStart(l.peekN(1)) || (l.peekN(1) == '!' && isTagNameStart(l.peekN(2)))):
		return l.scanTagOpen(start, tag)
	}
	return l.scanText(start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || (ch == '\r' && l.peekN(1) != '\n') {
			l.advance()
			continue
		}
		break
	}
	return l.token(TokenWS, start)
}

func (l *Lexer) scanComment(start Position, open, close string, kind TokenKind) Token {
	l.advanceN(len(open))
	idx := bytes.Index(l.input[l.pos:], []byte(close))
	if idx < 0 {
		l.advanceTo(len(l.input))
		l.report(DiagUnterminatedComment, "unterminated comment, expected "+close, start, l.Position())
		return l.token(kind, start)
	}
	l.advanceN(idx + len(close))
	return l.token(kind, start)
}

// scanText reads a run of plain text. The first byte is always consumed so
// that bytes no other scanner wants still make progress.
func (l *Lexer) scanText(start Position) Token {
	l.advance()
	for !l.atEOF() {
		ch := l.peek()
		if ch == '\n' || ch == '\r' || ch == ' ' || ch == '\t' || ch == '<' {
			break
		}
		if ch == '@' && !isWordByte(l.input[l.pos-1]) {
			break
		}
		if l.hasPrefix("{{") || l.hasPrefix("{!!") {
			break
		}
		l.advance()
	}
	return l.token(TokenHTML, start)
}

// scanRawText reads the body of a raw text element, which may span lines
// and is never re-indented.
func (l *Lexer) scanRawText(start Position, name string) Token {
	l.advance()
	for !l.atEOF() {
		if l.hasPrefixFold("</"+name) || l.hasPrefix("{{") || l.hasPrefix("{!!") {
			break
		}
		if l.peek() == '@' && !isWordByte(l.input[l.pos-1]) {
			break
		}
		l.advance()
	}
	return l.token(TokenHTML, start)
}

// scanAt handles "@". It reports false when the "@" is plain text.
func (l *Lexer) scanAt(start Position) (Token, bool) {
	if l.pos > 0 && isWordByte(l.input[l.pos-1]) {
		return Token{}, false
	}

	// @@if is an escaped directive, @{{ an escaped echo
	if l.peekN(1) == '@' {
		l.advanceN(2)
		for isWordByte(l.peek()) {
			l.advance()
		}
		return l.token(TokenHTML, start), true
	}
	if l.peekN(1) == '{' && l.peekN(2) == '{' {
		l.advanceN(3)
		return l.token(TokenHTML, start), true
	}
	if l.peekN(1) == '{' && l.peekN(2) == '!' && l.peekN(3) == '!' {
		l.advanceN(4)
		return l.token(TokenHTML, start), true
	}

	end := l.pos + 1
	if end >= len(l.input) || !isNameStart(l.input[end]) {
		return Token{}, false
	}
	for end < len(l.input) && isWordByte(l.input[end]) {
		end++
	}
	// namespaced directives: @lang::choice
	if end+2 < len(l.input) && l.input[end] == ':' && l.input[end+1] == ':' && isWordByte(l.input[end+2]) {
		end += 2
		for end < len(l.input) && isWordByte(l.input[end]) {
			end++
		}
	}
	name := string(l.input[l.pos+1 : end])

	next := end
	for next < len(l.input) && (l.input[next] == ' ' || l.input[next] == '\t') {
		next++
	}
	hasParen := next < len(l.input) && l.input[next] == '('

	table := l.directives
	if table.IsRaw(name) && !hasParen {
		l.advanceTo(end)
		frame := l.modes.Push(ModePHPBlock, start)
		frame.terminator = "@end" + name
		frame.wholeWord = true
		if name == "php" {
			frame.bodyKind = TokenPHPCode
			frame.closeKind = TokenPHPBlockClose
			return l.token(TokenPHPBlockOpen, start), true
		}
		frame.bodyKind = TokenHTML
		frame.closeKind = TokenDirectiveBlockEnd
		return l.token(TokenDirectiveBlockStart, start), true
	}

	hasArgs := hasParen && table.AcceptsArgs(name)
	l.advanceTo(end)
	tok := l.token(directiveTokenKind(table.Classify(name, hasArgs)), start)
	if hasArgs {
		l.modes.Push(ModeDirectiveArg, l.Position())
	}
	return tok, true
}

func directiveTokenKind(kind directive.Kind) TokenKind {
	switch kind {
	case directive.BlockStart:
		return TokenDirectiveBlockStart
	case directive.BlockEnd:
		return TokenDirectiveBlockEnd
	case directive.Inline:
		return TokenDirectiveInline
	case directive.NonParametrized:
		return TokenDirectiveNonParam
	case directive.BlockAligned:
		return TokenDirectiveAligned
	}
	return TokenDirective
}

func (l *Lexer) nextDirectiveArg(start Position) Token {
	b := &l.modes.Top().Balance

	if l.atEOF() {
		return l.exit(DiagUnterminatedArgs, "unterminated directive argument list", start)
	}

	ch := l.peek()
	if !b.Open() {
		switch {
		case ch == ' ' || ch == '\t':
			return l.scanWhitespace(start)
		case ch == '(':
			b.OnOpenRound()
			l.advance()
			return l.token(TokenDArgLParen, start)
		}
		l.modes.Pop()
		return l.NextToken()
	}

	if ch == ',' && b.OnComma() == EmitAsDelimiterToken {
		l.advance()
		return l.token(TokenParamComma, start)
	}
	if ch == ')' && b.Counters().Round == 1 {
		b.OnCloseRound()
		l.advance()
		tok := l.token(TokenDArgRParen, start)
		l.modes.Pop()
		return tok
	}
	return l.scanArgExpr(start, b)
}

// scanArgExpr reads PHP up to the next delimiter that belongs to the
// directive. Nested delimiters are folded into the expression.
func (l *Lexer) scanArgExpr(start Position, b *BalanceTracker) Token {
	for !l.atEOF() {
		ch := l.peek()
		var d Decision
		switch ch {
		case '\'', '"':
			l.skipString(ch)
			continue
		case '(':
			d = b.OnOpenRound()
		case ')':
			if b.Counters().Round == 1 {
				return l.token(TokenPHPExpr, start)
			}
			d = b.OnCloseRound()
		case '[':
			d = b.OnOpenSquare()
		case ']':
			d = b.OnCloseSquare()
		case '{':
			d = b.OnOpenCurly()
		case '}':
			d = b.OnCloseCurly()
		case ',':
			if b.OnComma() == EmitAsDelimiterToken {
				return l.token(TokenPHPExpr, start)
			}
		}
		if d == Unbalanced {
			at := l.Position()
			l.advance()
			l.report(DiagUnbalancedDelimiter, "unbalanced '"+string(ch)+"' in directive arguments", at, l.Position())
			continue
		}
		l.advance()
	}
	return l.token(TokenPHPExpr, start)
}

// skipString skips a PHP string literal including its quotes.
func (l *Lexer) skipString(quote byte) {
	start := l.Position()
	l.advance()
	for !l.atEOF() {
		ch := l.advance()
		if ch == '\\' {
			l.advance()
			continue
		}
		if ch == quote {
			return
		}
	}
	l.report(DiagUnterminatedQuote, "unterminated string literal", start, l.Position())
}

func (l *Lexer) nextRawBlock(start Position) Token {
	frame := l.modes.Top()

	if l.atEOF() {
		if frame.terminator == "?>" {
			l.modes.Pop()
			return Token{Kind: TokenEOFExit, Span: Span{Start: start, End: start}}
		}
		return l.exit(DiagUnterminatedPHPBlock, "unterminated block, expected "+frame.terminator, start)
	}

	end := l.findTerminator(frame)
	if end == l.pos {
		l.advanceN(len(frame.terminator))
		tok := l.token(frame.closeKind, start)
		l.modes.Pop()
		return tok
	}
	l.advanceTo(end)
	return l.token(frame.bodyKind, start)
}

// findTerminator returns the offset of the frame's terminator, or the end
// of input. In PHP code the terminator is not looked for inside string
// literals or comments.
func (l *Lexer) findTerminator(frame *Frame) int {
	term := []byte(frame.terminator)
	php := frame.bodyKind == TokenPHPCode
	for i := l.pos; i < len(l.input); {
		if php {
			if next := skipPHPLiteral(l.input, i); next > i {
				i = next
				continue
			}
		}
		if !bytes.HasPrefix(l.input[i:], term) {
			i++
			continue
		}
		after := i + len(term)
		if frame.wholeWord && after < len(l.input) && isWordByte(l.input[after]) {
			i++
			continue
		}
		return i
	}
	return len(l.input)
}

// skipPHPLiteral returns the offset after the string or comment starting at
// i, or i when none starts there. Unterminated ones run to the end.
func skipPHPLiteral(input []byte, i int) int {
	rest := input[i:]
	switch {
	case rest[0] == '\'' || rest[0] == '"':
		for j := 1; j < len(rest); j++ {
			switch rest[j] {
			case '\\':
				j++
			case rest[0]:
				return i + j + 1
			}
		}
		return len(input)
	case bytes.HasPrefix(rest, []byte("/*")):
		if idx := bytes.Index(rest[2:], []byte("*/")); idx >= 0 {
			return i + 2 + idx + 2
		}
		return len(input)
	case bytes.HasPrefix(rest, []byte("//")) || (rest[0] == '#' && !bytes.HasPrefix(rest, []byte("#["))):
		end := len(rest)
		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			end = idx
		}
		if idx := bytes.Index(rest[:end], []byte("?>")); idx >= 0 {
			end = idx
		}
		return i + end
	}
	return i
}

func (l *Lexer) nextEcho(start Position, closer string, closeKind TokenKind) Token {
	if l.atEOF() {
		return l.exit(DiagUnterminatedEcho, "unterminated echo, expected "+closer, start)
	}
	if l.hasPrefix(closer) {
		l.advanceN(len(closer))
		tok := l.token(closeKind, start)
		l.modes.Pop()
		return tok
	}
	for !l.atEOF() && !l.hasPrefix(closer) {
		ch := l.peek()
		if ch == '\'' || ch == '"' {
			l.skipString(ch)
			continue
		}
		l.advance()
	}
	return l.token(TokenPHPExpr, start)
}

func (l *Lexer) scanPHPTag(start Position) Token {
	if l.hasPrefix("<?php") {
		l.advanceN(5)
	} else {
		l.advanceN(3)
	}
	frame := l.modes.Push(ModePHPBlock, start)
	frame.terminator = "?>"
	frame.bodyKind = TokenPHPCode
	frame.closeKind = TokenPHPBlockClose
	return l.token(TokenPHPBlockOpen, start)
}

func (l *Lexer) scanTagOpen(start Position, tag *tagState) Token {
	l.advance()
	if l.peek() == '!' {
		l.advance()
	}
	nameStart := l.pos
	for isTagNameByte(l.peek()) {
		l.advance()
	}
	tag.open = true
	tag.name = strings.ToLower(string(l.input[nameStart:l.pos]))
	if voidElements[tag.name] {
		return l.token(TokenHTMLVoidTagOpen, start)
	}
	return l.token(TokenHTMLTagOpen, start)
}

func (l *Lexer) scanCloseTag(start Position) Token {
	for !l.atEOF() {
		if l.advance() == '>' {
			break
		}
	}
	return l.token(TokenHTMLCloseTag, start)
}

func (l *Lexer) scanTagInner(start Position, tag *tagState) Token {
	ch := l.peek()
	switch {
	case ch == '>':
		l.advance()
		tag.open = false
		if rawTextElements[tag.name] {
			tag.rawText = tag.name
		}
		return l.token(TokenGT, start)
	case ch == '/' && l.peekN(1) == '>':
		l.advanceN(2)
		tag.open = false
		return l.token(TokenSelfClose, start)
	case ch == '"' || ch == '\'':
		l.advance()
		tag.quote = ch
		tag.quoteStart = start
		return l.token(TokenQuote, start)
	case ch == '=':
		l.advance()
		return l.token(TokenEQ, start)
	case isAttrNameByte(ch):
		l.advance()
		for isAttrNameByte(l.peek()) && !l.hasPrefix("{{") && !l.hasPrefix("{!!") {
			l.advance()
		}
		return l.token(TokenIdentifier, start)
	}
	l.advance()
	return l.token(TokenOther, start)
}

func (l *Lexer) scanQuoted(start Position, tag *tagState) Token {
	if l.peek() == tag.quote {
		l.advance()
		tag.quote = 0
		return l.token(TokenQuote, start)
	}
	// "@" is text inside attribute values; echoes still open.
	for !l.atEOF() {
		ch := l.peek()
		if ch == tag.quote || ch == '\n' || ch == '\r' || ch == ' ' || ch == '\t' {
			break
		}
		if l.hasPrefix("@{{") {
			l.advanceN(3)
			continue
		}
		if l.hasPrefix("@{!!") {
			l.advanceN(4)
			continue
		}
		if l.pos > start.Offset && (l.hasPrefix("{{") || l.hasPrefix("{!!")) {
			break
		}
		l.advance()
	}
	return l.token(TokenString, start)
}

// rawTextElements have bodies that are not tokenized as markup. The
// whitespace of pre and textarea is significant.
var rawTextElements = map[string]bool{
	"pre":      true,
	"script":   true,
	"style":    true,
	"textarea": true,
}

var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"doctype": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

func isNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isWordByte(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9') || ch >= 0x80
}

func isTagNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isTagNameByte(ch byte) bool {
	return isTagNameStart(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == ':' || ch == '.' || ch == '_'
}

func isAttrNameByte(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\r', '\n', '"', '\'', '=', '<', '>', '/', '`':
		return false
	}
	return true
}
