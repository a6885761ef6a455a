package parser

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/bladefmt/blade/directive"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithDirectives parses with a custom classification table instead of the
// built-in one.
func WithDirectives(t *directive.Table) Option {
	return func(p *Parser) {
		if t != nil {
			p.directives = t
		}
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

type Parser struct {
	file             string
	includePositions bool
	directives       *directive.Table
	reader           io.Reader
	input            []byte
	lexer            *Lexer
	tokens           []Token
	pos              int
	open             []string
	diagnostics      []Diagnostic
	err              error
}

func ParseFile(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader:     r,
		directives: directive.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for parsing an in-memory template.
func Parse(src []byte, opts ...Option) (*Node, []Diagnostic) {
	p := ParseFile(nil, opts...)
	p.input = src
	node := p.Finish()
	return node, p.Diagnostics()
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	if p.reader == nil {
		p.input = []byte{}
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the whole input. It returns nil only when the input could
// not be read; see Err. Malformed templates still produce a tree.
func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		p.err = err
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.lexer.SetDirectives(p.directives)
	p.tokens = p.lexer.Tokenize()
	p.pos = 0
	p.open = nil
	p.diagnostics = nil
	return p.parseFile()
}

func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.pos = 0
	p.open = nil
	p.diagnostics = nil
	p.err = nil
}

// Tokens returns the tokens of the last parse.
func (p *Parser) Tokens() []Token {
	return p.tokens
}

// Diagnostics returns the lexical and syntactic diagnostics of the last
// parse in source order.
func (p *Parser) Diagnostics() []Diagnostic {
	var all []Diagnostic
	if p.lexer != nil {
		all = append(all, p.lexer.Diagnostics()...)
	}
	all = append(all, p.diagnostics...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Span.Start.Offset < all[j].Span.Start.Offset
	})
	return all
}

func (p *Parser) report(kind DiagnosticKind, msg string, span Span) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Kind: kind, Message: msg, Span: span})
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) terminal() *Node {
	tok := p.advance()
	return &Node{Kind: KindTerminal, Span: tok.Span, Token: &tok}
}

// wrap puts the next token into a node of the given kind.
func (p *Parser) wrap(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddChild(p.terminal())
	return p.finishNode(node)
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.report(DiagUnexpectedToken, msg, node.Span)
	from := p.pos
	p.recoverTo(recoverTo)
	// skipped tokens stay in the tree so that no source text is lost
	for i := from; i < p.pos; i++ {
		skipped := p.tokens[i]
		node.AddChild(&Node{Kind: KindTerminal, Span: skipped.Span, Token: &skipped})
	}
	return node
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseFile() *Node {
	node := p.startNode(KindFile)
	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseStatement() *Node {
	tok := p.peek()
	switch {
	case p.isIndentedTagStart():
		return p.parseIndentedTag()
	case tok.Kind == TokenDirectiveBlockStart:
		return p.parseBlockDirective()
	case tok.Kind == TokenDirectiveBlockEnd:
		return p.parseStrayEnd()
	case tok.Kind == TokenHTMLTagOpen || tok.Kind == TokenHTMLVoidTagOpen:
		return p.parseTag(nil)
	case p.match(TokenDirectiveInline, TokenDirectiveNonParam, TokenDirective, TokenPHPBlockOpen):
		return p.parseInlineIdentable()
	case tok.Kind == TokenDirectiveAligned:
		return p.parseDirective(KindBlockAligned)
	case p.match(TokenHTML, TokenHTMLComment, TokenBladeComment):
		return p.wrap(KindStatic)
	case tok.Kind == TokenNL:
		return p.parseNLWithSpace()
	case tok.Kind == TokenWS && p.peekN(1).Kind == TokenNL:
		return p.parseNLWithSpaceBefore()
	case tok.Kind == TokenContentEchoOpen || tok.Kind == TokenRawEchoOpen:
		return p.parseEcho()
	}
	return p.parseFallback()
}

func (p *Parser) parseFallback() *Node {
	switch p.peek().Kind {
	case TokenHTMLCloseTag:
		return p.wrap(KindCloseTag)
	case TokenWS:
		return p.wrap(KindWhitespace)
	}
	return p.wrap(KindStatic)
}

func (p *Parser) isIndentedTagStart() bool {
	if !p.check(TokenNL) {
		return false
	}
	next := p.peekN(1)
	if next.Kind == TokenWS {
		next = p.peekN(2)
	}
	return next.Kind == TokenHTMLTagOpen
}

func (p *Parser) parseIndentedTag() *Node {
	return p.parseTag(p.parseNLWithSpace())
}

// parseTag parses an opening tag up to its ">" or "/>". Elements are not
// matched with their close tags; a close tag is a statement of its own.
func (p *Parser) parseTag(lead *Node) *Node {
	node := p.startNode(KindHTMLTag)
	if lead != nil {
		node.Span.Start = lead.Span.Start
		node.AddChild(lead)
	}
	open := p.peek()
	node.AddChild(p.terminal())
	if open.Kind == TokenHTMLVoidTagOpen {
		node.Kind = KindSelfClosedTag
	}

	for {
		switch p.peek().Kind {
		case TokenGT:
			node.AddChild(p.terminal())
			return p.finishNode(node)
		case TokenSelfClose:
			node.AddChild(p.terminal())
			node.Kind = KindSelfClosedTag
			return p.finishNode(node)
		case TokenEOF:
			node.AddChild(p.errorNode("unterminated tag <"+tagName(open)+">", nil, TokenGT, TokenSelfClose))
			return p.finishNode(node)
		}
		progress := p.mustProgress()
		node.AddChild(p.parseInlineTagStatement())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func tagName(open Token) string {
	name := open.Literal
	for len(name) > 0 && (name[0] == '<' || name[0] == '!') {
		name = name[1:]
	}
	return name
}

func (p *Parser) parseInlineTagStatement() *Node {
	tok := p.peek()
	switch {
	case tok.Kind.IsDirective():
		return p.parseDirective(KindInlineIdentable)
	case tok.Kind == TokenPHPBlockOpen:
		return p.parseInlineIdentable()
	case tok.Kind == TokenContentEchoOpen || tok.Kind == TokenRawEchoOpen:
		return p.parseEcho()
	case tok.Kind == TokenNL:
		return p.parseNLWithSpace()
	case p.match(TokenHTMLComment, TokenBladeComment):
		return p.wrap(KindStatic)
	}
	return p.terminal()
}

func (p *Parser) parseNLWithSpace() *Node {
	node := p.startNode(KindNLWithSpace)
	node.AddChild(p.terminal())
	if p.check(TokenWS) {
		node.AddChild(p.terminal())
	}
	return p.finishNode(node)
}

func (p *Parser) parseNLWithSpaceBefore() *Node {
	node := p.startNode(KindNLWithSpaceBefore)
	node.AddChild(p.terminal())
	node.AddChild(p.terminal())
	if p.check(TokenWS) {
		node.AddChild(p.terminal())
	}
	return p.finishNode(node)
}

func (p *Parser) parseEcho() *Node {
	node := p.startNode(KindBladeEcho)
	open := p.advance()
	node.AddChild(&Node{Kind: KindTerminal, Span: open.Span, Token: &open})
	closeKind := TokenContentEchoClose
	if open.Kind == TokenRawEchoOpen {
		closeKind = TokenRawEchoClose
	}
	if p.check(TokenPHPExpr) {
		node.AddChild(p.terminal())
	}
	if p.match(closeKind, TokenEOFExit) {
		node.AddChild(p.terminal())
	}
	return p.finishNode(node)
}

// hasArguments reports whether the directive just consumed is followed by
// an argument list.
func (p *Parser) hasArguments() bool {
	i := 0
	for p.peekN(i).Kind == TokenWS {
		i++
	}
	return p.peekN(i).Kind == TokenDArgLParen
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	for p.check(TokenWS) {
		node.AddChild(p.terminal())
	}
	if !p.check(TokenDArgLParen) {
		node.AddChild(p.errorNode("expected (", nil, TokenDArgLParen))
		return p.finishNode(node)
	}
	node.AddChild(p.terminal())
	for {
		switch p.peek().Kind {
		case TokenDArgRParen, TokenEOFExit:
			node.AddChild(p.terminal())
			return p.finishNode(node)
		case TokenPHPExpr, TokenParamComma:
			node.AddChild(p.terminal())
		default:
			return p.finishNode(node)
		}
	}
}

// argumentsHaveComma looks ahead from the directive token at the current
// position for a PARAM_COMMA in its argument list.
func (p *Parser) argumentsHaveComma() bool {
	i := 1
	for p.peekN(i).Kind == TokenWS {
		i++
	}
	if p.peekN(i).Kind != TokenDArgLParen {
		return false
	}
	for i++; ; i++ {
		switch p.peekN(i).Kind {
		case TokenParamComma:
			return true
		case TokenPHPExpr:
			continue
		}
		return false
	}
}

func (p *Parser) parseDirective(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddChild(p.terminal())
	if p.hasArguments() {
		node.AddChild(p.parseArguments())
	}
	return p.finishNode(node)
}

func (p *Parser) parseInlineIdentable() *Node {
	if !p.check(TokenPHPBlockOpen) {
		return p.parseDirective(KindInlineIdentable)
	}
	node := p.startNode(KindInlineIdentable)
	node.AddChild(p.terminal())
	if p.check(TokenPHPCode) {
		node.AddChild(p.terminal())
	}
	if p.match(TokenPHPBlockClose, TokenEOFExit) {
		node.AddChild(p.terminal())
	}
	return p.finishNode(node)
}

func (p *Parser) parseBlockDirective() *Node {
	name := p.peek().DirectiveName()
	if p.directives.InlineWhenComma(name) && p.argumentsHaveComma() {
		if name == "section" {
			return p.parseDirective(KindSectionInline)
		}
		return p.parseDirective(KindInlineIdentable)
	}
	if name == "section" {
		return p.parseBlock(KindSectionBlock)
	}
	return p.parseBlock(KindBlockStart)
}

func (p *Parser) parseBlock(kind NodeKind) *Node {
	node := p.startNode(kind)
	start := p.peek()
	name := start.DirectiveName()
	node.AddChild(p.terminal())
	if p.hasArguments() {
		node.AddChild(p.parseArguments())
	}

	p.open = append(p.open, name)
	defer func() { p.open = p.open[:len(p.open)-1] }()

	for {
		tok := p.peek()
		if tok.Kind == TokenEOF {
			p.report(DiagMissingEnd, p.missingEndMessage(name), start.Span)
			break
		}
		if tok.Kind == TokenDirectiveBlockEnd {
			end := tok.DirectiveName()
			if p.directives.IsEnd(name, end) {
				node.AddChild(p.parseBlockEnd())
				break
			}
			if p.enclosingAccepts(end) {
				p.report(DiagMissingEnd, p.missingEndMessage(name), start.Span)
				break
			}
		}
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) missingEndMessage(name string) string {
	ends := p.directives.Ends(name)
	if len(ends) == 0 {
		return fmt.Sprintf("missing end for @%s", name)
	}
	return fmt.Sprintf("missing @%s for @%s", ends[0], name)
}

// enclosingAccepts reports whether a block outside the innermost one is
// closed by end.
func (p *Parser) enclosingAccepts(end string) bool {
	for i := len(p.open) - 2; i >= 0; i-- {
		if p.directives.IsEnd(p.open[i], end) {
			return true
		}
	}
	return false
}

func (p *Parser) parseBlockEnd() *Node {
	return p.wrap(KindBlockEnd)
}

func (p *Parser) parseStrayEnd() *Node {
	tok := p.peek()
	p.report(DiagUnexpectedToken, fmt.Sprintf("unexpected %s without matching block", tok.Literal), tok.Span)
	return p.parseBlockEnd()
}
