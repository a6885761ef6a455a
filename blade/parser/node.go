package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota
	KindFile

	// HTML
	KindHTMLTag
	KindSelfClosedTag
	KindCloseTag

	// Directives
	KindBlockStart
	KindBlockEnd
	KindBlockAligned
	KindSectionInline
	KindSectionBlock
	KindInlineIdentable
	KindArguments

	KindStatic
	KindBladeEcho

	// Layout carriers
	KindNLWithSpace
	KindNLWithSpaceBefore
	KindWhitespace

	KindTerminal
)

var nodeKindNames = map[NodeKind]string{
	KindError:             "Error",
	KindFile:              "File",
	KindHTMLTag:           "HTMLTag",
	KindSelfClosedTag:     "SelfClosedTag",
	KindCloseTag:          "CloseTag",
	KindBlockStart:        "BlockStart",
	KindBlockEnd:          "BlockEnd",
	KindBlockAligned:      "BlockAligned",
	KindSectionInline:     "SectionInline",
	KindSectionBlock:      "SectionBlock",
	KindInlineIdentable:   "InlineIdentable",
	KindArguments:         "Arguments",
	KindStatic:            "Static",
	KindBladeEcho:         "BladeEcho",
	KindNLWithSpace:       "NLWithSpace",
	KindNLWithSpaceBefore: "NLWithSpaceBefore",
	KindWhitespace:        "Whitespace",
	KindTerminal:          "Terminal",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

// Node is one element of the parse tree. Leaves are Terminal nodes holding
// a single token; every other node only has children.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Tokens returns the tokens under n in source order.
func (n *Node) Tokens() []Token {
	var tokens []Token
	n.collectTokens(&tokens)
	return tokens
}

func (n *Node) collectTokens(tokens *[]Token) {
	if n.Token != nil {
		*tokens = append(*tokens, *n.Token)
	}
	for _, child := range n.Children {
		child.collectTokens(tokens)
	}
}

// Text reassembles the source covered by n.
func (n *Node) Text() string {
	var sb strings.Builder
	for _, tok := range n.Tokens() {
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

// Directive returns the directive token that starts n, if any.
func (n *Node) Directive() *Token {
	if len(n.Children) == 0 {
		return nil
	}
	first := n.Children[0]
	if first.Kind == KindTerminal && first.Token != nil && first.Token.Kind.IsDirective() {
		return first.Token
	}
	return nil
}

// CountTokens reports how many tokens of kind appear under n.
func (n *Node) CountTokens(kind TokenKind) int {
	count := 0
	for _, tok := range n.Tokens() {
		if tok.Kind == kind {
			count++
		}
	}
	return count
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Kind.String() + " " + quoteLiteral(n.Token.Literal))
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

func quoteLiteral(s string) string {
	r := strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
