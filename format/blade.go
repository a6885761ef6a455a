package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/bladefmt/blade/directive"
	"github.com/dhamidi/bladefmt/blade/parser"
)

const DefaultIndentSize = 4

type Options struct {
	IndentSize int
	Tabs       bool
	// Directives overrides the built-in directive table when non-nil.
	Directives *directive.Table
	// File is only used for diagnostic positions.
	File string
}

func (o Options) indentUnit() string {
	if o.Tabs {
		return "\t"
	}
	size := o.IndentSize
	if size <= 0 {
		size = DefaultIndentSize
	}
	return strings.Repeat(" ", size)
}

// Source formats a template. Malformed input is still formatted; the
// returned diagnostics describe what the parser had to recover from.
func Source(src []byte, opts Options) ([]byte, []parser.Diagnostic) {
	node, diags := parser.Parse(src, parser.WithFile(opts.File), parser.WithDirectives(opts.Directives))
	var buf bytes.Buffer
	f := NewFormatter(&buf, opts)
	// writes to a bytes.Buffer do not fail
	_ = f.Encode(node)
	return buf.Bytes(), diags
}

// openLevel is an element or block that indents the lines after the one it
// was opened on.
type openLevel struct {
	tag     string
	block   *parser.Node
	end     *parser.Node
	applied bool
}

// Formatter re-indents a template while walking its parse tree. Only leading
// and trailing whitespace of each line is changed.
type Formatter struct {
	parser.BaseListener

	w    io.Writer
	unit string
	out  bytes.Buffer

	levels      []openLevel
	atLineStart bool
	pendingWS   string
	inTag       bool
	dedent      bool
}

func NewFormatter(w io.Writer, opts Options) *Formatter {
	return &Formatter{w: w, unit: opts.indentUnit()}
}

func (f *Formatter) Encode(node *parser.Node) error {
	f.out.Reset()
	f.levels = f.levels[:0]
	f.atLineStart = true
	f.pendingWS = ""
	f.inTag = false
	f.dedent = false

	parser.Walk(f, node)
	_, err := f.w.Write(f.out.Bytes())
	return err
}

func (f *Formatter) VisitTerminal(n *parser.Node) {
	tok := n.Token
	switch tok.Kind {
	case parser.TokenEOF, parser.TokenEOFExit:
		return
	case parser.TokenNL:
		f.pendingWS = ""
		f.out.WriteString(tok.Literal)
		f.atLineStart = true
		f.dedent = false
		for i := range f.levels {
			f.levels[i].applied = true
		}
		return
	case parser.TokenWS:
		if !f.atLineStart {
			f.pendingWS += tok.Literal
		}
		return
	}

	if f.atLineStart {
		f.writeIndent()
		f.atLineStart = false
	}
	f.out.WriteString(f.pendingWS)
	f.pendingWS = ""
	f.out.WriteString(tok.Literal)

	if tok.Kind == parser.TokenHTMLTagOpen || tok.Kind == parser.TokenHTMLVoidTagOpen {
		f.inTag = true
	}
}

func (f *Formatter) writeIndent() {
	level := 0
	for _, l := range f.levels {
		if l.applied {
			level++
		}
	}
	if f.inTag {
		level++
	}
	if f.dedent {
		level--
	}
	for i := 0; i < level; i++ {
		f.out.WriteString(f.unit)
	}
}

func (f *Formatter) ExitHTMLTag(n *parser.Node) {
	f.inTag = false
	f.levels = append(f.levels, openLevel{tag: openTagName(n)})
}

func (f *Formatter) ExitSelfClosedTag(*parser.Node) {
	f.inTag = false
}

func (f *Formatter) EnterCloseTag(n *parser.Node) {
	name := closeTagName(n.Text())
	for i := len(f.levels) - 1; i >= 0; i-- {
		if f.levels[i].block != nil {
			return
		}
		if f.levels[i].tag == name {
			f.levels = f.levels[:i]
			return
		}
	}
}

func (f *Formatter) EnterBlockStart(n *parser.Node)   { f.openBlock(n) }
func (f *Formatter) ExitBlockStart(n *parser.Node)    { f.closeBlock(n) }
func (f *Formatter) EnterSectionBlock(n *parser.Node) { f.openBlock(n) }
func (f *Formatter) ExitSectionBlock(n *parser.Node)  { f.closeBlock(n) }

func (f *Formatter) EnterBlockEnd(n *parser.Node) {
	for i := len(f.levels) - 1; i >= 0; i-- {
		if f.levels[i].end == n {
			f.levels = f.levels[:i]
			return
		}
	}
}

func (f *Formatter) EnterBlockAligned(*parser.Node) {
	if f.atLineStart {
		f.dedent = true
	}
}

func (f *Formatter) ExitFile(*parser.Node) {
	f.pendingWS = ""
}

func (f *Formatter) openBlock(n *parser.Node) {
	f.levels = append(f.levels, openLevel{block: n, end: n.FirstChildOfKind(parser.KindBlockEnd)})
}

// closeBlock drops a block that ended without its closing directive along
// with anything left open inside it.
func (f *Formatter) closeBlock(n *parser.Node) {
	for i := len(f.levels) - 1; i >= 0; i-- {
		if f.levels[i].block == n {
			f.levels = f.levels[:i]
			return
		}
	}
}

func openTagName(n *parser.Node) string {
	for _, child := range n.Children {
		if child.Token != nil && child.Token.Kind == parser.TokenHTMLTagOpen {
			return strings.ToLower(strings.TrimLeft(child.Token.Literal, "<!"))
		}
	}
	return ""
}

func closeTagName(literal string) string {
	name := strings.TrimPrefix(literal, "</")
	end := strings.IndexAny(name, " \t\r\n/>")
	if end >= 0 {
		name = name[:end]
	}
	return strings.ToLower(name)
}
