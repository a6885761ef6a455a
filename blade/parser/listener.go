package parser

// Listener receives a depth-first walk of a parse tree. Implementations
// must not modify the tree.
type Listener interface {
	EnterFile(n *Node)
	ExitFile(n *Node)
	EnterHTMLTag(n *Node)
	ExitHTMLTag(n *Node)
	EnterSelfClosedTag(n *Node)
	ExitSelfClosedTag(n *Node)
	EnterCloseTag(n *Node)
	ExitCloseTag(n *Node)
	EnterBlockStart(n *Node)
	ExitBlockStart(n *Node)
	EnterBlockEnd(n *Node)
	ExitBlockEnd(n *Node)
	EnterBlockAligned(n *Node)
	ExitBlockAligned(n *Node)
	EnterSectionInline(n *Node)
	ExitSectionInline(n *Node)
	EnterSectionBlock(n *Node)
	ExitSectionBlock(n *Node)
	EnterInlineIdentable(n *Node)
	ExitInlineIdentable(n *Node)
	EnterArguments(n *Node)
	ExitArguments(n *Node)
	EnterStatic(n *Node)
	ExitStatic(n *Node)
	EnterBladeEcho(n *Node)
	ExitBladeEcho(n *Node)
	EnterNLWithSpace(n *Node)
	ExitNLWithSpace(n *Node)
	EnterNLWithSpaceBefore(n *Node)
	ExitNLWithSpaceBefore(n *Node)
	EnterWhitespace(n *Node)
	ExitWhitespace(n *Node)
	VisitTerminal(n *Node)
	VisitError(n *Node)
}

// BaseListener implements every Listener method as a no-op. Embed it to
// override only the events of interest.
type BaseListener struct{}

func (BaseListener) EnterFile(*Node)              {}
func (BaseListener) ExitFile(*Node)               {}
func (BaseListener) EnterHTMLTag(*Node)           {}
func (BaseListener) ExitHTMLTag(*Node)            {}
func (BaseListener) EnterSelfClosedTag(*Node)     {}
func (BaseListener) ExitSelfClosedTag(*Node)      {}
func (BaseListener) EnterCloseTag(*Node)          {}
func (BaseListener) ExitCloseTag(*Node)           {}
func (BaseListener) EnterBlockStart(*Node)        {}
func (BaseListener) ExitBlockStart(*Node)         {}
func (BaseListener) EnterBlockEnd(*Node)          {}
func (BaseListener) ExitBlockEnd(*Node)           {}
func (BaseListener) EnterBlockAligned(*Node)      {}
func (BaseListener) ExitBlockAligned(*Node)       {}
func (BaseListener) EnterSectionInline(*Node)     {}
func (BaseListener) ExitSectionInline(*Node)      {}
func (BaseListener) EnterSectionBlock(*Node)      {}
func (BaseListener) ExitSectionBlock(*Node)       {}
func (BaseListener) EnterInlineIdentable(*Node)   {}
func (BaseListener) ExitInlineIdentable(*Node)    {}
func (BaseListener) EnterArguments(*Node)         {}
func (BaseListener) ExitArguments(*Node)          {}
func (BaseListener) EnterStatic(*Node)            {}
func (BaseListener) ExitStatic(*Node)             {}
func (BaseListener) EnterBladeEcho(*Node)         {}
func (BaseListener) ExitBladeEcho(*Node)          {}
func (BaseListener) EnterNLWithSpace(*Node)       {}
func (BaseListener) ExitNLWithSpace(*Node)        {}
func (BaseListener) EnterNLWithSpaceBefore(*Node) {}
func (BaseListener) ExitNLWithSpaceBefore(*Node)  {}
func (BaseListener) EnterWhitespace(*Node)        {}
func (BaseListener) ExitWhitespace(*Node)         {}
func (BaseListener) VisitTerminal(*Node)          {}
func (BaseListener) VisitError(*Node)             {}

// Walk visits n and its descendants depth-first, calling the Enter method
// for a node before its children and the Exit method after them. Tokens
// skipped during error recovery are visited after VisitError.
func Walk(l Listener, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindTerminal:
		l.VisitTerminal(n)
		return
	case KindError:
		l.VisitError(n)
		for _, child := range n.Children {
			Walk(l, child)
		}
		return
	}

	enter(l, n)
	for _, child := range n.Children {
		Walk(l, child)
	}
	exit(l, n)
}

func enter(l Listener, n *Node) {
	switch n.Kind {
	case KindFile:
		l.EnterFile(n)
	case KindHTMLTag:
		l.EnterHTMLTag(n)
	case KindSelfClosedTag:
		l.EnterSelfClosedTag(n)
	case KindCloseTag:
		l.EnterCloseTag(n)
	case KindBlockStart:
		l.EnterBlockStart(n)
	case KindBlockEnd:
		l.EnterBlockEnd(n)
	case KindBlockAligned:
		l.EnterBlockAligned(n)
	case KindSectionInline:
		l.EnterSectionInline(n)
	case KindSectionBlock:
		l.EnterSectionBlock(n)
	case KindInlineIdentable:
		l.EnterInlineIdentable(n)
	case KindArguments:
		l.EnterArguments(n)
	case KindStatic:
		l.EnterStatic(n)
	case KindBladeEcho:
		l.EnterBladeEcho(n)
	case KindNLWithSpace:
		l.EnterNLWithSpace(n)
	case KindNLWithSpaceBefore:
		l.EnterNLWithSpaceBefore(n)
	case KindWhitespace:
		l.EnterWhitespace(n)
	}
}

func exit(l Listener, n *Node) {
	switch n.Kind {
	case KindFile:
		l.ExitFile(n)
	case KindHTMLTag:
		l.ExitHTMLTag(n)
	case KindSelfClosedTag:
		l.ExitSelfClosedTag(n)
	case KindCloseTag:
		l.ExitCloseTag(n)
	case KindBlockStart:
		l.ExitBlockStart(n)
	case KindBlockEnd:
		l.ExitBlockEnd(n)
	case KindBlockAligned:
		l.ExitBlockAligned(n)
	case KindSectionInline:
		l.ExitSectionInline(n)
	case KindSectionBlock:
		l.ExitSectionBlock(n)
	case KindInlineIdentable:
		l.ExitInlineIdentable(n)
	case KindArguments:
		l.ExitArguments(n)
	case KindStatic:
		l.ExitStatic(n)
	case KindBladeEcho:
		l.ExitBladeEcho(n)
	case KindNLWithSpace:
		l.ExitNLWithSpace(n)
	case KindNLWithSpaceBefore:
		l.ExitNLWithSpaceBefore(n)
	case KindWhitespace:
		l.ExitWhitespace(n)
	}
}
