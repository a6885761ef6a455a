package parser

// Decision is the fate of one delimiter inside a directive argument list.
type Decision int

const (
	FoldIntoOpaqueText Decision = iota
	EmitAsDelimiterToken
	// Unbalanced marks a closer with no matching opener. The delimiter is
	// folded into the surrounding text and the count stays at zero.
	Unbalanced
)

func (d Decision) String() string {
	switch d {
	case EmitAsDelimiterToken:
		return "Emit"
	case Unbalanced:
		return "Unbalanced"
	}
	return "Fold"
}

type BalanceCounters struct {
	Round  int
	Square int
	Curly  int
}

// BalanceTracker counts open delimiters inside one directive argument list.
// Only the outermost parentheses and commas at nesting depth one belong to
// the directive; everything else is part of the PHP expression.
type BalanceTracker struct {
	counters BalanceCounters
}

func (b *BalanceTracker) Counters() BalanceCounters {
	return b.counters
}

func (b *BalanceTracker) OnOpenRound() Decision {
	b.counters.Round++
	if b.counters.Round == 1 {
		return EmitAsDelimiterToken
	}
	return FoldIntoOpaqueText
}

// OnCloseRound returns EmitAsDelimiterToken for the parenthesis that ends
// the argument list; the caller pops the mode.
func (b *BalanceTracker) OnCloseRound() Decision {
	if b.counters.Round == 0 {
		return Unbalanced
	}
	b.counters.Round--
	if b.counters.Round == 0 {
		return EmitAsDelimiterToken
	}
	return FoldIntoOpaqueText
}

func (b *BalanceTracker) OnOpenSquare() Decision {
	b.counters.Square++
	return FoldIntoOpaqueText
}

func (b *BalanceTracker) OnCloseSquare() Decision {
	if b.counters.Square == 0 {
		return Unbalanced
	}
	b.counters.Square--
	return FoldIntoOpaqueText
}

func (b *BalanceTracker) OnOpenCurly() Decision {
	b.counters.Curly++
	return FoldIntoOpaqueText
}

func (b *BalanceTracker) OnCloseCurly() Decision {
	if b.counters.Curly == 0 {
		return Unbalanced
	}
	b.counters.Curly--
	return FoldIntoOpaqueText
}

// OnComma does not change the counters.
func (b *BalanceTracker) OnComma() Decision {
	c := b.counters
	if c.Round == 1 && c.Square == 0 && c.Curly == 0 {
		return EmitAsDelimiterToken
	}
	return FoldIntoOpaqueText
}

// Open reports whether the argument list has been opened and not yet closed.
func (b *BalanceTracker) Open() bool {
	return b.counters.Round > 0
}
