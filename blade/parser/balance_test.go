package parser

import "testing"

func TestBalanceTrackerRound(t *testing.T) {
	var b BalanceTracker

	steps := []struct {
		op   func() Decision
		want Decision
		name string
	}{
		{b.OnOpenRound, EmitAsDelimiterToken, "first ("},
		{b.OnComma, EmitAsDelimiterToken, "top-level ,"},
		{b.OnOpenRound, FoldIntoOpaqueText, "nested ("},
		{b.OnComma, FoldIntoOpaqueText, "nested ,"},
		{b.OnCloseRound, FoldIntoOpaqueText, "nested )"},
		{b.OnCloseRound, EmitAsDelimiterToken, "final )"},
		{b.OnCloseRound, Unbalanced, "extra )"},
	}

	for _, step := range steps {
		if got := step.op(); got != step.want {
			t.Errorf("%s: got %v, want %v", step.name, got, step.want)
		}
	}
	if c := b.Counters(); c != (BalanceCounters{}) {
		t.Errorf("Counters = %+v, want zero", c)
	}
}

func TestBalanceTrackerCommaVisibility(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *BalanceTracker)
		want  Decision
	}{
		{"outside arguments", func(b *BalanceTracker) {}, FoldIntoOpaqueText},
		{"top level", func(b *BalanceTracker) { b.OnOpenRound() }, EmitAsDelimiterToken},
		{"inside array", func(b *BalanceTracker) { b.OnOpenRound(); b.OnOpenSquare() }, FoldIntoOpaqueText},
		{"inside braces", func(b *BalanceTracker) { b.OnOpenRound(); b.OnOpenCurly() }, FoldIntoOpaqueText},
		{"after array closes", func(b *BalanceTracker) {
			b.OnOpenRound()
			b.OnOpenSquare()
			b.OnCloseSquare()
		}, EmitAsDelimiterToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BalanceTracker
			tt.setup(&b)
			if got := b.OnComma(); got != tt.want {
				t.Errorf("OnComma() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBalanceTrackerNeverNegative(t *testing.T) {
	var b BalanceTracker

	if got := b.OnCloseSquare(); got != Unbalanced {
		t.Errorf("OnCloseSquare on zero = %v, want Unbalanced", got)
	}
	if got := b.OnCloseCurly(); got != Unbalanced {
		t.Errorf("OnCloseCurly on zero = %v, want Unbalanced", got)
	}
	if got := b.OnCloseRound(); got != Unbalanced {
		t.Errorf("OnCloseRound on zero = %v, want Unbalanced", got)
	}
	c := b.Counters()
	if c.Round != 0 || c.Square != 0 || c.Curly != 0 {
		t.Errorf("Counters = %+v, want zero", c)
	}
	if b.Open() {
		t.Error("Open() = true on a fresh tracker")
	}
}

func TestDecisionString(t *testing.T) {
	if EmitAsDelimiterToken.String() != "Emit" || FoldIntoOpaqueText.String() != "Fold" || Unbalanced.String() != "Unbalanced" {
		t.Error("Decision.String() returned unexpected names")
	}
}
