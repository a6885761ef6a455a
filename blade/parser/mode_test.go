package parser

import "testing"

func TestModeStackBase(t *testing.T) {
	var s ModeStack

	if s.Mode() != ModeDefault {
		t.Errorf("Mode = %v, want Default", s.Mode())
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop on an empty stack reported success")
	}
	if s.Mode() != ModeDefault {
		t.Errorf("Mode after Pop = %v, want Default", s.Mode())
	}
}

func TestModeStackFramesOwnCounters(t *testing.T) {
	var s ModeStack

	outer := s.Push(ModeDirectiveArg, Position{Offset: 1})
	outer.Balance.OnOpenRound()
	outer.Balance.OnOpenSquare()

	inner := s.Push(ModeContentEcho, Position{Offset: 5})
	if c := inner.Balance.Counters(); c != (BalanceCounters{}) {
		t.Errorf("new frame counters = %+v, want zero", c)
	}
	if s.Depth() != 2 {
		t.Errorf("Depth = %d, want 2", s.Depth())
	}

	frame, ok := s.Pop()
	if !ok || frame.Mode != ModeContentEcho {
		t.Errorf("Pop = %v %v, want ContentEcho", frame.Mode, ok)
	}

	top := s.Top()
	if top.Mode != ModeDirectiveArg {
		t.Fatalf("Top = %v, want DirectiveArg", top.Mode)
	}
	if c := top.Balance.Counters(); c.Round != 1 || c.Square != 1 {
		t.Errorf("outer counters = %+v, want Round 1 Square 1", c)
	}
	if top.Start.Offset != 1 {
		t.Errorf("outer Start = %d, want 1", top.Start.Offset)
	}

	s.Pop()
	if s.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", s.Depth())
	}
}

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		ModeDefault:      "Default",
		ModeDirectiveArg: "DirectiveArg",
		ModePHPBlock:     "PhpBlock",
		ModeContentEcho:  "ContentEcho",
		ModeRawEcho:      "RawEcho",
		Mode(42):         "Unknown",
	}
	for mode, want := range tests {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(mode), got, want)
		}
	}
}
