package parser

type Mode int

const (
	ModeDefault Mode = iota
	ModeDirectiveArg
	ModePHPBlock
	ModeContentEcho
	ModeRawEcho
)

var modeNames = map[Mode]string{
	ModeDefault:      "Default",
	ModeDirectiveArg: "DirectiveArg",
	ModePHPBlock:     "PhpBlock",
	ModeContentEcho:  "ContentEcho",
	ModeRawEcho:      "RawEcho",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "Unknown"
}

// Frame is one entry of the mode stack. Each frame owns its balance
// counters, so a nested argument list can never disturb its parent.
type Frame struct {
	Mode    Mode
	Start   Position
	Balance BalanceTracker

	// raw blocks (@php, @verbatim, <?php)
	terminator string
	wholeWord  bool
	bodyKind   TokenKind
	closeKind  TokenKind

	// HTML tag state, only used by the base frame
	tag tagState
}

type tagState struct {
	open    bool
	name    string
	quote   byte
	rawText string
	// start of the quoted value, for diagnostics
	quoteStart Position
}

// ModeStack is the lexer's explicit stack of modes. The Default frame at
// the bottom is implicit and cannot be popped.
type ModeStack struct {
	base   Frame
	frames []Frame
}

func (s *ModeStack) Push(mode Mode, start Position) *Frame {
	s.frames = append(s.frames, Frame{Mode: mode, Start: start})
	return &s.frames[len(s.frames)-1]
}

// Pop removes the top frame. Popping the base frame is a no-op and
// returns false.
func (s *ModeStack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return s.base, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

func (s *ModeStack) Top() *Frame {
	if len(s.frames) == 0 {
		return &s.base
	}
	return &s.frames[len(s.frames)-1]
}

func (s *ModeStack) Mode() Mode {
	return s.Top().Mode
}

// Depth is the number of frames pushed above the base frame.
func (s *ModeStack) Depth() int {
	return len(s.frames)
}
