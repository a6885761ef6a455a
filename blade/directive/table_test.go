package directive

import (
	"strings"
	"testing"
)

func TestDefaultLookup(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"if", BlockStart},
		{"endif", BlockEnd},
		{"foreach", BlockStart},
		{"endforeach", BlockEnd},
		{"section", BlockStart},
		{"show", BlockEnd},
		{"else", BlockAligned},
		{"elseif", BlockAligned},
		{"case", BlockAligned},
		{"include", Inline},
		{"yield", Inline},
		{"csrf", NonParametrized},
		{"livewireStyles", NonParametrized},
		{"whatever", Unknown},
		{"", Unknown},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Lookup(tt.name); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyDependsOnArguments(t *testing.T) {
	tests := []struct {
		name    string
		hasArgs bool
		want    Kind
	}{
		{"empty", true, BlockStart},
		{"empty", false, BlockAligned},
		{"php", false, BlockStart},
		{"php", true, Inline},
		{"verbatim", false, BlockStart},
		{"case", true, BlockAligned},
		{"else", false, BlockAligned},
		{"include", true, Inline},
		{"include", false, Inline},
		{"custom", true, Unknown},
	}

	table := Default()
	for _, tt := range tests {
		if got := table.Classify(tt.name, tt.hasArgs); got != tt.want {
			t.Errorf("Classify(%q, %v) = %v, want %v", tt.name, tt.hasArgs, got, tt.want)
		}
	}
}

func TestAcceptsArgs(t *testing.T) {
	table := Default()
	for _, name := range []string{"if", "include", "elseif", "case", "custom", "section"} {
		if !table.AcceptsArgs(name) {
			t.Errorf("AcceptsArgs(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"csrf", "endif", "else", "default", "endsection"} {
		if table.AcceptsArgs(name) {
			t.Errorf("AcceptsArgs(%q) = true, want false", name)
		}
	}
}

func TestEnds(t *testing.T) {
	table := Default()

	if !table.IsEnd("if", "endif") {
		t.Error("endif should close if")
	}
	if !table.IsEnd("hasSection", "endif") {
		t.Error("endif should close hasSection")
	}
	if table.IsEnd("foreach", "endif") {
		t.Error("endif should not close foreach")
	}
	for _, end := range []string{"endsection", "show", "stop", "overwrite", "append"} {
		if !table.IsEnd("section", end) {
			t.Errorf("%s should close section", end)
		}
	}
	if got := table.Ends("while"); len(got) != 1 || got[0] != "endwhile" {
		t.Errorf("Ends(while) = %v, want [endwhile]", got)
	}
	if got := table.Ends("include"); got != nil {
		t.Errorf("Ends(include) = %v, want nil", got)
	}
}

func TestRawAndInlineWhenComma(t *testing.T) {
	table := Default()

	if !table.IsRaw("php") || !table.IsRaw("verbatim") {
		t.Error("php and verbatim should be raw")
	}
	if table.IsRaw("if") {
		t.Error("if should not be raw")
	}
	for _, name := range []string{"section", "push", "prepend", "slot"} {
		if !table.InlineWhenComma(name) {
			t.Errorf("InlineWhenComma(%q) = false, want true", name)
		}
	}
	if table.InlineWhenComma("if") {
		t.Error("InlineWhenComma(if) = true, want false")
	}
}

func TestLoadAndMerge(t *testing.T) {
	custom, err := Load(strings.NewReader(`
blocks:
  datetime: [enddatetime]
  if: [fi]
inline: [svg]
non_parametrized: [honeypot]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := custom.Lookup("datetime"); got != BlockStart {
		t.Errorf("custom Lookup(datetime) = %v, want BlockStart", got)
	}
	if got := custom.Lookup("include"); got != Unknown {
		t.Errorf("custom Lookup(include) = %v, want Unknown", got)
	}

	merged := Default().Merge(custom)
	if got := merged.Lookup("svg"); got != Inline {
		t.Errorf("merged Lookup(svg) = %v, want Inline", got)
	}
	if got := merged.Lookup("honeypot"); got != NonParametrized {
		t.Errorf("merged Lookup(honeypot) = %v, want NonParametrized", got)
	}
	if got := merged.Lookup("include"); got != Inline {
		t.Errorf("merged Lookup(include) = %v, want Inline", got)
	}
	if !merged.IsEnd("if", "fi") {
		t.Error("merged table should close if with fi")
	}
	if merged.IsEnd("if", "endif") {
		t.Error("merged table replaced the closers of if")
	}
	if !merged.IsEnd("unless", "endunless") {
		t.Error("merged table lost unless")
	}

	// the default table is untouched
	if Default().Lookup("svg") != Unknown {
		t.Error("Merge modified the default table")
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load(strings.NewReader("blocks: [not, a, map]")); err == nil {
		t.Error("expected error for malformed table")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestKindString(t *testing.T) {
	if BlockAligned.String() != "BlockAligned" {
		t.Errorf("BlockAligned.String() = %q", BlockAligned.String())
	}
	if Kind(99).String() != "Unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
