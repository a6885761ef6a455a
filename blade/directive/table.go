// Package directive classifies Blade directive names.
//
// The classification is data, not code: the default table is the embedded
// directives.yaml and projects can overlay their own table to teach the
// lexer about custom directives.
package directive

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Kind int

const (
	Unknown Kind = iota
	BlockStart
	BlockEnd
	Inline
	NonParametrized
	BlockAligned
)

var kindNames = map[Kind]string{
	Unknown:         "Unknown",
	BlockStart:      "BlockStart",
	BlockEnd:        "BlockEnd",
	Inline:          "Inline",
	NonParametrized: "NonParametrized",
	BlockAligned:    "BlockAligned",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

//go:embed directives.yaml
var defaultTable []byte

type tableFile struct {
	Blocks          map[string][]string `yaml:"blocks"`
	Raw             []string            `yaml:"raw"`
	Aligned         []string            `yaml:"aligned"`
	Inline          []string            `yaml:"inline"`
	NonParametrized []string            `yaml:"non_parametrized"`
	InlineWhenComma []string            `yaml:"inline_when_comma"`
}

// Table is immutable once built and safe for concurrent use.
type Table struct {
	blocks          map[string][]string
	ends            map[string]map[string]bool
	raw             map[string]bool
	aligned         map[string]bool
	inline          map[string]bool
	nonParametrized map[string]bool
	inlineWhenComma map[string]bool
}

var builtin *Table

func init() {
	t, err := parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("directive: embedded table: %v", err))
	}
	builtin = t
}

// Default returns the built-in table.
func Default() *Table {
	return builtin
}

func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read directive table: %w", err)
	}
	return parse(data)
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open directive table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func parse(data []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse directive table: %w", err)
	}
	t := newTable()
	t.add(&tf)
	return t, nil
}

func newTable() *Table {
	return &Table{
		blocks:          make(map[string][]string),
		ends:            make(map[string]map[string]bool),
		raw:             make(map[string]bool),
		aligned:         make(map[string]bool),
		inline:          make(map[string]bool),
		nonParametrized: make(map[string]bool),
		inlineWhenComma: make(map[string]bool),
	}
}

func (t *Table) add(tf *tableFile) {
	for start, ends := range tf.Blocks {
		for _, old := range t.blocks[start] {
			delete(t.ends[old], start)
			if len(t.ends[old]) == 0 {
				delete(t.ends, old)
			}
		}
		t.blocks[start] = append(make([]string, 0, len(ends)), ends...)
		for _, end := range ends {
			if t.ends[end] == nil {
				t.ends[end] = make(map[string]bool)
			}
			t.ends[end][start] = true
		}
	}
	for _, name := range tf.Raw {
		t.raw[name] = true
	}
	for _, name := range tf.Aligned {
		t.aligned[name] = true
	}
	for _, name := range tf.Inline {
		t.inline[name] = true
	}
	for _, name := range tf.NonParametrized {
		t.nonParametrized[name] = true
	}
	for _, name := range tf.InlineWhenComma {
		t.inlineWhenComma[name] = true
	}
}

// Merge returns a new table with the entries of other layered over t.
// A block listed in other replaces the closers t knows for it.
func (t *Table) Merge(other *Table) *Table {
	merged := newTable()
	merged.add(t.file())
	merged.add(other.file())
	return merged
}

func (t *Table) file() *tableFile {
	tf := &tableFile{Blocks: make(map[string][]string)}
	for start, ends := range t.blocks {
		tf.Blocks[start] = ends
	}
	tf.Raw = keys(t.raw)
	tf.Aligned = keys(t.aligned)
	tf.Inline = keys(t.inline)
	tf.NonParametrized = keys(t.nonParametrized)
	tf.InlineWhenComma = keys(t.inlineWhenComma)
	return tf
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup classifies name without looking at what follows it.
func (t *Table) Lookup(name string) Kind {
	switch {
	case t.blocks[name] != nil:
		return BlockStart
	case t.ends[name] != nil:
		return BlockEnd
	case t.aligned[name]:
		return BlockAligned
	case t.inline[name]:
		return Inline
	case t.nonParametrized[name]:
		return NonParametrized
	}
	return Unknown
}

// Classify resolves names whose role depends on an argument list following
// them: @empty($x) opens a block while a bare @empty inside @forelse is
// aligned, and @php(...) is a one-line statement instead of a raw block.
func (t *Table) Classify(name string, hasArgs bool) Kind {
	if hasArgs {
		if t.raw[name] {
			return Inline
		}
		if t.blocks[name] != nil {
			return BlockStart
		}
	} else if t.aligned[name] {
		return BlockAligned
	}
	return t.Lookup(name)
}

// AcceptsArgs reports whether a "(" following name belongs to the directive.
func (t *Table) AcceptsArgs(name string) bool {
	switch t.Lookup(name) {
	case NonParametrized, BlockEnd:
		return false
	case BlockAligned:
		return name != "else" && name != "default"
	}
	return true
}

func (t *Table) IsRaw(name string) bool {
	return t.raw[name]
}

func (t *Table) Ends(start string) []string {
	return t.blocks[start]
}

func (t *Table) IsEnd(start, end string) bool {
	return t.ends[end][start]
}

func (t *Table) InlineWhenComma(name string) bool {
	return t.inlineWhenComma[name]
}
