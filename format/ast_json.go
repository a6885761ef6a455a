package format

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/dhamidi/bladefmt/blade/parser"
)

type ASTJSONEncoder struct {
	w         io.Writer
	positions bool
}

func NewASTJSONEncoder(w io.Writer, positions bool) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, positions: positions}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(node.ToJSON(e.positions), "", "  ")
}

// TreeEncoder writes the indented text dump of a tree.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text := node.String()
	if e.positions {
		text = node.StringWithPositions()
	}
	_, err := io.WriteString(e.w, text)
	return err
}
