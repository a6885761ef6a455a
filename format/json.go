package format

import (
	"io"

	"github.com/goccy/go-json"
)

// TokenJSONEncoder writes tokens as a JSON array.
type TokenJSONEncoder struct {
	w     io.Writer
	modes bool
}

func NewTokenJSONEncoder(w io.Writer, modes bool) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w, modes: modes}
}

type jsonTokenRecord struct {
	Kind    string            `json:"kind"`
	Literal string            `json:"literal"`
	Start   jsonTokenPosition `json:"start"`
	End     jsonTokenPosition `json:"end"`
	Mode    string            `json:"mode,omitempty"`
	Depth   *int              `json:"depth,omitempty"`
}

type jsonTokenPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *TokenJSONEncoder) EncodeTokens(records []TokenRecord) error {
	text, err := e.MarshalText(records)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *TokenJSONEncoder) MarshalText(records []TokenRecord) ([]byte, error) {
	out := make([]jsonTokenRecord, 0, len(records))
	for _, r := range records {
		tok := r.Token
		jr := jsonTokenRecord{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
			Start:   jsonTokenPosition{Offset: tok.Span.Start.Offset, Line: tok.Span.Start.Line, Column: tok.Span.Start.Column},
			End:     jsonTokenPosition{Offset: tok.Span.End.Offset, Line: tok.Span.End.Line, Column: tok.Span.End.Column},
		}
		if e.modes {
			depth := r.Depth
			jr.Mode = r.Mode.String()
			jr.Depth = &depth
		}
		out = append(out, jr)
	}
	return json.MarshalIndent(out, "", "  ")
}
