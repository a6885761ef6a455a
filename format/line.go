package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LineEncoder writes one token per line:
//
//	line:col	KIND	"literal"	[mode depth]
type LineEncoder struct {
	w     io.Writer
	modes bool
}

func NewLineEncoder(w io.Writer, modes bool) *LineEncoder {
	return &LineEncoder{w: w, modes: modes}
}

func (e *LineEncoder) EncodeTokens(records []TokenRecord) error {
	text, err := e.MarshalText(records)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(records []TokenRecord) ([]byte, error) {
	var sb strings.Builder
	for _, r := range records {
		tok := r.Token
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind, strconv.Quote(tok.Literal))
		if e.modes {
			fmt.Fprintf(&sb, "\t%s\t%d", r.Mode, r.Depth)
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
