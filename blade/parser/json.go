package parser

import "github.com/goccy/go-json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    *jsonToken  `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToJSON(true))
}

// ToJSON returns a JSON-friendly view of n. Spans are omitted unless
// withPositions is set.
func (n *Node) ToJSON(withPositions bool) any {
	return n.toJSON(withPositions)
}

func (n *Node) toJSON(withPositions bool) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
	}

	if withPositions {
		span := toJSONSpan(n.Span)
		jn.Span = &span
	}

	if n.Token != nil {
		jn.Token = &jsonToken{Kind: n.Token.Kind.String(), Literal: n.Token.Literal}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON(withPositions)
		}
	}

	return jn
}

func toJSONSpan(s Span) jsonSpan {
	return jsonSpan{
		Start: jsonPosition{Offset: s.Start.Offset, Line: s.Start.Line, Column: s.Start.Column},
		End:   jsonPosition{Offset: s.End.Offset, Line: s.End.Line, Column: s.End.Column},
	}
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string   `json:"kind"`
		Literal string   `json:"literal"`
		Span    jsonSpan `json:"span"`
	}{t.Kind.String(), t.Literal, toJSONSpan(t.Span)})
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string   `json:"kind"`
		Message string   `json:"message"`
		Span    jsonSpan `json:"span"`
	}{d.Kind.String(), d.Message, toJSONSpan(d.Span)})
}
