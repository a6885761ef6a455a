package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/bladefmt/blade/directive"
	"github.com/dhamidi/bladefmt/blade/parser"
)

func TestSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "nested tags and blocks",
			input: `<div>
<p>Hello</p>
@if($a)
<span>{{ $a }}</span>
@else
<b>no</b>
@endif
</div>`,
			want: `<div>
    <p>Hello</p>
    @if($a)
        <span>{{ $a }}</span>
    @else
        <b>no</b>
    @endif
</div>`,
		},
		{
			name:  "trailing whitespace and blank lines",
			input: "<ul>  \n\n   <li>a</li>   \n</ul>\n",
			want:  "<ul>\n\n    <li>a</li>\n</ul>\n",
		},
		{
			name:  "same line open and close",
			input: "<div><span>x</span></div>\n<p>y</p>",
			want:  "<div><span>x</span></div>\n<p>y</p>",
		},
		{
			name: "switch cases sit at switch level",
			input: `@switch($i)
@case(1)
One
@break
@default
Other
@endswitch`,
			want: `@switch($i)
@case(1)
    One
    @break
@default
    Other
@endswitch`,
		},
		{
			name: "attribute continuation lines",
			input: `<input
type="text"
      name="q">`,
			want: `<input
    type="text"
    name="q">`,
		},
		{
			name:  "section block and inline section",
			input: "@section('content')\n<h1>Hi</h1>\n@endsection\n@section('title', 'Home')\n",
			want:  "@section('content')\n    <h1>Hi</h1>\n@endsection\n@section('title', 'Home')\n",
		},
		{
			name:  "verbatim body is untouched",
			input: "<div>\n@verbatim\n  {{ raw }}\n@endverbatim\n</div>",
			want:  "<div>\n    @verbatim\n  {{ raw }}\n@endverbatim\n</div>",
		},
		{
			name:  "php block body is untouched",
			input: "<div>\n  @php\n$x = 1;\n  @endphp\n</div>",
			want:  "<div>\n    @php\n$x = 1;\n  @endphp\n</div>",
		},
		{
			name:  "void elements do not indent",
			input: "<br>\n<img src=\"a.png\">\n<p>x</p>",
			want:  "<br>\n<img src=\"a.png\">\n<p>x</p>",
		},
		{
			name:  "unclosed element inside closed parent",
			input: "<div>\n<p>one\n</div>\nafter",
			want:  "<div>\n    <p>one\n</div>\nafter",
		},
		{
			name:  "crlf line endings are kept",
			input: "@if($a)\r\nx\r\n@endif\r\n",
			want:  "@if($a)\r\n    x\r\n@endif\r\n",
		},
		{
			name:  "multi-line echo is copied",
			input: "<p>\n{{ $a\n   ->b }}\n</p>",
			want:  "<p>\n    {{ $a\n   ->b }}\n</p>",
		},
		{
			name:  "pre body keeps its whitespace",
			input: "<div>\n<pre>\n  keep\n    this\n  {{ $a }}\n</pre>\n</div>",
			want:  "<div>\n    <pre>\n  keep\n    this\n  {{ $a }}\n</pre>\n</div>",
		},
		{
			name:  "textarea body keeps its whitespace",
			input: "<form>\n<textarea name=\"b\">\n  line\n</textarea>\n</form>\n",
			want:  "<form>\n    <textarea name=\"b\">\n  line\n</textarea>\n</form>\n",
		},
		{
			name:  "at sign inside attribute value",
			input: "<div>\n<span title=\"@admin (owner\">x</span>\n<p>after</p>\n</div>",
			want:  "<div>\n    <span title=\"@admin (owner\">x</span>\n    <p>after</p>\n</div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Source([]byte(tt.input), Options{})
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Source() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceIsIdempotent(t *testing.T) {
	inputs := []string{
		"<div>\n<p>Hello</p>\n@if($a)\n<span>{{ $a }}</span>\n@else\n<b>no</b>\n@endif\n</div>\n",
		"@foreach($xs as $x)\n  @if($x)\n{{ $x }}\n    @endif\n@endforeach\n",
		"<div\n class=\"a\"\n @click=\"go\">\n{{-- note\n  still note --}}\n</div>\n",
		"@if($a)\n<p>unterminated\n",
		"@push('scripts')\n<script>\nif (a < b) { go(); }\n</script>\n@endpush\n",
	}
	for _, input := range inputs {
		once, _ := Source([]byte(input), Options{})
		twice, _ := Source(once, Options{})
		if diff := cmp.Diff(string(once), string(twice)); diff != "" {
			t.Errorf("formatting %q is not idempotent (-first +second):\n%s", input, diff)
		}
	}
}

func TestSourceIndentOptions(t *testing.T) {
	input := "@foreach($xs as $x)\n{{ $x }}\n@endforeach"

	got, _ := Source([]byte(input), Options{Tabs: true})
	if want := "@foreach($xs as $x)\n\t{{ $x }}\n@endforeach"; string(got) != want {
		t.Errorf("tabs: got %q, want %q", got, want)
	}

	got, _ = Source([]byte(input), Options{IndentSize: 2})
	if want := "@foreach($xs as $x)\n  {{ $x }}\n@endforeach"; string(got) != want {
		t.Errorf("indent 2: got %q, want %q", got, want)
	}
}

func TestSourceReportsDiagnostics(t *testing.T) {
	got, diags := Source([]byte("@if($a)\n<p>x</p>"), Options{File: "a.blade.php"})
	if want := "@if($a)\n    <p>x</p>"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(diags) != 1 || diags[0].Kind != parser.DiagMissingEnd {
		t.Fatalf("diagnostics = %v, want one missing-end", diags)
	}
	if diags[0].Span.Start.File != "a.blade.php" {
		t.Errorf("diagnostic file = %q", diags[0].Span.Start.File)
	}
}

func TestSourceCustomDirectives(t *testing.T) {
	custom, err := directive.Load(strings.NewReader("blocks:\n  markdown: [endmarkdown]\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	table := directive.Default().Merge(custom)

	input := "@markdown\n# Title\n@endmarkdown"
	got, diags := Source([]byte(input), Options{Directives: table})
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	if want := "@markdown\n    # Title\n@endmarkdown"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatterEncodeReuse(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, Options{})

	first, _ := parser.Parse([]byte("@if($a)\nx\n"))
	second, _ := parser.Parse([]byte("<p>\ny\n</p>"))
	if err := f.Encode(first); err != nil {
		t.Fatal(err)
	}
	if err := f.Encode(second); err != nil {
		t.Fatal(err)
	}
	if want := "@if($a)\n    x\n<p>\n    y\n</p>"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
