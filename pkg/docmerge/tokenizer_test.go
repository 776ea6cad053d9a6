package docmerge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ignoreOffsets compares tokens by kind and content only
var ignoreOffsets = cmpopts.IgnoreFields(Token{}, "Start", "End")

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "plain text",
			input: "Hello World",
			want: []Token{
				{Kind: TokenText, Raw: "Hello World"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "simple variable",
			input: "Hello {{name}}!",
			want: []Token{
				{Kind: TokenText, Raw: "Hello "},
				{Kind: TokenVariable, Name: "name", Raw: "{{name}}"},
				{Kind: TokenText, Raw: "!"},
			},
		},
		{
			name:  "variable with spaces, label and hint",
			input: "{{ client_name , label: Client name, hint: As on the ID }}",
			want: []Token{
				{Kind: TokenVariable, Name: "client_name", Label: "Client name", Hint: "As on the ID", Raw: "{{ client_name , label: Client name, hint: As on the ID }}"},
			},
		},
		{
			name:  "unknown attributes are ignored",
			input: "{{x, color: red, label: X}}",
			want: []Token{
				{Kind: TokenVariable, Name: "x", Label: "X", Raw: "{{x, color: red, label: X}}"},
			},
		},
		{
			name:  "conditional",
			input: "[[IF is_company]]Ltd[[END IF]]",
			want: []Token{
				{Kind: TokenIfOpen, Name: "is_company", Raw: "[[IF is_company]]"},
				{Kind: TokenText, Raw: "Ltd"},
				{Kind: TokenIfClose, Raw: "[[END IF]]"},
			},
		},
		{
			name:  "conditional with label and whitespace",
			input: "[[ IF   vip , label: VIP client ]]x[[ END   IF ]]",
			want: []Token{
				{Kind: TokenIfOpen, Name: "vip", Label: "VIP client", Raw: "[[ IF   vip , label: VIP client ]]"},
				{Kind: TokenText, Raw: "x"},
				{Kind: TokenIfClose, Raw: "[[ END   IF ]]"},
			},
		},
		{
			name:  "repeat",
			input: "[[REPEAT FOR items]]{{title}}[[END REPEAT]]",
			want: []Token{
				{Kind: TokenRepeatOpen, Name: "items", Raw: "[[REPEAT FOR items]]"},
				{Kind: TokenVariable, Name: "title", Raw: "{{title}}"},
				{Kind: TokenRepeatClose, Raw: "[[END REPEAT]]"},
			},
		},
		{
			name:  "leftmost match wins across patterns",
			input: "a[[END IF]]b{{x}}c[[IF y]]",
			want: []Token{
				{Kind: TokenText, Raw: "a"},
				{Kind: TokenIfClose, Raw: "[[END IF]]"},
				{Kind: TokenText, Raw: "b"},
				{Kind: TokenVariable, Name: "x", Raw: "{{x}}"},
				{Kind: TokenText, Raw: "c"},
				{Kind: TokenIfOpen, Name: "y", Raw: "[[IF y]]"},
			},
		},
		{
			name:  "empty variable joins surrounding text",
			input: "a{{}}b{{  }}c",
			want: []Token{
				{Kind: TokenText, Raw: "a{{}}b{{  }}c"},
			},
		},
		{
			name:  "nameless variable between directives",
			input: "{{x}}{{ , label: L }}{{y}}",
			want: []Token{
				{Kind: TokenVariable, Name: "x", Raw: "{{x}}"},
				{Kind: TokenText, Raw: "{{ , label: L }}"},
				{Kind: TokenVariable, Name: "y", Raw: "{{y}}"},
			},
		},
		{
			name:  "lowercase keywords are text",
			input: "[[if x]]",
			want: []Token{
				{Kind: TokenText, Raw: "[[if x]]"},
			},
		},
		{
			name:  "unterminated directive is text",
			input: "{{name and [[IF x",
			want: []Token{
				{Kind: TokenText, Raw: "{{name and [[IF x"},
			},
		},
		{
			name:  "extra opening brace stays in text",
			input: "{{{name}}}",
			want: []Token{
				{Kind: TokenText, Raw: "{"},
				{Kind: TokenVariable, Name: "name", Raw: "{{name}}"},
				{Kind: TokenText, Raw: "}"},
			},
		},
		{
			name:  "directive split by markup is text",
			input: "{{client_</w:t><w:t>name}} [[IF a</w:t><w:t>]]",
			want: []Token{
				{Kind: TokenText, Raw: "{{client_</w:t><w:t>name}} [[IF a</w:t><w:t>]]"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.input)
			if diff := cmp.Diff(tt.want, got, ignoreOffsets); diff != "" {
				t.Errorf("Scan(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestScanOffsets(t *testing.T) {
	input := "Hi {{name}}, {{}} [[IF x]]y[[END IF]]"
	tokens := Scan(input)

	pos := 0
	for i, tok := range tokens {
		if tok.Start != pos {
			t.Errorf("token %d starts at %d, want %d", i, tok.Start, pos)
		}
		if input[tok.Start:tok.End] != tok.Raw {
			t.Errorf("token %d: Raw %q does not match input slice %q", i, tok.Raw, input[tok.Start:tok.End])
		}
		pos = tok.End
	}
	if pos != len(input) {
		t.Errorf("tokens cover %d bytes, want %d", pos, len(input))
	}
}

func TestParseDirectiveBody(t *testing.T) {
	tests := []struct {
		body  string
		name  string
		label string
		hint  string
	}{
		{"name", "name", "", ""},
		{"  name  ", "name", "", ""},
		{"name, label: Full Name", "name", "Full Name", ""},
		{"name, hint: e.g. Alice", "name", "", "e.g. Alice"},
		{"name,label:A,hint:B", "name", "A", "B"},
		{"name, label: Time: noon", "name", "Time: noon", ""},
		{"name, dangling", "name", "", ""},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			name, label, hint := parseDirectiveBody(tt.body)
			if name != tt.name || label != tt.label || hint != tt.hint {
				t.Errorf("parseDirectiveBody(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.body, name, label, hint, tt.name, tt.label, tt.hint)
			}
		})
	}
}

func TestFindDirectives(t *testing.T) {
	got := FindDirectives("a {{x}} b [[IF y]]c[[END IF]] {{}}")
	want := []string{"{{x}}", "[[IF y]]", "[[END IF]]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindDirectives mismatch (-want +got):\n%s", diff)
	}
}
