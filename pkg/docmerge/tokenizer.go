package docmerge

import (
	"regexp"
	"strings"
)

// TokenKind represents the type of a scanned token
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenVariable
	TokenIfOpen
	TokenIfClose
	TokenRepeatOpen
	TokenRepeatClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenVariable:
		return "variable"
	case TokenIfOpen:
		return "if"
	case TokenIfClose:
		return "end if"
	case TokenRepeatOpen:
		return "repeat"
	case TokenRepeatClose:
		return "end repeat"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a template. Start and End are byte offsets
// into the scanned input; Raw is input[Start:End].
type Token struct {
	Kind  TokenKind
	Name  string
	Label string
	Hint  string
	Start int
	End   int
	Raw   string
}

// directivePattern pairs a token kind with the expression recognising it.
// Declaration order breaks ties between matches starting at the same offset.
// Bodies never contain '<' or '>', so a directive split across markup runs
// stays literal text instead of swallowing the tags between its halves.
type directivePattern struct {
	kind TokenKind
	re   *regexp.Regexp
}

var directivePatterns = []directivePattern{
	{TokenVariable, regexp.MustCompile(`\{\{([^{}<>]*)\}\}`)},
	{TokenIfOpen, regexp.MustCompile(`\[\[\s*IF\s+([^\[\]<>]*?)\s*\]\]`)},
	{TokenIfClose, regexp.MustCompile(`\[\[\s*END\s+IF\s*\]\]`)},
	{TokenRepeatOpen, regexp.MustCompile(`\[\[\s*REPEAT\s+FOR\s+([^\[\]<>]*?)\s*\]\]`)},
	{TokenRepeatClose, regexp.MustCompile(`\[\[\s*END\s+REPEAT\s*\]\]`)},
}

// Scan splits input into a token stream. At each step the earliest match
// among all directive patterns wins; text between matches becomes TokenText.
func Scan(input string) []Token {
	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithField("input_length", len(input)).Debug("Starting directive scan")
	}

	// next[i] caches the next match of pattern i at or after the cursor,
	// with nil meaning the pattern no longer occurs.
	next := make([][]int, len(directivePatterns))
	for i, p := range directivePatterns {
		next[i] = p.re.FindStringSubmatchIndex(input)
	}

	var tokens []Token
	cursor := 0
	for {
		best := -1
		for i, p := range directivePatterns {
			if next[i] != nil && next[i][0] < cursor {
				next[i] = findFrom(p.re, input, cursor)
			}
			if next[i] == nil {
				continue
			}
			if best == -1 || next[i][0] < next[best][0] {
				best = i
			}
		}
		if best == -1 {
			break
		}

		loc := next[best]
		if loc[0] > cursor {
			tokens = appendToken(tokens, input, textToken(input, cursor, loc[0]))
		}
		tokens = appendToken(tokens, input, directiveToken(directivePatterns[best].kind, input, loc))
		cursor = loc[1]
	}

	if cursor < len(input) {
		tokens = appendToken(tokens, input, textToken(input, cursor, len(input)))
	}

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(tokens)).Debug("Directive scan complete")
	}

	return tokens
}

// findFrom returns the submatch index of re in input starting at offset,
// translated back to offsets in input.
func findFrom(re *regexp.Regexp, input string, offset int) []int {
	loc := re.FindStringSubmatchIndex(input[offset:])
	if loc == nil {
		return nil
	}
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += offset
		}
	}
	return loc
}

// appendToken adds tok to tokens, extending the last token instead when both
// are text, so literal text between directives is always one token.
func appendToken(tokens []Token, input string, tok Token) []Token {
	if n := len(tokens); n > 0 && tok.Kind == TokenText && tokens[n-1].Kind == TokenText {
		last := &tokens[n-1]
		last.End = tok.End
		last.Raw = input[last.Start:last.End]
		return tokens
	}
	return append(tokens, tok)
}

func textToken(input string, start, end int) Token {
	return Token{Kind: TokenText, Start: start, End: end, Raw: input[start:end]}
}

func directiveToken(kind TokenKind, input string, loc []int) Token {
	tok := Token{Kind: kind, Start: loc[0], End: loc[1], Raw: input[loc[0]:loc[1]]}

	switch kind {
	case TokenVariable, TokenIfOpen, TokenRepeatOpen:
		body := ""
		if len(loc) >= 4 && loc[2] >= 0 {
			body = input[loc[2]:loc[3]]
		}
		tok.Name, tok.Label, tok.Hint = parseDirectiveBody(body)
		if tok.Name == "" && kind == TokenVariable {
			// {{}} or {{ , label: x }} carries no name; keep it as literal text
			tok.Kind = TokenText
		}
	}

	return tok
}

// parseDirectiveBody splits "name, label: text, hint: text" into its parts.
// Unknown attributes are ignored.
func parseDirectiveBody(body string) (name, label, hint string) {
	parts := strings.Split(body, ",")
	name = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "label":
			label = strings.TrimSpace(value)
		case "hint":
			hint = strings.TrimSpace(value)
		}
	}

	return name, label, hint
}

// FindDirectives returns the raw text of every directive in input.
// This is a utility function for debugging and analysis
func FindDirectives(input string) []string {
	found := []string{}
	for _, tok := range Scan(input) {
		if tok.Kind != TokenText {
			found = append(found, tok.Raw)
		}
	}
	return found
}
