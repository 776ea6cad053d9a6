package docmerge

import (
	"strings"
)

// Render merges answers into input without building an element tree.
// Missing answers are not errors: variables render empty, conditionals are
// false and repeats produce no rows. Malformed nesting fails with a
// *StructuralError exactly as Tokenize would. It uses the default engine.
func Render(input string, answers AnswerMap) (string, error) {
	return defaultEngine.Render(input, answers)
}

func renderTokens(input string, tokens []Token, answers AnswerMap) (string, error) {
	closing, err := matchBlocks(input, tokens)
	if err != nil {
		return "", err
	}

	r := &textRenderer{tokens: tokens, closing: closing}
	var b strings.Builder
	b.Grow(len(input))
	r.render(&b, 0, len(tokens), answers)

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithFields(Fields{
			"input_length":  len(input),
			"output_length": b.Len(),
			"token_count":   len(tokens),
		}).Debug("Rendered template")
	}

	return b.String(), nil
}

// matchBlocks pairs every open directive with its close. closing[i] holds the
// index of the token closing tokens[i], or -1 for tokens that open nothing.
func matchBlocks(input string, tokens []Token) ([]int, error) {
	closing := make([]int, len(tokens))
	var open []int

	for i, tok := range tokens {
		closing[i] = -1

		switch tok.Kind {
		case TokenIfOpen, TokenRepeatOpen:
			open = append(open, i)

		case TokenIfClose, TokenRepeatClose:
			if len(open) == 0 {
				return nil, newStructuralError(UnexpectedClose, input, tok)
			}
			top := open[len(open)-1]
			if !pairs(tokens[top].Kind, tok.Kind) {
				return nil, newStructuralError(MismatchedClose, input, tok)
			}
			open = open[:len(open)-1]
			closing[top] = i
		}
	}

	if len(open) > 0 {
		return nil, newStructuralError(UnmatchedOpen, input, tokens[open[len(open)-1]])
	}

	return closing, nil
}

func pairs(open, closer TokenKind) bool {
	return (open == TokenIfOpen && closer == TokenIfClose) ||
		(open == TokenRepeatOpen && closer == TokenRepeatClose)
}

// textRenderer evaluates a token range. The body of a block spans the tokens
// strictly between its open and close, so recursion always shrinks.
type textRenderer struct {
	tokens  []Token
	closing []int
}

func (r *textRenderer) render(b *strings.Builder, lo, hi int, answers AnswerMap) {
	for i := lo; i < hi; i++ {
		tok := r.tokens[i]

		switch tok.Kind {
		case TokenText:
			b.WriteString(tok.Raw)

		case TokenVariable:
			b.WriteString(Escape(answers.Lookup(tok.Name).String()))

		case TokenIfOpen:
			end := r.closing[i]
			if answers.Lookup(tok.Name).Truthy() {
				r.render(b, i+1, end, answers)
			}
			i = end

		case TokenRepeatOpen:
			end := r.closing[i]
			for _, row := range answers.Lookup(tok.Name).RowList() {
				r.render(b, i+1, end, row)
			}
			i = end
		}
	}
}

// RenderElements merges answers into an already built tree. The output is
// identical to calling Render on the text the tree was built from.
func RenderElements(elements []Element, answers AnswerMap) string {
	var b strings.Builder
	renderElements(&b, elements, answers)
	return b.String()
}

func renderElements(b *strings.Builder, elements []Element, answers AnswerMap) {
	for _, el := range elements {
		switch e := el.(type) {
		case *PlainText:
			b.WriteString(e.Content)

		case *Variable:
			b.WriteString(Escape(answers.Lookup(e.Name).String()))

		case *Conditional:
			if answers.Lookup(e.Name).Truthy() {
				renderElements(b, e.Children, answers)
			}

		case *RepeatingGroup:
			for _, row := range answers.Lookup(e.Name).RowList() {
				renderElements(b, e.Children, row)
			}
		}
	}
}
