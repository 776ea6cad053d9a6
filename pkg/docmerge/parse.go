package docmerge

// frameContext says what kind of directive opened a frame
type frameContext int

const (
	frameRoot frameContext = iota
	frameConditional
	frameRepeating
)

// frame accumulates the children of one open directive
type frame struct {
	context  frameContext
	open     Token
	children []Element
}

func (f *frame) element() Element {
	switch f.context {
	case frameConditional:
		return &Conditional{ID: newElementID(), Name: f.open.Name, Label: f.open.Label, Children: f.children}
	case frameRepeating:
		return &RepeatingGroup{ID: newElementID(), Name: f.open.Name, Label: f.open.Label, Children: f.children}
	default:
		return nil
	}
}

// Tokenize parses a template string into an element tree using the default
// engine. Every call assigns fresh element identifiers.
func Tokenize(input string) ([]Element, error) {
	return defaultEngine.Tokenize(input)
}

// Build assembles an element tree from tokens produced by Scan(input). input
// is only used to report line and column of structural errors.
func Build(input string, tokens []Token) ([]Element, error) {
	stack := []*frame{{context: frameRoot}}

	for _, tok := range tokens {
		top := stack[len(stack)-1]

		switch tok.Kind {
		case TokenText:
			top.children = append(top.children, &PlainText{ID: newElementID(), Content: tok.Raw})

		case TokenVariable:
			top.children = append(top.children, &Variable{
				ID:    newElementID(),
				Name:  tok.Name,
				Label: tok.Label,
				Hint:  tok.Hint,
				Type:  InferFieldType(tok.Name),
			})

		case TokenIfOpen:
			stack = append(stack, &frame{context: frameConditional, open: tok})

		case TokenRepeatOpen:
			stack = append(stack, &frame{context: frameRepeating, open: tok})

		case TokenIfClose, TokenRepeatClose:
			if len(stack) == 1 {
				return nil, newStructuralError(UnexpectedClose, input, tok)
			}
			if top.context != closes(tok.Kind) {
				return nil, newStructuralError(MismatchedClose, input, tok)
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, top.element())
		}
	}

	if len(stack) > 1 {
		return nil, newStructuralError(UnmatchedOpen, input, stack[len(stack)-1].open)
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithFields(Fields{
			"token_count":   len(tokens),
			"element_count": len(stack[0].children),
		}).Debug("Element tree built")
	}

	return stack[0].children, nil
}

// closes maps a close token to the frame context it is allowed to pop
func closes(kind TokenKind) frameContext {
	if kind == TokenIfClose {
		return frameConditional
	}
	return frameRepeating
}
