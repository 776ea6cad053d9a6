package docmerge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FieldType is the presentation hint inferred from a variable name. It never
// changes how a template is parsed or merged.
type FieldType int

const (
	FieldText FieldType = iota
	FieldBoolean
	FieldDate
)

func (t FieldType) String() string {
	switch t {
	case FieldBoolean:
		return "boolean"
	case FieldDate:
		return "date"
	default:
		return "text"
	}
}

// InferFieldType guesses a control type from a directive name:
// is_/has_/flag_ prefixes are booleans, names mentioning "date" are dates.
func InferFieldType(name string) FieldType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "is_"), strings.HasPrefix(lower, "has_"), strings.HasPrefix(lower, "flag_"):
		return FieldBoolean
	case strings.HasSuffix(lower, "_date"), strings.Contains(lower, "date"):
		return FieldDate
	default:
		return FieldText
	}
}

// ElementKind identifies the concrete type behind an Element
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementVariable
	ElementConditional
	ElementRepeatingGroup
)

func (k ElementKind) String() string {
	switch k {
	case ElementText:
		return "text"
	case ElementVariable:
		return "variable"
	case ElementConditional:
		return "conditional"
	case ElementRepeatingGroup:
		return "repeat"
	default:
		return "unknown"
	}
}

// Element is a node of a parsed template. Implementations are *PlainText,
// *Variable, *Conditional and *RepeatingGroup.
type Element interface {
	ElementID() string
	Kind() ElementKind
	String() string
}

// PlainText is literal template text, emitted verbatim.
type PlainText struct {
	ID      string
	Content string
}

func (e *PlainText) ElementID() string { return e.ID }
func (e *PlainText) Kind() ElementKind { return ElementText }
func (e *PlainText) String() string    { return fmt.Sprintf("Text(%q)", e.Content) }

// Variable is a {{name}} placeholder.
type Variable struct {
	ID    string
	Name  string
	Label string
	Hint  string
	Type  FieldType
}

func (e *Variable) ElementID() string { return e.ID }
func (e *Variable) Kind() ElementKind { return ElementVariable }
func (e *Variable) String() string    { return fmt.Sprintf("Variable(%s)", e.Name) }

// Conditional is an [[IF name]] block.
type Conditional struct {
	ID       string
	Name     string
	Label    string
	Children []Element
}

func (e *Conditional) ElementID() string { return e.ID }
func (e *Conditional) Kind() ElementKind { return ElementConditional }
func (e *Conditional) String() string    { return fmt.Sprintf("If(%s)", e.Name) }

// RepeatingGroup is a [[REPEAT FOR name]] block; its children resolve
// against each row rather than the enclosing scope.
type RepeatingGroup struct {
	ID       string
	Name     string
	Label    string
	Children []Element
}

func (e *RepeatingGroup) ElementID() string { return e.ID }
func (e *RepeatingGroup) Kind() ElementKind { return ElementRepeatingGroup }
func (e *RepeatingGroup) String() string    { return fmt.Sprintf("Repeat(%s)", e.Name) }

func newElementID() string {
	return uuid.NewString()
}

// Children returns the nested elements of a block, or nil for leaves.
func Children(el Element) []Element {
	switch e := el.(type) {
	case *Conditional:
		return e.Children
	case *RepeatingGroup:
		return e.Children
	default:
		return nil
	}
}

// Walk visits elements depth-first in document order. depth is 0 for the
// elements passed in. Returning false from fn skips that element's children.
func Walk(elements []Element, fn func(el Element, depth int) bool) {
	walk(elements, 0, fn)
}

func walk(elements []Element, depth int, fn func(Element, int) bool) {
	for _, el := range elements {
		if !fn(el, depth) {
			continue
		}
		if kids := Children(el); len(kids) > 0 {
			walk(kids, depth+1, fn)
		}
	}
}

// Names returns the distinct directive names in elements, in first-seen order.
func Names(elements []Element) []string {
	seen := make(map[string]bool)
	var names []string
	Walk(elements, func(el Element, _ int) bool {
		var name string
		switch e := el.(type) {
		case *Variable:
			name = e.Name
		case *Conditional:
			name = e.Name
		case *RepeatingGroup:
			name = e.Name
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return true
	})
	return names
}

// Dump renders an indented outline of the tree, one element per line.
func Dump(elements []Element) string {
	var b strings.Builder
	Walk(elements, func(el Element, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(el.String())
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
