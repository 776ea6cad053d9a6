// Package form turns a parsed template into a description of the input form
// that collects its answers, and turns submitted form values back into an
// answer set.
//
// One field is produced per distinct name in each answer scope. Conditionals
// share the scope of their parent, so a variable used both inside and
// outside an [[IF]] block yields a single field. Repeating groups open a new
// scope per row.
package form

import (
	"github.com/benjaminschreck/go-docmerge/pkg/docmerge"
)

// Control is the kind of input a field renders as
type Control int

const (
	ControlText Control = iota
	ControlCheckbox
	ControlDate
	ControlToggle
	ControlRepeat
)

func (c Control) String() string {
	switch c {
	case ControlText:
		return "text"
	case ControlCheckbox:
		return "checkbox"
	case ControlDate:
		return "date"
	case ControlToggle:
		return "toggle"
	case ControlRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Field describes one form input. Toggle and repeat fields carry the fields
// of their block in Children.
type Field struct {
	ID       string
	Name     string
	Label    string
	Hint     string
	Control  Control
	Children []Field
}

// Build derives form fields from a template tree in reading order.
func Build(elements []docmerge.Element) []Field {
	root := &fieldList{seen: make(map[string]*node)}
	root.add(elements)
	return root.fields()
}

// node is a field under construction; children stay addressable so later
// occurrences of a block can extend an earlier one.
type node struct {
	field    Field
	children *fieldList
}

type fieldList struct {
	nodes []*node
	seen  map[string]*node // shared by every list in one answer scope
}

func (l *fieldList) add(elements []docmerge.Element) {
	for _, el := range elements {
		switch e := el.(type) {
		case *docmerge.Variable:
			if _, dup := l.seen[e.Name]; dup {
				continue
			}
			n := &node{field: Field{
				ID:      e.ID,
				Name:    e.Name,
				Label:   labelOr(e.Label, e.Name),
				Hint:    e.Hint,
				Control: variableControl(e.Type),
			}}
			l.seen[e.Name] = n
			l.nodes = append(l.nodes, n)

		case *docmerge.Conditional:
			n, ok := l.seen[e.Name]
			if !ok {
				n = &node{
					field: Field{
						ID:      e.ID,
						Name:    e.Name,
						Label:   labelOr(e.Label, e.Name),
						Control: ControlToggle,
					},
					children: &fieldList{seen: l.seen},
				}
				l.seen[e.Name] = n
				l.nodes = append(l.nodes, n)
			}
			if n.children != nil && n.field.Control == ControlToggle {
				n.children.add(e.Children)
			} else {
				l.add(e.Children)
			}

		case *docmerge.RepeatingGroup:
			n, ok := l.seen[e.Name]
			if !ok {
				n = &node{
					field: Field{
						ID:      e.ID,
						Name:    e.Name,
						Label:   labelOr(e.Label, e.Name),
						Control: ControlRepeat,
					},
					children: &fieldList{seen: make(map[string]*node)},
				}
				l.seen[e.Name] = n
				l.nodes = append(l.nodes, n)
			}
			if n.children != nil && n.field.Control == ControlRepeat {
				n.children.add(e.Children)
			} else {
				// name already taken by a non-repeat field in this scope
				l.add(e.Children)
			}
		}
	}
}

func (l *fieldList) fields() []Field {
	if len(l.nodes) == 0 {
		return nil
	}
	out := make([]Field, 0, len(l.nodes))
	for _, n := range l.nodes {
		f := n.field
		if n.children != nil {
			f.Children = n.children.fields()
		}
		out = append(out, f)
	}
	return out
}

func variableControl(t docmerge.FieldType) Control {
	switch t {
	case docmerge.FieldBoolean:
		return ControlCheckbox
	case docmerge.FieldDate:
		return ControlDate
	default:
		return ControlText
	}
}

func labelOr(label, name string) string {
	if label != "" {
		return label
	}
	return DefaultLabel(name)
}

// Walk visits fields depth-first; depth is 0 for the fields passed in.
func Walk(fields []Field, fn func(f Field, depth int)) {
	walk(fields, 0, fn)
}

func walk(fields []Field, depth int, fn func(Field, int)) {
	for _, f := range fields {
		fn(f, depth)
		walk(f.Children, depth+1, fn)
	}
}
