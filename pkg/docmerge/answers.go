package docmerge

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// timestampLayouts are tried in order when a scalar resolves to !!timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseAnswers decodes a YAML (or JSON) mapping into an AnswerMap. Lists of
// mappings become row lists for repeating groups.
func ParseAnswers(data []byte) (AnswerMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}

	if doc.Kind == 0 {
		return AnswerMap{}, nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return AnswerMap{}, nil
		}
		root = root.Content[0]
	}

	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return AnswerMap{}, nil
	}

	return decodeAnswerMap(root)
}

// LoadAnswersFile reads and parses an answer file
func LoadAnswersFile(path string) (AnswerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	answers, err := ParseAnswers(data)
	if err != nil {
		return nil, WithContext(err, "loading answers", map[string]interface{}{"path": path})
	}
	return answers, nil
}

func decodeAnswerMap(node *yaml.Node) (AnswerMap, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: answers must be a mapping", node.Line)
	}

	answers := make(AnswerMap, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		value, err := decodeValue(valueNode)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", keyNode.Value, err)
		}
		answers[keyNode.Value] = value
	}
	return answers, nil
}

func decodeValue(node *yaml.Node) (Value, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)

	case yaml.SequenceNode:
		rows := make([]AnswerMap, 0, len(node.Content))
		for i, item := range node.Content {
			row, err := decodeAnswerMap(item)
			if err != nil {
				return Value{}, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return Rows(rows...), nil

	case yaml.MappingNode:
		row, err := decodeAnswerMap(node)
		if err != nil {
			return Value{}, err
		}
		return Rows(row), nil

	default:
		return Value{}, fmt.Errorf("line %d: unsupported value", node.Line)
	}
}

func decodeScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Absent(), nil

	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil

	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			n, perr := strconv.ParseFloat(node.Value, 64)
			if perr != nil {
				return Value{}, err
			}
			f = n
		}
		return Number(f), nil

	case "!!timestamp":
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, node.Value); err == nil {
				return Date(t), nil
			}
		}
		return Text(node.Value), nil

	default:
		return Text(node.Value), nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
