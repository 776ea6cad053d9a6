package form

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/benjaminschreck/go-docmerge/pkg/docmerge"
)

// DateLayout is the wire format of date inputs
const DateLayout = "2006-01-02"

// Collect converts submitted form values into an answer set. Top level
// inputs use the field name as key; rows of a repeating field use
// "group[index].name", ordered by index. Checkboxes and toggles absent from
// the submission are false. Malformed dates are reported together as a
// *docmerge.ValidationError.
func Collect(fields []Field, values url.Values) (docmerge.AnswerMap, error) {
	issues := &docmerge.ValidationError{}
	answers := collect(fields, "", values, issues)
	if err := issues.Err(); err != nil {
		return nil, err
	}
	return answers, nil
}

func collect(fields []Field, prefix string, values url.Values, issues *docmerge.ValidationError) docmerge.AnswerMap {
	answers := make(docmerge.AnswerMap)
	collectInto(answers, fields, prefix, values, issues)
	return answers
}

func collectInto(answers docmerge.AnswerMap, fields []Field, prefix string, values url.Values, issues *docmerge.ValidationError) {
	for _, f := range fields {
		key := prefix + f.Name

		switch f.Control {
		case ControlText:
			if _, ok := values[key]; ok {
				answers[f.Name] = docmerge.Text(values.Get(key))
			}

		case ControlCheckbox:
			answers[f.Name] = docmerge.Bool(parseCheckbox(values.Get(key)))

		case ControlDate:
			raw := strings.TrimSpace(values.Get(key))
			if raw == "" {
				continue
			}
			t, err := time.Parse(DateLayout, raw)
			if err != nil {
				issues.Add(key, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
				continue
			}
			answers[f.Name] = docmerge.Date(t)

		case ControlToggle:
			answers[f.Name] = docmerge.Bool(parseCheckbox(values.Get(key)))
			collectInto(answers, f.Children, prefix, values, issues)

		case ControlRepeat:
			indices := rowIndices(values, key)
			rows := make([]docmerge.AnswerMap, 0, len(indices))
			for _, idx := range indices {
				rows = append(rows, collect(f.Children, RowPrefix(key, idx), values, issues))
			}
			answers[f.Name] = docmerge.Rows(rows...)
		}
	}
}

// RowPrefix returns the key prefix for row idx of a repeating field.
func RowPrefix(key string, idx int) string {
	return fmt.Sprintf("%s[%d].", key, idx)
}

var rowIndexRegex = regexp.MustCompile(`^\[(\d+)\]\.`)

// rowIndices returns the distinct row indices submitted under key, ascending.
func rowIndices(values url.Values, key string) []int {
	seen := make(map[int]bool)
	for name := range values {
		if !strings.HasPrefix(name, key+"[") {
			continue
		}
		m := rowIndexRegex.FindStringSubmatch(name[len(key):])
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seen[idx] = true
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

func parseCheckbox(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Values encodes answers as form values, the inverse of Collect. It is used
// to prefill a form from an existing answer set.
func Values(fields []Field, answers docmerge.AnswerMap) url.Values {
	values := make(url.Values)
	encode(values, fields, "", answers)
	return values
}

func encode(values url.Values, fields []Field, prefix string, answers docmerge.AnswerMap) {
	for _, f := range fields {
		key := prefix + f.Name
		v := answers.Lookup(f.Name)

		switch f.Control {
		case ControlText:
			if !v.IsAbsent() {
				values.Set(key, v.String())
			}

		case ControlCheckbox:
			if v.Truthy() {
				values.Set(key, "on")
			}

		case ControlDate:
			if t, ok := v.DateValue(); ok {
				values.Set(key, t.Format(DateLayout))
			}

		case ControlToggle:
			if v.Truthy() {
				values.Set(key, "on")
			}
			encode(values, f.Children, prefix, answers)

		case ControlRepeat:
			for idx, row := range v.RowList() {
				encode(values, f.Children, RowPrefix(key, idx), row)
			}
		}
	}
}
