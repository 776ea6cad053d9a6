package docmerge

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStructuralErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuralError
		want string
	}{
		{
			name: "with position",
			err:  &StructuralError{Kind: MismatchedClose, Directive: "[[END IF]]", Line: 3, Column: 7},
			want: "template error at line 3, column 7: mismatched closing tag [[END IF]]",
		},
		{
			name: "without position",
			err:  &StructuralError{Kind: UnmatchedOpen, Directive: "[[IF a]]"},
			want: "template error: unmatched opening tag [[IF a]]",
		},
		{
			name: "without directive",
			err:  &StructuralError{Kind: UnexpectedClose},
			want: "template error: unexpected closing tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuralErrorIs(t *testing.T) {
	err := &StructuralError{Kind: UnexpectedClose}
	wrapped := fmt.Errorf("rendering: %w", err)

	if !errors.Is(wrapped, ErrUnexpectedClose) {
		t.Error("expected wrapped error to match ErrUnexpectedClose")
	}
	if errors.Is(wrapped, ErrMismatchedClose) {
		t.Error("did not expect match with ErrMismatchedClose")
	}
	if !IsStructuralError(wrapped) {
		t.Error("IsStructuralError should see through wrapping")
	}
	if IsStructuralError(errors.New("other")) {
		t.Error("IsStructuralError matched a plain error")
	}
}

func TestLineColumn(t *testing.T) {
	input := "ab\ncdé\nf"
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
		{100, 3, 2},
	}

	for _, tt := range tests {
		line, col := lineColumn(input, tt.offset)
		if line != tt.line || col != tt.column {
			t.Errorf("lineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.column)
		}
	}
}

func TestValidationError(t *testing.T) {
	var empty *ValidationError
	if empty.Err() != nil {
		t.Error("nil ValidationError should yield nil error")
	}

	v := &ValidationError{}
	if v.Err() != nil {
		t.Error("empty ValidationError should yield nil error")
	}

	v.Add("start_date", "invalid date")
	if got := v.Error(); got != "validation error: start_date - invalid date" {
		t.Errorf("single issue message = %q", got)
	}

	v.Add("items[0].due_date", "invalid date")
	got := v.Error()
	if !strings.HasPrefix(got, "2 validation issues:") || !strings.Contains(got, "items[0].due_date: invalid date") {
		t.Errorf("multiple issue message = %q", got)
	}
	if v.Err() == nil {
		t.Error("expected non-nil error with issues")
	}
}

func TestContextError(t *testing.T) {
	if WithContext(nil, "op", nil) != nil {
		t.Error("WithContext(nil) should return nil")
	}

	cause := &StructuralError{Kind: UnmatchedOpen}
	err := WithContext(cause, "parsing document", map[string]interface{}{
		"part": "word/document.xml",
		"size": 10,
	})

	want := "parsing document [part=word/document.xml, size=10]: template error: unmatched opening tag"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrUnmatchedOpen) {
		t.Error("expected context error to unwrap to the structural error")
	}

	plain := WithContext(errors.New("boom"), "loading", nil)
	if plain.Error() != "loading: boom" {
		t.Errorf("Error() = %q", plain.Error())
	}
}
