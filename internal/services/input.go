package services

import (
	"fmt"
	"strings"
	"time"
)

// Field carries an optional argument. Set reports whether the caller
// supplied it at all; Null reports an explicit null.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Ptr returns nil for an unset or null field.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

type CreateTodoInput struct {
	Task        string
	Priority    *int
	Description *string
	DueDate     *string
	Tags        []string
	AssignedTo  *string
	Category    *string
}

type UpdateTodoInput struct {
	Task        Field[string]
	Priority    Field[int]
	Description Field[string]
	DueDate     Field[string]
	Tags        Field[[]string]
	AssignedTo  Field[string]
	Category    Field[string]
}

// Empty reports whether no field besides the id was supplied.
func (in UpdateTodoInput) Empty() bool {
	return !in.Task.Set && !in.Priority.Set && !in.Description.Set && !in.DueDate.Set &&
		!in.Tags.Set && !in.AssignedTo.Set && !in.Category.Set
}

// ParseTags splits a comma separated tag string. Each tag is trimmed;
// empty tags are kept and order is preserved.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}

var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDueDate accepts a calendar date or an RFC3339 timestamp. Blank
// input yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: dueDate %q is not a valid date", ErrValidation, raw)
}
