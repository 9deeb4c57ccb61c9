package taskql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/timeutil"
)

type Query struct {
	In    []string
	NotIn []string
}

func (q Query) Len() int {
	return len(q.In) + len(q.NotIn)
}

type predicate func(*model.Task) bool

type fieldFilter struct {
	in    []predicate
	notIn []predicate
}

func (f fieldFilter) matches(t *model.Task) bool {
	if len(f.in) > 0 {
		found := false
		for _, p := range f.in {
			if p(t) {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	for _, p := range f.notIn {
		if p(t) {
			return false
		}
	}

	return true
}

// Filter is a compiled task query. Values for the same field are OR-ed,
// different fields are AND-ed and negated values must all fail.
type Filter struct {
	raw     string
	queries map[Field]Query
	fields  map[Field]fieldFilter
}

// Compile parses input and resolves every value relative to now. An empty
// input yields a filter matching every task.
func Compile(input string, now time.Time) (*Filter, error) {
	conditions, err := Parse(input)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		raw:     input,
		queries: make(map[Field]Query),
		fields:  make(map[Field]fieldFilter),
	}

	for _, c := range conditions {
		fn := Field(c.FieldName)
		if !fn.IsValid() {
			return nil, fmt.Errorf("unsupported field name %q", fn)
		}

		p, err := buildPredicate(fn, c.Value, now)
		if err != nil {
			return nil, err
		}

		query := f.queries[fn]
		ff := f.fields[fn]

		if c.Not {
			query.NotIn = append(query.NotIn, c.Value)
			ff.notIn = append(ff.notIn, p)
		} else {
			query.In = append(query.In, c.Value)
			ff.in = append(ff.in, p)
		}

		f.queries[fn] = query
		f.fields[fn] = ff
	}

	return f, nil
}

func (f *Filter) String() string {
	return f.raw
}

// Queries returns the raw values per field.
func (f *Filter) Queries() map[Field]Query {
	return f.queries
}

func (f *Filter) Match(t *model.Task) bool {
	for _, ff := range f.fields {
		if !ff.matches(t) {
			return false
		}
	}

	return true
}

// Apply returns the tasks matching f, keeping their order.
func (f *Filter) Apply(tasks []*model.Task) []*model.Task {
	result := make([]*model.Task, 0, len(tasks))

	for _, t := range tasks {
		if f.Match(t) {
			result = append(result, t)
		}
	}

	return result
}

func buildPredicate(fn Field, value string, now time.Time) (predicate, error) {
	switch fn {
	case FieldID:
		id, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", fn, err)
		}

		return func(t *model.Task) bool { return t.ID == id }, nil

	case FieldCompleted:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", fn, err)
		}

		return func(t *model.Task) bool { return t.Completed == b }, nil

	case FieldTitle:
		needle := strings.ToLower(value)

		return func(t *model.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), needle)
		}, nil

	case FieldDescription:
		needle := strings.ToLower(value)

		return func(t *model.Task) bool {
			if t.Description == nil {
				return false
			}

			return strings.Contains(strings.ToLower(*t.Description), needle)
		}, nil

	case FieldCreatedAfter:
		ts, err := resolveTime(value, now, timeutil.ParseStartInLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", fn, err)
		}

		return func(t *model.Task) bool { return !t.CreatedAt.Before(ts) }, nil

	case FieldCreatedBefore:
		ts, err := resolveTime(value, now, timeutil.ParseEndInLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", fn, err)
		}

		return func(t *model.Task) bool { return !t.CreatedAt.After(ts) }, nil
	}

	return nil, fmt.Errorf("unsupported field name %q", fn)
}

func resolveTime(value string, now time.Time, parse func(string, *time.Location) (time.Time, error)) (time.Time, error) {
	if timeutil.IsDateSpecifier(value) {
		return timeutil.ResolveTime(value, now)
	}

	return parse(value, now.Location())
}
