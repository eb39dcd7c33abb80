// Package filter selects items from paged service desk responses with
// expr-lang expressions.
//
// Each item is a decoded JSON object. Its top-level keys are available as
// variables, and the whole object as Item:
//
//	currentStatus.status == "Waiting for support" and daysSince(createdDate) > 7
//	contains(requestFieldValues[0].value, "printer")
//
// Use optional chaining (a?.b) for fields that may be absent.
//
// Helper names (now, lower, upper, contains, startsWith, endsWith, toTime,
// daysSince, daysAgo, parseDate) and Item are reserved: a top-level field
// with one of those names is only reachable as Item.name.
package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression that must evaluate to a boolean.
// Compiled filters are cached by expression.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if f, ok := compiled.Get(expression); ok {
		return f, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
	}
	compiled.Put(f)
	return f, nil
}

// Match reports whether item satisfies the filter
func (f *Filter) Match(item any) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnvironment(item))
	if err != nil {
		return false, err
	}
	// nil when the expression is a bare undefined variable
	matched, _ := result.(bool)
	return matched, nil
}

// Apply returns the items that satisfy the filter, in their original order.
func (f *Filter) Apply(items []any) ([]any, error) {
	matches := make([]any, 0, len(items))
	for i, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, &EvaluationError{
				Expression: f.expression,
				Index:      i,
				Reason:     err.Error(),
				Err:        err,
			}
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expression
}

func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["toTime"] = toTime
	env["daysSince"] = func(v any) int {
		t := toTime(v)
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

// runtimeEnvironment exposes item's fields, then the helpers, then Item.
// Helpers shadow fields of the same name.
func runtimeEnvironment(item any) map[string]any {
	env := make(map[string]any, 32)
	if obj, ok := item.(map[string]any); ok {
		maps.Copy(env, obj)
	}
	addHelperFunctions(env)
	env["Item"] = item
	return env
}

// toTime converts a service desk date into a time.Time. Dates arrive as
// objects carrying iso8601 and epochMillis; plain RFC 3339 strings and
// epoch milliseconds are accepted too. Unknown shapes yield the zero time.
func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case map[string]any:
		if ms, ok := val["epochMillis"].(float64); ok {
			return time.UnixMilli(int64(ms))
		}
		if iso, ok := val["iso8601"].(string); ok {
			return toTime(iso)
		}
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
	case float64:
		return time.UnixMilli(int64(val))
	case int:
		return time.UnixMilli(int64(val))
	case int64:
		return time.UnixMilli(val)
	}
	return time.Time{}
}
