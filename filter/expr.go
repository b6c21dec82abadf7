package filter

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
)

// DefaultCacheSize is the cache size used by CompileFilter
const DefaultCacheSize = 64

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.customFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		customFuncs: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	customFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// An empty record gives the checker the type of every field and helper
	env := newEnvironment(collection.Record{})
	maps.Copy(env, c.customFuncs)

	program, err := expr.Compile(expression,
		expr.Env(env),
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

	f := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.customFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}

	return f, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a record. Records that cause a
// runtime error do not match.
func (f *exprFilter) Evaluate(rec collection.Record) bool {
	ok, err := f.Check(rec)
	return err == nil && ok
}

// Check evaluates the filter against a record
func (f *exprFilter) Check(rec collection.Record) (bool, error) {
	env := newEnvironment(rec)
	maps.Copy(env, f.extra)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ItemID:     rec.ID,
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			ItemID:     rec.ID,
			Err:        fmt.Errorf("expected bool, got %T", result),
		}
	}
	return matched, nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment creates the evaluation environment for a record
func newEnvironment(rec collection.Record) map[string]any {
	env := make(map[string]any, 32)

	// Record fields
	env["Record"] = rec
	env["ID"] = rec.ID
	env["Identifier"] = rec.Identifier
	env["Title"] = rec.Title
	env["Description"] = rec.Description
	env["Creators"] = rec.Creators
	env["Subjects"] = rec.Subjects
	env["Dates"] = rec.Dates
	env["Types"] = rec.Types
	env["Formats"] = rec.Formats
	env["Languages"] = rec.Languages
	env["Relations"] = rec.Relations
	env["Rights"] = rec.Rights
	env["Sources"] = rec.Sources
	env["Publishers"] = rec.Publishers
	env["Media"] = rec.Media

	// List helpers, case-insensitive substring match
	env["hasCreator"] = listContains(rec.Creators)
	env["hasSubject"] = listContains(rec.Subjects)
	env["hasType"] = listContains(rec.Types)
	env["hasLanguage"] = listContains(rec.Languages)

	// Property helpers by Omeka property id
	env["value"] = rec.Value
	env["label"] = rec.Label
	env["link"] = rec.Link
	env["valuesOf"] = rec.Values
	env["hasProperty"] = func(propertyID int) bool {
		return len(rec.Values(propertyID)) > 0
	}

	env["hasMedia"] = func() bool {
		return len(rec.Media) > 0
	}
	env["year"] = func() int {
		return firstYear(rec.Dates)
	}

	return env
}

func listContains(list []string) func(string) bool {
	lowered := make([]string, len(list))
	for i, s := range list {
		lowered[i] = strings.ToLower(s)
	}
	return func(needle string) bool {
		needle = strings.ToLower(needle)
		for _, s := range lowered {
			if strings.Contains(s, needle) {
				return true
			}
		}
		return false
	}
}

// firstYear returns the first four-digit year found in dates, or 0
func firstYear(dates []string) int {
	for _, d := range dates {
		if m := yearPattern.FindStringSubmatch(d); m != nil {
			year, _ := strconv.Atoi(m[1])
			return year
		}
	}
	return 0
}
