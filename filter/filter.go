package filter

import (
	"strings"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
)

var defaultCompiler = NewExprCompiler(WithCache(DefaultCacheSize))

// CompileFilter compiles an expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Match returns a predicate for the expression. An empty expression
// matches every record.
func Match(expression string) (func(collection.Record) bool, error) {
	if strings.TrimSpace(expression) == "" {
		return func(collection.Record) bool { return true }, nil
	}

	f, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	return f.Evaluate, nil
}
