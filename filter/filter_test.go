package filter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

func mustResource(t *testing.T, raw string) omeka.Resource {
	t.Helper()
	var r omeka.Resource
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func testRecord() collection.Record {
	return collection.Record{
		ID:         1,
		Identifier: "abb12345",
		Title:      "Rheinbrücke bei Nacht",
		Creators:   []string{"<a href='https://d-nb.info/gnd/1'>Höflinger</a>"},
		Subjects:   []string{"Basel", "Brücke"},
		Dates:      []string{"ca. 1895"},
		Types:      []string{"Fotografie"},
		Media:      []collection.MediaFile{{ID: 11, FileName: "a.jpg"}},
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasSubject("basel")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:        "invalid syntax",
			expression:  `hasSubject("unclosed`,
			wantErr:     true,
			errContains: "failed to compile expression",
		},
		{
			name:       "non boolean result",
			expression: `Title`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasSubject("Basel") and len(Media) > 0 and year() < 1900`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	rec := testRecord()

	tests := []struct {
		expression string
		want       bool
	}{
		{`hasSubject("Basel")`, true},
		{`hasSubject("Zürich")`, false},
		{`hasCreator("höflinger")`, true},
		{`hasType("foto")`, true},
		{`hasMedia()`, true},
		{`len(Media) == 1`, true},
		{`Identifier startsWith "abb"`, true},
		{`Title contains "Nacht"`, true},
		{`year() == 1895`, true},
		{`year() > 1900`, false},
		{`ID in [1, 2, 3]`, true},
		{`not hasSubject("Basel") or Title == "x"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Evaluate(rec))
		})
	}
}

func TestPropertyHelpers(t *testing.T) {
	rec := collection.NewRecord(mustResource(t, `{
		"o:id": 5,
		"dcterms:identifier": [{"type": "literal", "property_id": 10, "@value": "abb5"}],
		"dcterms:rights": [{"type": "uri", "property_id": 15, "@id": "https://rightsstatements.org/vocab/InC/1.0/", "o:label": "In Copyright"}]
	}`))

	tests := []struct {
		expression string
		want       bool
	}{
		{`value(10) == "abb5"`, true},
		{`label(15) == "In Copyright"`, true},
		{`link(15) contains "rightsstatements.org"`, true},
		{`hasProperty(15)`, true},
		{`hasProperty(3)`, false},
		{`len(valuesOf(15)) == 1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Evaluate(rec))
		})
	}
}

func TestMatch(t *testing.T) {
	match, err := Match("")
	require.NoError(t, err)
	assert.True(t, match(collection.Record{}))

	match, err = Match(`hasSubject("Basel")`)
	require.NoError(t, err)
	assert.True(t, match(testRecord()))
	assert.False(t, match(collection.Record{ID: 2}))

	_, err = Match(`(`)
	assert.Error(t, err)
}

func TestCheckReportsEvaluationErrors(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"explode": func() (bool, error) { return false, errors.New("boom") },
	}))

	f, err := c.Compile(`explode()`)
	require.NoError(t, err)

	ok, err := f.Check(testRecord())
	assert.False(t, ok)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 1, evalErr.ItemID)
	assert.False(t, f.Evaluate(testRecord()))
}

func TestCustomFunctions(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isArchive": func(id string) bool { return len(id) > 3 && id[:3] == "abb" },
	}))

	f, err := c.Compile(`isArchive(Identifier)`)
	require.NoError(t, err)
	assert.True(t, f.Evaluate(testRecord()))
	assert.Equal(t, "isArchive(Identifier)", f.Expression())
}

func TestCacheEffectiveness(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	f1, err := c.Compile(`hasMedia()`)
	require.NoError(t, err)
	f2, err := c.Compile(` hasMedia() `)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, c.Size())

	_, err = c.Compile(`year() > 0`)
	require.NoError(t, err)
	_, err = c.Compile(`ID > 0`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	// hasMedia() was evicted
	f3, err := c.Compile(`hasMedia()`)
	require.NoError(t, err)
	assert.NotSame(t, f1, f3)

	c.Clear()
	assert.Equal(t, 0, c.Size())

	uncached := NewExprCompiler()
	_, err = uncached.Compile(`hasMedia()`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}
