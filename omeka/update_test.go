package omeka

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeItemServer serves a single item and records PUT bodies
type fakeItemServer struct {
	mu       sync.Mutex
	item     string
	getFails bool
	putFails bool
	puts     []map[string]json.RawMessage
	putType  string
}

func (s *fakeItemServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if s.getFails {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, s.item)
	case http.MethodPut:
		s.putType = r.Header.Get("Content-Type")
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.puts = append(s.puts, body)
		if s.putFails {
			http.Error(w, "denied", http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(body)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func TestUpdateItem(t *testing.T) {
	const dspURI = "https://ark.dasch.swiss/ark:/72163/1/0856/abc"

	t.Run("property absent creates fallback field", func(t *testing.T) {
		fake := &fakeItemServer{item: `{
			"o:id": 9,
			"o:is_public": true,
			"dcterms:title": [{"type":"literal","property_id":1,"@value":"Rathaus","is_public":true}]
		}`}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL)
		ok := client.UpdateItem(context.Background(), 9, 999, dspURI)
		require.True(t, ok)

		require.Len(t, fake.puts, 1)
		assert.Equal(t, "application/json", fake.putType)
		body := fake.puts[0]

		var values []map[string]any
		require.NoError(t, json.Unmarshal(body[FallbackTerm], &values))
		require.Len(t, values, 1)
		assert.Equal(t, dspURI, values[0]["@value"])
		assert.EqualValues(t, 999, values[0]["property_id"])
		assert.Equal(t, "literal", values[0]["type"])

		// everything else is sent back untouched
		assert.JSONEq(t, `true`, string(body["o:is_public"]))
		assert.JSONEq(t, `[{"type":"literal","property_id":1,"@value":"Rathaus","is_public":true}]`, string(body["dcterms:title"]))
	})

	t.Run("existing field with matching property is appended to", func(t *testing.T) {
		fake := &fakeItemServer{item: `{
			"o:id": 9,
			"bibo:uri": [{"type":"uri","property_id":500,"@id":"https://old.example.org","o:label":"old","extra":1}]
		}`}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL)
		require.True(t, client.UpdateItem(context.Background(), 9, 500, dspURI))

		var values []map[string]any
		require.NoError(t, json.Unmarshal(fake.puts[0]["bibo:uri"], &values))
		require.Len(t, values, 2)
		assert.EqualValues(t, 1, values[0]["extra"])
		assert.Equal(t, dspURI, values[1]["@value"])
		_, hasFallback := fake.puts[0][FallbackTerm]
		assert.False(t, hasFallback)
	})

	t.Run("vocabulary names a new field", func(t *testing.T) {
		fake := &fakeItemServer{item: `{"o:id": 9}`}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL, WithVocabulary(Vocabulary{77: "schema:sameAs"}))
		require.True(t, client.UpdateItem(context.Background(), 9, 77, dspURI))

		_, ok := fake.puts[0]["schema:sameAs"]
		assert.True(t, ok)
	})

	t.Run("repeated calls append duplicates", func(t *testing.T) {
		fake := &fakeItemServer{item: `{"o:id": 9, "dcterms:hasVersion": [{"type":"literal","property_id":28,"@value":"` + dspURI + `"}]}`}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL)
		require.True(t, client.UpdateItem(context.Background(), 9, 28, dspURI))

		var values []PropertyValue
		require.NoError(t, json.Unmarshal(fake.puts[0]["dcterms:hasVersion"], &values))
		assert.Len(t, values, 2)
	})

	t.Run("fetch failure returns false without PUT", func(t *testing.T) {
		fake := &fakeItemServer{getFails: true}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.False(t, client.UpdateItem(context.Background(), 9, 28, dspURI))
		assert.Empty(t, fake.puts)
	})

	t.Run("write failure returns false", func(t *testing.T) {
		fake := &fakeItemServer{item: `{"o:id": 9}`, putFails: true}
		server := httptest.NewServer(fake)
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.False(t, client.UpdateItem(context.Background(), 9, 28, dspURI))
		assert.Len(t, fake.puts, 1)

		err := client.AddValue(context.Background(), 9, 28, dspURI)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrHTTPStatus)
	})
}

func TestAppendValue(t *testing.T) {
	t.Run("replaces a field that is not a list", func(t *testing.T) {
		item := Resource{"dcterms:hasVersion": json.RawMessage(`"scalar"`)}
		term, err := AppendValue(item, DefaultVocabulary(), NewLiteral(28, "x"))
		require.NoError(t, err)
		assert.Equal(t, "dcterms:hasVersion", term)
		assert.JSONEq(t, `[{"type":"literal","property_id":28,"@value":"x"}]`, string(item[term]))
	})

	t.Run("first entry decides the field", func(t *testing.T) {
		item := Resource{
			"dcterms:relation": json.RawMessage(`[{"property_id":13,"@value":"a"},{"property_id":28,"@value":"b"}]`),
		}
		term, err := AppendValue(item, Vocabulary{}, NewLiteral(28, "x"))
		require.NoError(t, err)
		assert.Equal(t, FallbackTerm, term)
	})
}
