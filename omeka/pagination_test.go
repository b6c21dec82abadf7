package omeka

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaginated(t *testing.T) {
	t.Run("follows next links until absent", func(t *testing.T) {
		var requests []string
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.RawQuery)
			page := r.URL.Query().Get("page")
			switch page {
			case "":
				assert.Equal(t, "10780", r.URL.Query().Get("item_set_id"))
				w.Header().Set("Link", fmt.Sprintf(`<%s/api/items?page=2>; rel="next", <%s/api/items?page=3>; rel="last"`, server.URL, server.URL))
				fmt.Fprint(w, `[{"o:id":1},{"o:id":2}]`)
			case "2":
				// parameters of the first request are not resent
				assert.Empty(t, r.URL.Query().Get("item_set_id"))
				w.Header().Set("Link", `</api/items?page=3>; rel="next"`)
				fmt.Fprint(w, `[{"o:id":3}]`)
			case "3":
				w.Header().Set("Link", `</api/items?page=1>; rel="first"`)
				fmt.Fprint(w, `[{"o:id":4},{"o:id":5}]`)
			default:
				t.Errorf("unexpected page %q", page)
			}
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		params := url.Values{"item_set_id": {"10780"}}
		records := client.GetPaginated(context.Background(), client.endpoint("items"), params)

		require.Len(t, records, 5)
		for i, r := range records {
			assert.Equal(t, i+1, r.ID())
		}
		assert.Len(t, requests, 3)
	})

	t.Run("first page failure yields empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		records := client.GetPaginated(context.Background(), client.endpoint("items"), nil)
		assert.Empty(t, records)
	})

	t.Run("later failure keeps earlier pages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				http.Error(w, "boom", http.StatusBadGateway)
				return
			}
			w.Header().Set("Link", `</api/items?page=2>; rel="next"`)
			fmt.Fprint(w, `[{"o:id":1}]`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		records := client.GetPaginated(context.Background(), client.endpoint("items"), nil)
		require.Len(t, records, 1)
		assert.Equal(t, 1, records[0].ID())
	})

	t.Run("does not revisit a page", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Link", `</api/items?page=1>; rel="next"`)
			fmt.Fprint(w, `[{"o:id":1}]`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		records := client.GetPaginated(context.Background(), client.endpoint("items?page=1"), nil)
		assert.Len(t, records, 1)
		assert.Equal(t, 1, calls)
	})
}

func TestGetItemsFromCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "123", q.Get("item_set_id"))
		assert.Equal(t, "50", q.Get("per_page"))
		assert.Equal(t, "id", q.Get("key_identity"))
		assert.Equal(t, "secret", q.Get("key_credential"))
		fmt.Fprint(w, `[{"o:id":7}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithPageSize(50))
	records := client.GetItemsFromCollection(context.Background(), "123")
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ID())
}

func TestGetMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/media", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "7", q.Get("item_id"))
		assert.Equal(t, "id", q.Get("key_identity"))
		assert.False(t, q.Has("per_page"))
		fmt.Fprint(w, `[{"o:id":70,"o:item":{"o:id":7},"o:source":"plan.jpg","o:original_url":"https://files.example.org/original/abc.jpg"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records := client.GetMedia(context.Background(), 7)
	require.Len(t, records, 1)

	media, err := records[0].Media()
	require.NoError(t, err)
	assert.Equal(t, 70, media.ID)
	assert.Equal(t, 7, media.Item.ID)
	assert.Equal(t, "plan.jpg", media.FileName())
}

func TestParseLinkHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantNext string
	}{
		{
			name:     "omeka style",
			header:   `<https://x/api/items?page=1>; rel="first", <https://x/api/items?page=2>; rel="next", <https://x/api/items?page=9>; rel="last"`,
			wantNext: "https://x/api/items?page=2",
		},
		{
			name:     "unquoted rel",
			header:   `<https://x/api/items?page=3>; rel=next`,
			wantNext: "https://x/api/items?page=3",
		},
		{
			name:     "multiple rels",
			header:   `<https://x/api/items?page=4>; title="a, b"; rel="prefetch next"`,
			wantNext: "https://x/api/items?page=4",
		},
		{
			name:     "no next",
			header:   `<https://x/api/items?page=1>; rel="first"`,
			wantNext: "",
		},
		{
			name:     "garbage",
			header:   `not a link header`,
			wantNext: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			header.Set("Link", tt.header)
			assert.Equal(t, tt.wantNext, nextLink(header, "https://x/api/items"))
		})
	}
}
