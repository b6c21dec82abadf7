package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

func useOmekaServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := omeka.NewClient(server.URL+"/api/", omeka.Credentials{}, zerolog.Nop())
	require.NoError(t, err)

	prev := operations
	operations = collection.NewOperations(client, zerolog.Nop())
	t.Cleanup(func() { operations = prev })
}

func TestRunShowItemNotFound(t *testing.T) {
	useOmekaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/7", r.URL.Path)
		http.NotFound(w, r)
	})
	showCmd.SetContext(context.Background())

	err := runShow(showCmd, []string{"7"})
	require.Error(t, err)
	assert.Equal(t, "item 7 not found", err.Error())
}

func TestRunShowRejectsUnknownMode(t *testing.T) {
	defer func() { showMode = "value" }()
	showMode = "html"

	err := runShow(showCmd, []string{"7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction mode")
}
