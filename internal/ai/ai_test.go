package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleter_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hola", ", hay", " cupo"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOpenAICompleter("test-key", srv.URL, "gpt-4")

	var got strings.Builder
	err := c.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(s string) error {
		got.WriteString(s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola, hay cupo", got.String())
}

func TestOpenAICompleter_StreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter("bad", srv.URL, "gpt-4")
	err := c.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(string) error { return nil })
	assert.Error(t, err)
}
