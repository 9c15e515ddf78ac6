package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckParsesHealthyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer srv.Close()

	st, err := NewClient(srv.URL).Check(context.Background())
	require.NoError(t, err)
	require.True(t, st.Healthy())
}

func TestCheckRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Check(context.Background())
	require.Error(t, err)
}

func TestCheckFailsWhenBackendIsDown(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Check(context.Background())
	require.Error(t, err)
}
