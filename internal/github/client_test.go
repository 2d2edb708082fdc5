package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/devconnector/internal/apperror"
)

// newTestClient points a Client at a stub GitHub server.
func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
	}
}

func TestRepos_PassesBodyThrough(t *testing.T) {
	const upstream = `[{"name":"devconnector","stargazers_count":42}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("path = %q, want /users/octocat/repos", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("per_page = %q, want 5", got)
		}
		if got := r.URL.Query().Get("sort"); got != "created" {
			t.Errorf("sort = %q, want created", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("request has no User-Agent (GitHub rejects those)")
		}
		w.Write([]byte(upstream))
	}))
	defer srv.Close()

	body, err := newTestClient(srv).Repos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Repos() error = %v", err)
	}

	// The body must be forwarded untransformed.
	if string(body) != upstream {
		t.Errorf("Repos() body = %s, want %s", body, upstream)
	}
	if !json.Valid(body) {
		t.Error("Repos() returned invalid JSON")
	}
}

func TestRepos_UpstreamFailureIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Repos(context.Background(), "nobody-here")
	if err == nil {
		t.Fatal("Repos() should fail on a non-200 upstream status")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Repos() error = %v, want ErrNotFound", err)
	}
}

func TestRepos_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use — every request fails

	_, err := newTestClient(srv).Repos(context.Background(), "octocat")
	if err == nil {
		t.Fatal("Repos() should surface a network error")
	}
	if errors.Is(err, apperror.ErrNotFound) {
		t.Error("a network error is not a not-found")
	}
}
