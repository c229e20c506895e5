package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInput(t *testing.T) {
	t.Run("reads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		if err := os.WriteFile(path, []byte("hello prompt"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		got, err := readInput([]string{path})
		if err != nil {
			t.Fatalf("readInput(%q) error = %v", path, err)
		}
		if string(got) != "hello prompt" {
			t.Errorf("readInput(%q) = %q, want %q", path, got, "hello prompt")
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := readInput([]string{"/nonexistent/prompt.txt"}); err == nil {
			t.Error("readInput with missing file should fail")
		}
	})
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","service":"shrinkd","version":"test"}`))
		}))
		defer srv.Close()

		var resp HealthResponse
		if err := getJSON(srv.URL+"/health", &resp); err != nil {
			t.Fatalf("getJSON error = %v", err)
		}
		if resp.Status != "ok" {
			t.Errorf("Status = %q, want %q", resp.Status, "ok")
		}
		if resp.Version != "test" {
			t.Errorf("Version = %q, want %q", resp.Version, "test")
		}
	})

	t.Run("non-200 carries body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
		}))
		defer srv.Close()

		var resp AnomaliesResponse
		err := getJSON(srv.URL+"/api/v1/usage/anomalies", &resp)
		if err == nil {
			t.Fatal("getJSON should fail on 400")
		}
		if !strings.Contains(err.Error(), "status 400") {
			t.Errorf("error = %v, want status 400 mentioned", err)
		}
		if !strings.Contains(err.Error(), "days must be a positive integer") {
			t.Errorf("error = %v, want server message included", err)
		}
	})
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"request_id":"opt_1","tokens_before":10,"tokens_after":7,"percent_saved":30,"optimized_text":"short"}`))
	}))
	defer srv.Close()

	oldURL := serverURL
	serverURL = srv.URL
	defer func() { serverURL = oldURL }()

	var resp OptimizeResponse
	if err := postJSON("/api/v1/optimize", OptimizeRequest{Prompt: "long prompt"}, &resp); err != nil {
		t.Fatalf("postJSON error = %v", err)
	}
	if resp.TokensBefore != 10 || resp.TokensAfter != 7 {
		t.Errorf("tokens = %d -> %d, want 10 -> 7", resp.TokensBefore, resp.TokensAfter)
	}
	if resp.OptimizedText != "short" {
		t.Errorf("OptimizedText = %q, want %q", resp.OptimizedText, "short")
	}
}
