package hub

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClientWhoami(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/whoami-v2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf_tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"alice"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "hf_tok", time.Second)
	name, err := c.Whoami(context.Background())
	if err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if name != "alice" {
		t.Errorf("name = %q", name)
	}

	bad := NewHTTPClient(srv.URL, "wrong", time.Second)
	_, err = bad.Whoami(context.Background())
	if err == nil {
		t.Fatal("expected error for bad token")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("server error text not surfaced: %v", err)
	}
}

func TestHTTPClientUploadFile(t *testing.T) {
	var gotPath string
	var lines []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		_, _ = w.Write([]byte(`{"commitUrl":"x"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "hf_tok", time.Second)
	err := c.UploadFile(context.Background(), "alice/indic-recipes", "recipes.csv", []byte("name\nDal\n"))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if gotPath != "/api/datasets/alice/indic-recipes/commit/main" {
		t.Errorf("path = %s", gotPath)
	}
	if len(lines) != 2 {
		t.Fatalf("ndjson lines = %d, want 2", len(lines))
	}

	var fileLine commitLine
	if err := json.Unmarshal([]byte(lines[1]), &fileLine); err != nil {
		t.Fatal(err)
	}
	if fileLine.Key != "file" || fileLine.Value["path"] != "recipes.csv" {
		t.Errorf("file line = %+v", fileLine)
	}
	decoded, err := base64.StdEncoding.DecodeString(fileLine.Value["content"])
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "name\nDal\n" {
		t.Errorf("content = %q", decoded)
	}
}

func TestHTTPClientUploadFileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"write access denied"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "hf_tok", time.Second)
	err := c.UploadFile(context.Background(), "alice/indic-recipes", "recipes.csv", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "write access denied") {
		t.Errorf("error = %v", err)
	}
}
