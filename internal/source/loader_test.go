package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	if s := Resolve("https://example.com/t.json"); s.Kind != Remote {
		t.Errorf("https: got kind %v", s.Kind)
	}
	if s := Resolve("http://example.com/t.json"); s.Kind != Remote {
		t.Errorf("http: got kind %v", s.Kind)
	}
	if s := Resolve("templates/t.json"); s.Kind != Local {
		t.Errorf("path: got kind %v", s.Kind)
	}
}

func TestLoadLocalFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "t.json")
	content := `[{"_event_type":"NEW_PROCESS","_ts":"{{ date }} 10:00:00"},{"_event_type":"DNS_REQUEST"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	l := NewLoader(5 * time.Second)
	templates, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("got %d templates", len(templates))
	}
	if templates[0]["_event_type"] != "NEW_PROCESS" {
		t.Errorf("first template: %v", templates[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader(5 * time.Second)
	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	l := NewLoader(5 * time.Second)
	_, err := l.Load(context.Background(), path)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want ErrParse", err)
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	tmp := t.TempDir()
	l := NewLoader(5 * time.Second)

	cases := map[string]string{
		"object.json": `{"a":1}`,
		"mixed.json":  `[{"a":1}, "not an object"]`,
	}
	for name, content := range cases {
		path := filepath.Join(tmp, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		if _, err := l.Load(context.Background(), path); !errors.Is(err, ErrSchema) {
			t.Errorf("%s: got %v, want ErrSchema", name, err)
		}
	}
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent: got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[{"_event_type":"FILE_CREATE"}]`))
	}))
	defer srv.Close()

	l := NewLoader(5 * time.Second)
	templates, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(templates) != 1 || templates[0]["_event_type"] != "FILE_CREATE" {
		t.Fatalf("got %v", templates)
	}
}

func TestLoadRemoteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(5 * time.Second)
	_, err := l.Load(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("got %v, want ErrFetch", err)
	}
}

func TestLoadRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	l := NewLoader(2 * time.Second)
	_, err := l.Load(context.Background(), url)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("got %v, want ErrFetch", err)
	}
}
