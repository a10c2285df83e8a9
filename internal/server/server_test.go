package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"demo-data/internal/render"
	"demo-data/internal/source"
)

func newTestServer() *Server {
	mat := render.NewMaterializer(7)
	mat.Now = func() time.Time {
		return time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	}
	return New(source.NewLoader(5*time.Second), mat, 5*time.Second, 0)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	newTestServer().Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field: %q", body["status"])
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"not json", "nope", "must be JSON"},
		{"missing template", `{"webhook_url":"https://example.com/hook"}`, "template_url"},
		{"missing webhook", `{"template_url":"https://example.com/t.json"}`, "webhook_url"},
		{"local template", `{"template_url":"t.json","webhook_url":"https://example.com/hook"}`, "template_url must be a valid URL"},
		{"local webhook", `{"template_url":"https://example.com/t.json","webhook_url":"out.json"}`, "webhook_url must be a valid URL"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(tc.body))
		newTestServer().Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Errorf("%s: body %q missing %q", tc.name, rec.Body.String(), tc.want)
		}
	}
}

func TestLoadEndToEnd(t *testing.T) {
	templateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_event_type":"NEW_PROCESS","_ts":"{{ date }} 10:00:00"},{"_event_type":"DNS_REQUEST","_ts":"{{ date }} 11:00:00"}]`))
	}))
	defer templateSrv.Close()

	var mu sync.Mutex
	var received []map[string]any
	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(b, &payload); err != nil {
			t.Errorf("payload not an object: %v", err)
		}
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
	}))
	defer webhookSrv.Close()

	body := `{"template_url":"` + templateSrv.URL + `","webhook_url":"` + webhookSrv.URL + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(body))
	newTestServer().Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	var resp LoadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Status != "success" || resp.Sent != 2 || resp.Failed != 0 {
		t.Fatalf("response: %+v", resp)
	}
	if len(received) != 2 {
		t.Fatalf("webhook got %d events", len(received))
	}
	if received[0]["_ts"] != "2025-06-10 10:00:00" {
		t.Errorf("first event _ts: %q", received[0]["_ts"])
	}
	// second of two events lands one day back
	if received[1]["_ts"] != "2025-06-09 11:00:00" {
		t.Errorf("second event _ts: %q", received[1]["_ts"])
	}
}

func TestLoadPartialFailure(t *testing.T) {
	templateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"a":"1"},{"a":"2"}]`))
	}))
	defer templateSrv.Close()

	var mu sync.Mutex
	calls := 0
	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer webhookSrv.Close()

	body := `{"template_url":"` + templateSrv.URL + `","webhook_url":"` + webhookSrv.URL + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(body))
	newTestServer().Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status: %d", rec.Code)
	}
	var resp LoadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Status != "partial" || resp.Sent != 1 || resp.Failed != 1 {
		t.Fatalf("response: %+v", resp)
	}
}

func TestLoadTemplateFetchFailure(t *testing.T) {
	templateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer templateSrv.Close()

	body := `{"template_url":"` + templateSrv.URL + `","webhook_url":"https://example.com/hook"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(body))
	newTestServer().Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: %d", rec.Code)
	}
}
