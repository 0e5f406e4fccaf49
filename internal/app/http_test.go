package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	svc, _ := newTestService(t, fs)
	server := httptest.NewServer(NewHTTPServer(svc, "*").Handler())
	t.Cleanup(server.Close)
	return server, fs
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, payload
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	code, payload := doJSON(t, http.MethodGet, server.URL+"/api/health", "")
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if ok, _ := payload["ok"].(bool); !ok {
		t.Errorf("expected ok=true, got %v", payload)
	}
}

func TestReadyEndpoint(t *testing.T) {
	server, fs := newTestServer(t)

	code, payload := doJSON(t, http.MethodGet, server.URL+"/api/ready", "")
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if status, _ := payload["status"].(string); status != "ready" {
		t.Errorf("expected ready, got %v", payload)
	}

	fs.pingFn = func(context.Context) error { return errors.New("connection refused") }
	code, payload = doJSON(t, http.MethodGet, server.URL+"/api/ready", "")
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if status, _ := payload["status"].(string); status != "not_ready" {
		t.Errorf("expected not_ready, got %v", payload)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	server, _ := newTestServer(t)

	code, payload := doJSON(t, http.MethodGet, server.URL+"/api/nope", "")
	if code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
	errBody, _ := payload["error"].(map[string]any)
	if errBody["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND code, got %v", payload)
	}
}

func TestEditLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	code, created := doJSON(t, http.MethodPost, server.URL+"/api/microsites",
		`{"businessName": "Ravi Tailors"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%v)", code, created)
	}
	id, _ := created["id"].(string)
	editKey, _ := created["editKey"].(string)
	if id == "" || editKey == "" {
		t.Fatalf("create returned %v", created)
	}

	code, opened := doJSON(t, http.MethodPost, server.URL+"/api/microsites/"+id+"/sessions",
		`{"editKey": "`+editKey+`"}`)
	if code != http.StatusCreated {
		t.Fatalf("open session: expected 201, got %d (%v)", code, opened)
	}
	sessionID, _ := opened["sessionId"].(string)
	if sessionID == "" {
		t.Fatalf("open session returned %v", opened)
	}
	if _, ok := opened["tabs"].(map[string]any); !ok {
		t.Errorf("expected tab map, got %v", opened["tabs"])
	}

	base := server.URL + "/api/sessions/" + sessionID
	code, _ = doJSON(t, http.MethodPut, base+"/sections/about",
		`{"enabled": true, "title": "About", "body": "Tailoring since 1998"}`)
	if code != http.StatusOK {
		t.Fatalf("update section: expected 200, got %d", code)
	}

	code, statusBody := doJSON(t, http.MethodGet, base+"/status", "")
	if code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", code)
	}
	status, _ := statusBody["status"].(map[string]any)
	if dirty, _ := status["dirty"].(bool); !dirty {
		t.Errorf("expected dirty status, got %v", statusBody)
	}

	code, saved := doJSON(t, http.MethodPost, base+"/save", "")
	if code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d (%v)", code, saved)
	}
	status, _ = saved["status"].(map[string]any)
	if justSaved, _ := status["justSaved"].(bool); !justSaved {
		t.Errorf("expected justSaved, got %v", saved)
	}

	// The public page now carries the saved content.
	resp, err := http.Get(server.URL + "/sites/" + id)
	if err != nil {
		t.Fatalf("get public page: %v", err)
	}
	defer resp.Body.Close()
	page, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read public page: %v", err)
	}
	if !strings.Contains(string(page), "Tailoring since 1998") {
		t.Errorf("public page missing saved content")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}

	code, _ = doJSON(t, http.MethodDelete, base, "")
	if code != http.StatusOK {
		t.Fatalf("close session: expected 200, got %d", code)
	}
	code, _ = doJSON(t, http.MethodGet, base+"/status", "")
	if code != http.StatusNotFound {
		t.Errorf("closed session should 404, got %d", code)
	}
}

func TestWrongEditKeyOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	code, created := doJSON(t, http.MethodPost, server.URL+"/api/microsites",
		`{"businessName": "Ravi Tailors"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", code)
	}
	id, _ := created["id"].(string)

	code, payload := doJSON(t, http.MethodPost, server.URL+"/api/microsites/"+id+"/sessions",
		`{"editKey": "wrong"}`)
	if code != http.StatusForbidden {
		t.Errorf("expected 403, got %d (%v)", code, payload)
	}
}

func TestInvalidSectionPayloadOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, server.URL+"/api/microsites",
		`{"businessName": "Ravi Tailors"}`)
	id, _ := created["id"].(string)
	editKey, _ := created["editKey"].(string)
	_, opened := doJSON(t, http.MethodPost, server.URL+"/api/microsites/"+id+"/sessions",
		`{"editKey": "`+editKey+`"}`)
	sessionID, _ := opened["sessionId"].(string)

	code, payload := doJSON(t, http.MethodPut,
		server.URL+"/api/sessions/"+sessionID+"/sections/about", `{"enabled": "yes"}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (%v)", code, payload)
	}
}

func TestCORSHeaders(t *testing.T) {
	server, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/microsites", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected wildcard origin, got %q", origin)
	}
}
