package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/als-astro/als/internal/config"
)

func do(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	settings, _ := newTestSettings(t)
	w := do(t, NewHandler(Deps{Settings: settings}), http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-Id = %q: %v", w.Header().Get(RequestIDHeader), err)
	}
}

func TestRequestIDReused(t *testing.T) {
	settings, _ := newTestSettings(t)
	h := NewHandler(Deps{Settings: settings})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Errorf("X-Request-Id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("malformed request id echoed back")
	}
}

func TestGetSettings(t *testing.T) {
	settings, path := newTestSettings(t)
	settings.SetWindowGeometry(config.Geometry{X: 1, Y: 2, Width: 3, Height: 4})

	w := do(t, NewHandler(Deps{Settings: settings}), http.MethodGet, "/api/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp settingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Path != path {
		t.Errorf("path = %q, want %q", resp.Path, path)
	}
	if len(resp.Settings) != len(config.Keys()) {
		t.Fatalf("got %d settings", len(resp.Settings))
	}
	for _, s := range resp.Settings {
		if s.Key == "window_geometry" && s.Value != "1,2,3,4" {
			t.Errorf("window_geometry = %q", s.Value)
		}
	}
}

func TestGetSetting(t *testing.T) {
	settings, _ := newTestSettings(t)
	h := NewHandler(Deps{Settings: settings})

	w := do(t, h, http.MethodGet, "/api/settings/log_level", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var info config.KeyInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Value != "INFO" || info.Overridden {
		t.Errorf("log_level = %+v", info)
	}

	if w := do(t, h, http.MethodGet, "/api/settings/theme", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, want 404", w.Code)
	}
}

func TestPutSetting(t *testing.T) {
	settings, path := newTestSettings(t)
	h := NewHandler(Deps{Settings: settings})

	w := do(t, h, http.MethodPut, "/api/settings/www_server_port", `{"value":"8081"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if settings.WWWServerPort() != 8081 {
		t.Errorf("port = %d, want 8081", settings.WWWServerPort())
	}

	reloaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.WWWServerPort() != 8081 {
		t.Errorf("persisted port = %d, want 8081", reloaded.WWWServerPort())
	}
}

func TestPutSettingErrors(t *testing.T) {
	settings, _ := newTestSettings(t)
	h := NewHandler(Deps{Settings: settings})

	tests := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"out of range port", "/api/settings/www_server_port", `{"value":"80"}`, http.StatusBadRequest},
		{"bad geometry", "/api/settings/window_geometry", `{"value":"1,2"}`, http.StatusBadRequest},
		{"missing value", "/api/settings/log_level", `{}`, http.StatusBadRequest},
		{"invalid json", "/api/settings/log_level", `{`, http.StatusBadRequest},
		{"unknown key", "/api/settings/theme", `{"value":"dark"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, tt.url, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			var body map[string]map[string]any
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if msg, _ := body["error"]["message"].(string); msg == "" {
				t.Errorf("error body = %v", body)
			}
		})
	}
	if len(settings.Section()) != 0 {
		t.Errorf("rejected requests changed settings: %v", settings.Section())
	}
}

func TestPutSettingSaveFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	settings, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing", ".als.cfg"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	w := do(t, NewHandler(Deps{Settings: settings}), http.MethodPut, "/api/settings/log_level", `{"value":"ERROR"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "settings not saved") {
		t.Errorf("body = %s", w.Body.String())
	}
	if got := settings.Get(config.KeyLogLevel); got != "ERROR" {
		t.Errorf("in-memory log_level = %q, want ERROR", got)
	}
}

func TestWorkFiles(t *testing.T) {
	settings, _ := newTestSettings(t)
	work := t.TempDir()
	settings.SetWorkFolderPath(work)
	if err := os.WriteFile(filepath.Join(work, "stack.jpg"), []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, ".secret"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(Deps{Settings: settings})

	w := do(t, h, http.MethodGet, "/work/stack.jpg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), []byte("jpegdata")) {
		t.Errorf("body = %q", w.Body.String())
	}

	if w := do(t, h, http.MethodGet, "/work/.secret", ""); w.Code != http.StatusNotFound {
		t.Errorf("dotfile status = %d, want 404", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/work/missing.jpg", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", w.Code)
	}
}
