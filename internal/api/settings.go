package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/als-astro/als/internal/config"
)

const maxSettingBodySize = 4 << 10 // 4KB

// Deps holds what the HTTP handlers need.
type Deps struct {
	Settings *config.Settings
}

type settingsResponse struct {
	Path     string           `json:"path"`
	Settings []config.KeyInfo `json:"settings"`
}

type putSettingRequest struct {
	Value *string `json:"value"`
}

// NewHandler returns the web server routes: health, settings and the work
// folder's files.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)

	r.Get("/health", handleHealth)
	r.Get("/api/settings", handleGetSettings(deps))
	r.Get("/api/settings/{key}", handleGetSetting(deps))
	r.Put("/api/settings/{key}", handlePutSetting(deps))
	r.Get("/work/*", handleWorkFiles(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleGetSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsResponse{
			Path:     deps.Settings.Path(),
			Settings: config.ShowAll(deps.Settings),
		})
	}
}

func handleGetSetting(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k, err := config.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			httpError(w, http.StatusNotFound, "not_found", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, config.Describe(deps.Settings, k))
	}
}

func handlePutSetting(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSettingBodySize)
		defer r.Body.Close()

		var req putSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Value == nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "value is required")
			return
		}

		k, err := config.SetKey(deps.Settings, chi.URLParam(r, "key"), *req.Value)
		switch {
		case errors.Is(err, config.ErrUnknownKey):
			httpError(w, http.StatusNotFound, "not_found", "%v", err)
			return
		case errors.Is(err, config.ErrInvalidValue):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}

		if err := deps.Settings.Save(); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "settings not saved: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, config.Describe(deps.Settings, k))
	}
}

// handleWorkFiles serves the work folder read-only. The folder is looked up
// per request so a changed setting applies without a restart.
func handleWorkFiles(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		root := deps.Settings.WorkFolderPath()
		name := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if strings.HasPrefix(name, ".") || strings.Contains(name, "/.") {
			httpError(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		http.StripPrefix("/work", http.FileServer(http.Dir(root))).ServeHTTP(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
