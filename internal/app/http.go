package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"micropage/api/internal/media"
	"micropage/api/internal/site"
)

const maxUploadBytes = 25 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(r.Context()); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{"status": "error", "error": err.Error()}
		}
		writeJSON(w, statusCode, map[string]any{"ok": status == "ready", "status": status, "checks": checks})
		return
	}

	// Public page - no key required.
	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/sites/") {
		micrositeID := strings.TrimPrefix(r.URL.Path, "/sites/")
		if micrositeID != "" && !strings.Contains(micrositeID, "/") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := s.service.RenderPage(r.Context(), w, micrositeID); err != nil {
				log.Printf("http: render page %s: %v", micrositeID, err)
			}
			return
		}
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/microsites" {
		var body struct {
			BusinessName string `json:"businessName"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		id, editKey, err := s.service.CreateMicrosite(r.Context(), strings.TrimSpace(body.BusinessName))
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id, "editKey": editKey})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/microsites" {
		sites, err := s.service.ListSites(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		out := make([]map[string]any, 0, len(sites))
		for _, m := range sites {
			out = append(out, map[string]any{
				"id":           m.ID,
				"businessName": m.BusinessName,
				"seoTitle":     m.SEOTitle,
				"updatedAt":    m.UpdatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"microsites": out})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := 20
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}
		writeJSON(w, http.StatusOK, s.service.SearchSites(r.Context(), q, limit))
		return
	}

	if r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/microsites/") && strings.HasSuffix(r.URL.Path, "/sessions") {
		micrositeID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/microsites/"), "/sessions")
		var body struct {
			EditKey string `json:"editKey"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		sessionID, cfg, tabs, err := s.service.OpenEditSession(r.Context(), micrositeID, body.EditKey)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"sessionId": sessionID, "config": cfg, "tabs": tabs})
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/microsites/") && !strings.Contains(strings.TrimPrefix(r.URL.Path, "/api/microsites/"), "/") {
		micrositeID := strings.TrimPrefix(r.URL.Path, "/api/microsites/")
		switch r.Method {
		case http.MethodGet:
			cfg, renderList, err := s.service.GetSite(r.Context(), micrositeID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"config": cfg, "renderList": renderList})
		case http.MethodDelete:
			var body struct {
				EditKey string `json:"editKey"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			if err := s.service.DeleteMicrosite(r.Context(), micrositeID, body.EditKey); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		}
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/uploads" {
		s.handleUpload(w, r)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/sessions/") {
		s.handleSession(w, r)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// handleSession dispatches everything under /api/sessions/{sid}.
func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	sessionID := parts[0]
	if sessionID == "" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		cfg, tabs, err := s.service.Draft(sessionID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"config": cfg, "tabs": tabs})

	case r.Method == http.MethodDelete && action == "":
		s.service.CloseEditSession(sessionID)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPut && strings.HasPrefix(action, "sections/"):
		key := site.SectionKey(strings.TrimPrefix(action, "sections/"))
		var payload json.RawMessage
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.UpdateSection(r.Context(), sessionID, key, payload); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPut && action == "order":
		var body struct {
			Order []site.OrderEntry `json:"order"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SetSectionOrder(r.Context(), sessionID, body.Order); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPut && action == "seo":
		var seo site.SEOSection
		if err := decodeBody(r, &seo); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SetSEO(r.Context(), sessionID, seo); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPut && action == "theme":
		var theme *site.Theme
		if err := decodeBody(r, &theme); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SetTheme(r.Context(), sessionID, theme); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPut && action == "voice":
		var intro *site.VoiceIntro
		if err := decodeBody(r, &intro); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SetVoiceIntro(r.Context(), sessionID, intro); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodPost && action == "save":
		status, err := s.service.Save(r.Context(), sessionID)
		if err != nil {
			httpStatus, code, message, _ := mapError(err)
			writeError(w, httpStatus, code, message, map[string]any{"status": status})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": status})

	case r.Method == http.MethodGet && action == "status":
		status, err := s.service.SaveStatus(sessionID)
		if err != nil {
			httpStatus, code, message, details := mapError(err)
			writeError(w, httpStatus, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": status})

	case r.Method == http.MethodPost && action == "dismiss-error":
		if err := s.service.DismissSaveError(sessionID); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case r.Method == http.MethodGet && action == "recovered":
		cfg, found, err := s.service.RecoverDraft(r.Context(), sessionID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"found": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"found": true, "config": cfg})

	case r.Method == http.MethodPost && action == "restore":
		if err := s.service.AdoptRecoveredDraft(r.Context(), sessionID); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "multipart form expected", nil)
		return
	}
	kind := media.Kind(r.FormValue("kind"))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "file field is required", nil)
		return
	}
	defer file.Close()

	url, err := s.service.Upload(r.Context(), kind, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"url": url})
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.corsOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("http: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func mapError(err error) (int, string, string, any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	return http.StatusInternalServerError, "INTERNAL", "Internal error", nil
}
