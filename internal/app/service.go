package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"micropage/api/internal/access"
	"micropage/api/internal/analytics"
	"micropage/api/internal/config"
	"micropage/api/internal/draft"
	"micropage/api/internal/media"
	"micropage/api/internal/render"
	"micropage/api/internal/search"
	"micropage/api/internal/site"
	"micropage/api/internal/store"
	"micropage/api/internal/util"
)

type dataStore interface {
	CreateMicrosite(context.Context, store.Microsite) error
	GetMicrosite(context.Context, string) (store.Microsite, error)
	SaveConfig(context.Context, string, []byte) error
	ListMicrosites(context.Context) ([]store.MicrositeSummary, error)
	SearchMicrosites(context.Context, string, int) ([]store.MicrositeSummary, error)
	DeleteMicrosite(context.Context, string) error
	Ping(ctx context.Context) error
}

type uploader interface {
	Upload(ctx context.Context, kind media.Kind, filename, contentType string, r io.Reader, size int64) (string, error)
}

type siteIndexer interface {
	Search(ctx context.Context, q search.Query) search.Response
	IndexSite(rec search.SiteRecord)
	RemoveSite(id string)
}

type snapshotter interface {
	CaptureAndStore(ctx context.Context, micrositeID string) (string, error)
}

// editSession is one open editor session: a draft manager plus its save
// pipeline. Mutations within a session are serialized by mu; two sessions
// on the same microsite race by design, last successful save wins.
type editSession struct {
	mu       sync.Mutex
	mgr      *draft.Manager
	pipeline *draft.Pipeline
}

type Service struct {
	cfg       config.Config
	store     dataStore
	recovery  draft.RecoveryCache
	search    siteIndexer
	media     uploader
	snapshots snapshotter
	analytics analytics.Sink
	renderer  *render.Renderer

	sessionMu sync.Mutex
	sessions  map[string]*editSession
}

func New(cfg config.Config, dataStore dataStore, recoveryCache draft.RecoveryCache, searchService siteIndexer, mediaService uploader, snapshots snapshotter, sink analytics.Sink) (*Service, error) {
	if sink == nil {
		sink = analytics.Noop{}
	}
	renderer, err := render.New(sink)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:       cfg,
		store:     dataStore,
		recovery:  recoveryCache,
		search:    searchService,
		media:     mediaService,
		snapshots: snapshots,
		analytics: sink,
		renderer:  renderer,
		sessions:  make(map[string]*editSession),
	}, nil
}

// storePersister adapts the data store to the save pipeline's contract.
type storePersister struct {
	store dataStore
}

func (p storePersister) SaveConfig(ctx context.Context, micrositeID string, cfg site.Config) error {
	raw, err := cfg.Encode()
	if err != nil {
		return err
	}
	return p.store.SaveConfig(ctx, micrositeID, raw)
}

// CreateMicrosite seeds a new site with the always-on defaults and returns
// its ID plus the one-time edit key.
func (s *Service) CreateMicrosite(ctx context.Context, businessName string) (string, string, error) {
	if businessName == "" {
		return "", "", domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "businessName is required", nil)
	}

	editKey, err := access.NewEditKey()
	if err != nil {
		return "", "", err
	}
	keyHash, err := access.HashEditKey(editKey)
	if err != nil {
		return "", "", err
	}

	cfg := site.NewConfig(businessName)
	raw, err := cfg.Encode()
	if err != nil {
		return "", "", err
	}

	id := util.NewID("ms")
	if err := s.store.CreateMicrosite(ctx, store.Microsite{
		ID:           id,
		BusinessName: businessName,
		EditKeyHash:  keyHash,
		Config:       raw,
	}); err != nil {
		return "", "", err
	}

	if s.search != nil {
		s.search.IndexSite(search.SiteRecord{
			ID:           id,
			BusinessName: businessName,
			SEOTitle:     cfg.SEOSettings.Title,
			Description:  cfg.SEOSettings.Description,
		})
	}
	return id, editKey, nil
}

// OpenEditSession verifies the edit key and starts a session from the saved
// config. The returned session ID scopes all further edit calls.
func (s *Service) OpenEditSession(ctx context.Context, micrositeID, editKey string) (string, site.Config, map[site.SectionKey]bool, error) {
	m, err := s.store.GetMicrosite(ctx, micrositeID)
	if errors.Is(err, store.ErrNotFound) {
		return "", site.Config{}, nil, domainError(http.StatusNotFound, "NOT_FOUND", "Microsite not found", nil)
	}
	if err != nil {
		return "", site.Config{}, nil, err
	}
	if err := access.CheckEditKey(m.EditKeyHash, editKey); err != nil {
		return "", site.Config{}, nil, domainError(http.StatusForbidden, "FORBIDDEN", "Edit key does not match", nil)
	}

	saved, err := site.Decode(m.Config)
	if err != nil {
		return "", site.Config{}, nil, fmt.Errorf("load saved config %s: %w", micrositeID, err)
	}

	mgr := draft.NewManager(micrositeID, saved, s.recovery)
	session := &editSession{
		mgr:      mgr,
		pipeline: draft.NewPipeline(mgr, storePersister{store: s.store}),
	}

	sessionID := util.NewID("ses")
	s.sessionMu.Lock()
	s.sessions[sessionID] = session
	s.sessionMu.Unlock()

	return sessionID, mgr.Draft(), site.ResolveEditableTabs(saved), nil
}

func (s *Service) session(sessionID string) (*editSession, error) {
	s.sessionMu.Lock()
	session, ok := s.sessions[sessionID]
	s.sessionMu.Unlock()
	if !ok {
		return nil, domainError(http.StatusNotFound, "SESSION_NOT_FOUND", "Edit session not found", nil)
	}
	return session, nil
}

// CloseEditSession drops a session. Unsaved work stays in the recovery
// mirror until the next successful save.
func (s *Service) CloseEditSession(sessionID string) {
	s.sessionMu.Lock()
	delete(s.sessions, sessionID)
	s.sessionMu.Unlock()
}

// UpdateSection decodes the payload into the strict shape for key and
// replaces the draft's section wholesale.
func (s *Service) UpdateSection(ctx context.Context, sessionID string, key site.SectionKey, payload json.RawMessage) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	value, err := site.DecodeSection(key, payload)
	if err != nil {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.mgr.UpdateSection(ctx, key, value)
}

func (s *Service) SetSectionOrder(ctx context.Context, sessionID string, order []site.OrderEntry) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.mgr.SetSectionOrder(ctx, order)
	return nil
}

func (s *Service) SetSEO(ctx context.Context, sessionID string, seo site.SEOSection) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.mgr.SetSEO(ctx, seo)
	return nil
}

func (s *Service) SetTheme(ctx context.Context, sessionID string, theme *site.Theme) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.mgr.SetTheme(ctx, theme)
	return nil
}

func (s *Service) SetVoiceIntro(ctx context.Context, sessionID string, intro *site.VoiceIntro) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.mgr.SetVoiceIntro(ctx, intro)
	return nil
}

// Save runs the pipeline. On success the saved copy is reindexed for the
// dashboard; that happens here, not inside the pipeline.
func (s *Service) Save(ctx context.Context, sessionID string) (draft.Status, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return draft.Status{}, err
	}

	wasDirty := session.pipeline.Status().Dirty
	saveErr := session.pipeline.Save(ctx)
	status := session.pipeline.Status()
	if saveErr != nil {
		if errors.Is(saveErr, draft.ErrSaveInFlight) {
			return status, domainError(http.StatusConflict, "SAVE_IN_FLIGHT", "A save is already in progress", nil)
		}
		return status, domainError(http.StatusBadGateway, "SAVE_FAILED", saveErr.Error(), nil)
	}
	if !wasDirty {
		// Clean saves are a local no-op; nothing changed downstream.
		return status, nil
	}

	cfg := session.mgr.Baseline()
	micrositeID := session.mgr.MicrositeID()
	if s.search != nil {
		businessName := cfg.SEOSettings.Title
		if cfg.Sections.Profile != nil && cfg.Sections.Profile.DisplayName != "" {
			businessName = cfg.Sections.Profile.DisplayName
		}
		s.search.IndexSite(search.SiteRecord{
			ID:           micrositeID,
			BusinessName: businessName,
			SEOTitle:     cfg.SEOSettings.Title,
			Description:  cfg.SEOSettings.Description,
		})
	}
	s.analytics.Track(analytics.EventSavePublish, micrositeID, nil)
	if s.snapshots != nil {
		// Refresh the og:image preview off the request path.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := s.snapshots.CaptureAndStore(ctx, micrositeID); err != nil {
				log.Printf("app: page snapshot %s: %v", micrositeID, err)
			}
		}()
	}
	return status, nil
}

func (s *Service) SaveStatus(sessionID string) (draft.Status, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return draft.Status{}, err
	}
	return session.pipeline.Status(), nil
}

func (s *Service) DismissSaveError(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.pipeline.DismissError()
	return nil
}

// RecoverDraft reports whether an earlier session left a mirrored draft
// behind, without applying it.
func (s *Service) RecoverDraft(ctx context.Context, sessionID string) (site.Config, bool, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return site.Config{}, false, err
	}
	return session.mgr.Recover(ctx)
}

// AdoptRecoveredDraft applies the mirrored draft after the user consented.
func (s *Service) AdoptRecoveredDraft(ctx context.Context, sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	recovered, ok, err := session.mgr.Recover(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return domainError(http.StatusNotFound, "NO_RECOVERED_DRAFT", "No recovered draft available", nil)
	}
	session.mgr.AdoptRecovered(ctx, recovered)
	return nil
}

// Draft returns the session's current working copy and tab map.
func (s *Service) Draft(sessionID string) (site.Config, map[site.SectionKey]bool, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return site.Config{}, nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	cfg := session.mgr.Draft()
	return cfg, site.ResolveEditableTabs(cfg), nil
}

// GetSite returns the saved config and its resolved render order, for
// consumers that render the page themselves.
func (s *Service) GetSite(ctx context.Context, micrositeID string) (site.Config, []site.SectionKey, error) {
	m, err := s.store.GetMicrosite(ctx, micrositeID)
	if errors.Is(err, store.ErrNotFound) {
		return site.Config{}, nil, domainError(http.StatusNotFound, "NOT_FOUND", "Microsite not found", nil)
	}
	if err != nil {
		return site.Config{}, nil, err
	}
	cfg, err := site.Decode(m.Config)
	if err != nil {
		return site.Config{}, nil, fmt.Errorf("load saved config %s: %w", micrositeID, err)
	}
	return cfg, site.ResolveRenderList(cfg), nil
}

// DeleteMicrosite removes a site and its search record. The edit key is
// required; there is no softer form of ownership.
func (s *Service) DeleteMicrosite(ctx context.Context, micrositeID, editKey string) error {
	m, err := s.store.GetMicrosite(ctx, micrositeID)
	if errors.Is(err, store.ErrNotFound) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Microsite not found", nil)
	}
	if err != nil {
		return err
	}
	if err := access.CheckEditKey(m.EditKeyHash, editKey); err != nil {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Edit key does not match", nil)
	}
	if err := s.store.DeleteMicrosite(ctx, micrositeID); err != nil {
		return err
	}
	if s.search != nil {
		s.search.RemoveSite(micrositeID)
	}
	return nil
}

// RenderPage writes the public page for a microsite. A missing site renders
// the terminal not-available page rather than an error.
func (s *Service) RenderPage(ctx context.Context, w io.Writer, micrositeID string) error {
	m, err := s.store.GetMicrosite(ctx, micrositeID)
	if errors.Is(err, store.ErrNotFound) {
		return s.renderer.NewPage(micrositeID, nil).Render(w)
	}
	if err != nil {
		return err
	}
	cfg, err := site.Decode(m.Config)
	if err != nil {
		// A corrupt saved copy degrades the same way as a missing one.
		return s.renderer.NewPage(micrositeID, nil).Render(w)
	}
	return s.renderer.NewPage(micrositeID, &cfg).Render(w)
}

// Upload stores an asset and returns its URL.
func (s *Service) Upload(ctx context.Context, kind media.Kind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if s.media == nil {
		return "", domainError(http.StatusNotImplemented, "UPLOADS_DISABLED", "Uploads are not configured", nil)
	}
	if !media.ValidKind(kind) {
		return "", domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("unknown upload kind %q", kind), nil)
	}
	return s.media.Upload(ctx, kind, filename, contentType, r, size)
}

// SearchSites serves the dashboard search box.
func (s *Service) SearchSites(ctx context.Context, text string, limit int) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: text}
	}
	return s.search.Search(ctx, search.Query{Text: text, Limit: limit})
}

func (s *Service) ListSites(ctx context.Context) ([]store.MicrositeSummary, error) {
	return s.store.ListMicrosites(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
