// Package draft owns the in-memory working copy of a microsite config
// during an edit session: dirtiness against the last-saved baseline, the
// recovery mirror, and the save pipeline layered on top.
package draft

import (
	"context"
	"fmt"
	"log"
	"sync"

	"micropage/api/internal/site"
)

// RecoveryCache mirrors in-progress drafts across a reload boundary. Keys
// are microsite IDs; a session must never see another microsite's draft.
type RecoveryCache interface {
	Put(ctx context.Context, micrositeID string, cfg site.Config) error
	Get(ctx context.Context, micrositeID string) (site.Config, bool, error)
	Clear(ctx context.Context, micrositeID string) error
}

// Manager holds one edit session's draft and baseline. There is exactly one
// Manager per open session; concurrent sessions on the same microsite are
// resolved by last successful save. Editing may continue while a save is in
// flight, so draft and baseline access is guarded by mu.
type Manager struct {
	micrositeID string
	cache       RecoveryCache

	mu       sync.Mutex
	draft    site.Config
	baseline site.Config
}

// NewManager starts a session from the last-known-saved config.
func NewManager(micrositeID string, saved site.Config, cache RecoveryCache) *Manager {
	return &Manager{
		micrositeID: micrositeID,
		draft:       saved.Clone(),
		baseline:    saved.Clone(),
		cache:       cache,
	}
}

func (m *Manager) MicrositeID() string { return m.micrositeID }

// Draft returns a copy of the working config. Mutation goes through the
// Update* methods so the recovery mirror stays current.
func (m *Manager) Draft() site.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Clone()
}

// Baseline returns a copy of the last-known-saved config.
func (m *Manager) Baseline() site.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline.Clone()
}

// IsDirty reports whether the draft differs structurally from the baseline.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.draft.Equal(m.baseline)
}

// UpdateSection replaces the draft's section for key wholesale. Validation
// happens in the section editors before this call; none is repeated here.
func (m *Manager) UpdateSection(ctx context.Context, key site.SectionKey, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := site.SetSection(&m.draft, key, value); err != nil {
		return err
	}
	m.mirror(ctx)
	return nil
}

// SetSectionOrder replaces the page layout.
func (m *Manager) SetSectionOrder(ctx context.Context, order []site.OrderEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.SectionOrder = append([]site.OrderEntry(nil), order...)
	m.mirror(ctx)
}

// SetSEO replaces the global SEO settings.
func (m *Manager) SetSEO(ctx context.Context, seo site.SEOSection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.SEOSettings = seo
	m.mirror(ctx)
}

// SetTheme replaces the premium theme block; nil disables it.
func (m *Manager) SetTheme(ctx context.Context, theme *site.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.Theme = theme
	m.mirror(ctx)
}

// SetVoiceIntro replaces the premium voice intro block; nil disables it.
func (m *Manager) SetVoiceIntro(ctx context.Context, intro *site.VoiceIntro) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.VoiceIntro = intro
	m.mirror(ctx)
}

// Recover returns the mirrored draft for this microsite, if one survives
// from an earlier session. It is never applied automatically; the caller
// decides, with explicit user consent, whether to adopt it.
func (m *Manager) Recover(ctx context.Context) (site.Config, bool, error) {
	if m.cache == nil {
		return site.Config{}, false, nil
	}
	return m.cache.Get(ctx, m.micrositeID)
}

// AdoptRecovered replaces the draft with a recovered config. The baseline
// stays untouched, so the session immediately reads as dirty.
func (m *Manager) AdoptRecovered(ctx context.Context, cfg site.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = cfg.Clone()
	m.mirror(ctx)
}

// mirror pushes the full draft into the recovery cache. Callers hold mu.
// The mirror is advisory: a write failure is logged and editing continues.
func (m *Manager) mirror(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Put(ctx, m.micrositeID, m.draft); err != nil {
		log.Printf("draft: mirror %s: %v", m.micrositeID, err)
	}
}

// commit is called by the save pipeline after a confirmed save: the
// baseline becomes the value snapshot that was persisted and the recovery
// mirror is dropped so a stale draft cannot mask the new saved state.
func (m *Manager) commit(ctx context.Context, saved site.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline = saved.Clone()
	if m.cache == nil {
		return nil
	}
	if err := m.cache.Clear(ctx, m.micrositeID); err != nil {
		return fmt.Errorf("clear recovery cache: %w", err)
	}
	return nil
}
