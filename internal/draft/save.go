package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"micropage/api/internal/site"
)

// ErrSaveInFlight is returned when Save is called while a previous attempt
// has not resolved. The caller retries after the in-flight save settles; the
// pipeline never issues two persistence calls for one session at once.
var ErrSaveInFlight = errors.New("save already in progress")

// successWindow is how long the transient "saved" signal stays visible.
const successWindow = 3 * time.Second

// Persister writes the saved copy of a microsite config. Implementations
// must be retry-safe: the pipeline re-invokes after failures.
type Persister interface {
	SaveConfig(ctx context.Context, micrositeID string, cfg site.Config) error
}

// Status is a point-in-time view of the pipeline for the editing surface.
type Status struct {
	Saving    bool   `json:"saving"`
	Dirty     bool   `json:"dirty"`
	JustSaved bool   `json:"justSaved"`
	LastError string `json:"lastError,omitempty"`
}

// Pipeline drives Idle -> Saving -> Idle over a Manager. A successful save
// commits the baseline and clears the recovery mirror; a failed one leaves
// everything exactly as it was.
type Pipeline struct {
	mgr       *Manager
	persister Persister

	mu           sync.Mutex
	saving       bool
	lastErr      error
	successUntil time.Time

	now func() time.Time
}

func NewPipeline(mgr *Manager, persister Persister) *Pipeline {
	return &Pipeline{
		mgr:       mgr,
		persister: persister,
		now:       time.Now,
	}
}

// Save persists the draft. A clean draft reports success without touching
// the persister; a save while one is in flight returns ErrSaveInFlight.
func (p *Pipeline) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.saving {
		p.mu.Unlock()
		return ErrSaveInFlight
	}
	if !p.mgr.IsDirty() {
		p.lastErr = nil
		p.successUntil = p.now().Add(successWindow)
		p.mu.Unlock()
		return nil
	}
	p.saving = true
	snapshot := p.mgr.Draft()
	micrositeID := p.mgr.MicrositeID()
	p.mu.Unlock()

	err := p.persister.SaveConfig(ctx, micrositeID, snapshot)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.saving = false
	if err != nil {
		// Draft, baseline, and recovery mirror stay untouched so the
		// unsaved work remains recoverable.
		p.lastErr = err
		p.successUntil = time.Time{}
		return fmt.Errorf("save microsite %s: %w", micrositeID, err)
	}
	if err := p.mgr.commit(ctx, snapshot); err != nil {
		// The server copy is saved; only the local mirror cleanup failed.
		// The session is clean either way.
		p.lastErr = nil
		p.successUntil = p.now().Add(successWindow)
		return err
	}
	p.lastErr = nil
	p.successUntil = p.now().Add(successWindow)
	return nil
}

// Status reports the pipeline state. The success signal self-expires after
// the display window; the failure message persists until the next attempt.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := Status{
		Saving:    p.saving,
		Dirty:     p.mgr.IsDirty(),
		JustSaved: p.now().Before(p.successUntil),
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	return st
}

// DismissError clears a surfaced failure without retrying.
func (p *Pipeline) DismissError() {
	p.mu.Lock()
	p.lastErr = nil
	p.mu.Unlock()
}
