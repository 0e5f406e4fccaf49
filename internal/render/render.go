// Package render composes the public microsite page from a resolved section
// list and a config, and fires the page-view event once per mount.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"micropage/api/internal/analytics"
	"micropage/api/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed templates and the analytics collaborator. It is
// safe for concurrent use; per-request state lives on Page.
type Renderer struct {
	tmpl      *template.Template
	analytics analytics.Sink
}

func New(sink analytics.Sink) (*Renderer, error) {
	if sink == nil {
		sink = analytics.Noop{}
	}
	tmpl, err := template.New("page").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, analytics: sink}, nil
}

// Page is one mount of a microsite. Render may run more than once on the
// same Page (the caller re-renders on unrelated state changes); the
// page-view event still fires exactly once.
type Page struct {
	renderer    *Renderer
	micrositeID string
	cfg         *site.Config
	viewOnce    sync.Once
}

// NewPage prepares a mount. A nil cfg means the site's data is missing
// entirely; Render then produces the terminal "not available" page instead
// of failing.
func (r *Renderer) NewPage(micrositeID string, cfg *site.Config) *Page {
	return &Page{renderer: r, micrositeID: micrositeID, cfg: cfg}
}

// sectionView is one rendered section handed to the page template.
type sectionView struct {
	Key  site.SectionKey
	HTML template.HTML
}

type pageData struct {
	SEO      site.SEOSection
	Theme    site.Theme
	Voice    *site.VoiceIntro
	Sections []sectionView
}

// Render writes the full page. Sections appear in resolved order with a
// divider between adjacent sections and none before the first; that spacing
// lives in the page template itself.
func (p *Page) Render(w io.Writer) error {
	if p.cfg == nil {
		// No page view for a dead page.
		return p.renderer.tmpl.ExecuteTemplate(w, "not_available", nil)
	}

	cfg := *p.cfg
	data := pageData{
		SEO:   cfg.SEOSettings,
		Theme: site.EffectiveTheme(cfg.Theme),
		Voice: cfg.VoiceIntro,
	}

	for _, key := range site.ResolveRenderList(cfg) {
		html, err := p.renderer.renderSection(cfg, key)
		if err != nil {
			// A malformed section degrades by itself; the rest of the
			// page still renders.
			continue
		}
		if len(strings.TrimSpace(string(html))) == 0 {
			// Sections without a body view (seo feeds the head instead)
			// get no slot and no divider.
			continue
		}
		data.Sections = append(data.Sections, sectionView{Key: key, HTML: html})
	}

	var buf bytes.Buffer
	if err := p.renderer.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("render page %s: %w", p.micrositeID, err)
	}

	p.viewOnce.Do(func() {
		p.renderer.analytics.Track(analytics.EventPageView, p.micrositeID, nil)
	})

	_, err := buf.WriteTo(w)
	return err
}

// renderSection executes the per-key template against the effective section
// value, falling back to the default shape when the config never stored one.
func (r *Renderer) renderSection(cfg site.Config, key site.SectionKey) (template.HTML, error) {
	value, ok := site.EffectiveSection(cfg, key)
	if !ok {
		return "", fmt.Errorf("no view for section %s", key)
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "section-"+string(key), value); err != nil {
		return "", fmt.Errorf("render section %s: %w", key, err)
	}
	return template.HTML(buf.String()), nil
}
