package render

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"micropage/api/internal/site"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Track(eventType, micrositeID string, metadata map[string]string) {
	r.mu.Lock()
	r.events = append(r.events, eventType+":"+micrositeID)
	r.mu.Unlock()
}

func renderToString(t *testing.T, page *Page) string {
	t.Helper()
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestSeparatorsBetweenSectionsOnly(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	cfg.SectionOrder = []site.OrderEntry{
		{ID: site.KeyHero, Enabled: true},
		{ID: site.KeyAbout, Enabled: true},
		{ID: site.KeyContact, Enabled: true},
	}

	html := renderToString(t, renderer.NewPage("ms_1", &cfg))
	dividers := strings.Count(html, `<hr class="section-divider">`)
	if dividers != 2 {
		t.Fatalf("got %d dividers for 3 sections, want 2", dividers)
	}
	body := html[strings.Index(html, "<body>"):]
	if strings.Index(body, `<hr class="section-divider">`) < strings.Index(body, "<section") {
		t.Errorf("divider appears before the first section")
	}
}

func TestPageViewFiresOncePerMount(t *testing.T) {
	sink := &recordingSink{}
	renderer, err := New(sink)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	page := renderer.NewPage("ms_1", &cfg)

	renderToString(t, page)
	renderToString(t, page)
	renderToString(t, page)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 1 {
		t.Fatalf("page view fired %d times across re-renders, want 1", len(sink.events))
	}
	if sink.events[0] != "page_view:ms_1" {
		t.Errorf("unexpected event %q", sink.events[0])
	}
}

func TestEachMountFiresItsOwnView(t *testing.T) {
	sink := &recordingSink{}
	renderer, err := New(sink)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	renderToString(t, renderer.NewPage("ms_1", &cfg))
	renderToString(t, renderer.NewPage("ms_1", &cfg))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 2 {
		t.Fatalf("two mounts fired %d views, want 2", len(sink.events))
	}
}

func TestMissingDataRendersNotAvailable(t *testing.T) {
	sink := &recordingSink{}
	renderer, err := New(sink)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html := renderToString(t, renderer.NewPage("ms_gone", nil))
	if !strings.Contains(html, "not available") {
		t.Fatalf("missing data did not produce the not-available page")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 0 {
		t.Errorf("dead page tracked a view")
	}
}

func TestAbsentContactRendersDefaultShape(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	cfg.Sections.Contact = nil
	cfg.SectionOrder = []site.OrderEntry{{ID: site.KeyContact, Enabled: true}}

	html := renderToString(t, renderer.NewPage("ms_1", &cfg))
	if !strings.Contains(html, `class="contact"`) {
		t.Fatalf("contact section omitted despite being always-on")
	}
	if !strings.Contains(html, `class="map"`) {
		t.Errorf("default contact should show the map")
	}
	for _, field := range []string{"name", "email", "phone", "message"} {
		if !strings.Contains(html, `name="`+field+`"`) {
			t.Errorf("default lead form missing field %q", field)
		}
	}
}

func TestThemeTokensProjectedWithDefaults(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	html := renderToString(t, renderer.NewPage("ms_1", &cfg))
	if !strings.Contains(html, "--mp-primary: "+site.DefaultPrimaryColor) {
		t.Errorf("default primary token missing")
	}

	cfg.Theme = &site.Theme{Primary: "#123456"}
	html = renderToString(t, renderer.NewPage("ms_1", &cfg))
	if !strings.Contains(html, "--mp-primary: #123456") {
		t.Errorf("custom primary token not projected")
	}
	if !strings.Contains(html, "--mp-accent: "+site.DefaultAccentColor) {
		t.Errorf("missing accent token should fall back to the default")
	}
}

func TestSEOSectionProducesNoBodySlot(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := site.NewConfig("Ballard Bakery")
	cfg.SectionOrder = []site.OrderEntry{
		{ID: site.KeyHero, Enabled: true},
		{ID: site.KeySEO, Enabled: true},
	}

	html := renderToString(t, renderer.NewPage("ms_1", &cfg))
	if strings.Contains(html, `<hr class="section-divider">`) {
		t.Fatalf("seo entry produced a divider slot")
	}
}
