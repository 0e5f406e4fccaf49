package site

import (
	"reflect"
	"testing"
)

func orderOf(keys ...SectionKey) []OrderEntry {
	order := make([]OrderEntry, 0, len(keys))
	for _, key := range keys {
		order = append(order, OrderEntry{ID: key, Enabled: true})
	}
	return order
}

func TestResolveRenderListDeterministic(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.Gallery = &GallerySection{Enabled: true, Images: []GalleryImage{{URL: "https://cdn.example/1.jpg"}}}

	first := ResolveRenderList(cfg)
	second := ResolveRenderList(cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution not deterministic: %v vs %v", first, second)
	}
}

func TestRenderListFollowsOrder(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.SectionOrder = orderOf(KeyAbout, KeyHero, KeyContact)

	got := ResolveRenderList(cfg)
	want := []SectionKey{KeyAbout, KeyHero, KeyContact}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("render list = %v, want %v", got, want)
	}
}

func TestUnlistedSectionNeverRenders(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.CTA = &CTASection{Enabled: true, Label: "Call now", Target: "tel:+15550100"}
	cfg.SectionOrder = orderOf(KeyHero, KeyContact)

	for _, key := range ResolveRenderList(cfg) {
		if key == KeyCTA {
			t.Fatalf("cta rendered despite being absent from section order")
		}
	}
}

func TestDualFlagTieBreak(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.CTA = &CTASection{Enabled: true, Label: "Call now", Target: "tel:+15550100"}
	cfg.SectionOrder = []OrderEntry{
		{ID: KeyHero, Enabled: true},
		{ID: KeyCTA, Enabled: false},
	}

	for _, key := range ResolveRenderList(cfg) {
		if key == KeyCTA {
			t.Fatalf("cta rendered with order entry disabled")
		}
	}

	// Flip the disagreement around: order says yes, section says no.
	cfg.Sections.CTA.Enabled = false
	cfg.SectionOrder[1].Enabled = true
	for _, key := range ResolveRenderList(cfg) {
		if key == KeyCTA {
			t.Fatalf("cta rendered with its own flag disabled")
		}
	}

	// Both true renders.
	cfg.Sections.CTA.Enabled = true
	found := false
	for _, key := range ResolveRenderList(cfg) {
		if key == KeyCTA {
			found = true
		}
	}
	if !found {
		t.Fatalf("cta missing with both flags enabled")
	}
}

func TestUnknownOrderKeySkipped(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.SectionOrder = []OrderEntry{
		{ID: KeyHero, Enabled: true},
		{ID: SectionKey("holograms"), Enabled: true},
		{ID: KeyContact, Enabled: true},
	}

	got := ResolveRenderList(cfg)
	want := []SectionKey{KeyHero, KeyContact}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("render list = %v, want %v", got, want)
	}
}

func TestEmptyGallerySuppressed(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.Gallery = &GallerySection{Enabled: true, Images: []GalleryImage{}}
	cfg.SectionOrder = orderOf(KeyHero, KeyGallery, KeyContact)

	for _, key := range ResolveRenderList(cfg) {
		if key == KeyGallery {
			t.Fatalf("empty gallery rendered")
		}
	}

	cfg.Sections.Gallery.Images = append(cfg.Sections.Gallery.Images, GalleryImage{URL: "https://cdn.example/1.jpg"})
	found := false
	for _, key := range ResolveRenderList(cfg) {
		if key == KeyGallery {
			found = true
		}
	}
	if !found {
		t.Fatalf("non-empty gallery suppressed")
	}
}

func TestBusinessHoursNeedSchedule(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.SectionOrder = orderOf(KeyHero, KeyBusinessHours)

	for _, key := range ResolveRenderList(cfg) {
		if key == KeyBusinessHours {
			t.Fatalf("business hours rendered without a schedule")
		}
	}

	cfg.Sections.BusinessHours = &BusinessHoursSection{
		Schedule: []DaySchedule{{Day: "mon", Open: true, From: "09:00", Until: "17:00"}},
	}
	found := false
	for _, key := range ResolveRenderList(cfg) {
		if key == KeyBusinessHours {
			found = true
		}
	}
	if !found {
		t.Fatalf("business hours suppressed despite schedule")
	}
}

func TestEmptyOrderFallsBackToDefault(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.SectionOrder = nil

	got := ResolveRenderList(cfg)
	if len(got) == 0 {
		t.Fatalf("expected default order to apply when section order is absent")
	}
	if got[0] != KeyProfile {
		t.Fatalf("default order starts with %s, want %s", got[0], KeyProfile)
	}
}

func TestEditableTabsAlwaysOnSet(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	tabs := ResolveEditableTabs(cfg)

	for _, key := range []SectionKey{KeyProfile, KeyHero, KeyAbout, KeyServices, KeyContact, KeyPayment, KeyVideos, KeySEO} {
		if !tabs[key] {
			t.Errorf("always-on tab %s disabled", key)
		}
	}
	for _, key := range []SectionKey{KeyImpact, KeyTestimonials, KeyTrust, KeyCTA} {
		if tabs[key] {
			t.Errorf("optional tab %s enabled without stored section", key)
		}
	}
}

func TestEditableTabsFollowOptionalEnablement(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.Testimonials = &TestimonialsSection{Enabled: true, Items: []TestimonialItem{}}
	cfg.Sections.Trust = &TrustSection{Enabled: false}

	tabs := ResolveEditableTabs(cfg)
	if !tabs[KeyTestimonials] {
		t.Errorf("testimonials tab disabled despite enabled section")
	}
	if tabs[KeyTrust] {
		t.Errorf("trust tab enabled despite disabled section")
	}
}

func TestDisablingTabKeepsData(t *testing.T) {
	cfg := NewConfig("Ballard Bakery")
	cfg.Sections.Testimonials = &TestimonialsSection{
		Enabled: false,
		Items:   []TestimonialItem{{ID: "tst_1", Author: "Sam", Quote: "Great bread"}},
	}

	ResolveEditableTabs(cfg)
	ResolveRenderList(cfg)
	if len(cfg.Sections.Testimonials.Items) != 1 {
		t.Fatalf("resolution mutated section data")
	}
}
