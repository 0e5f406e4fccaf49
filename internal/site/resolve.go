package site

// Resolution is pure: same config in, same answers out. Nothing here touches
// state outside the config it is handed.

// alwaysOnTabs are the editor tabs that stay interactive regardless of the
// stored config. Their data may still be absent; absence means defaults.
var alwaysOnTabs = map[SectionKey]bool{
	KeyProfile:  true,
	KeyHero:     true,
	KeyAbout:    true,
	KeyServices: true,
	KeyContact:  true,
	KeyPayment:  true,
	KeyVideos:   true,
	KeySEO:      true,
}

// dualFlagKeys are the sections whose own enabled flag gates rendering in
// addition to the order entry's flag. Everything else on the page is
// governed by the order entry alone once the section has content.
var dualFlagKeys = map[SectionKey]bool{
	KeyPayment:      true,
	KeyCTA:          true,
	KeyTrust:        true,
	KeyTestimonials: true,
}

// ResolveEditableTabs reports which editor tabs are interactive. Always-on
// keys are unconditionally true; optional keys follow the stored section's
// own enablement. Disabling a tab never deletes its data.
func ResolveEditableTabs(cfg Config) map[SectionKey]bool {
	tabs := make(map[SectionKey]bool, len(RegisteredKeys()))
	for _, key := range RegisteredKeys() {
		if alwaysOnTabs[key] {
			tabs[key] = true
			continue
		}
		tabs[key] = cfg.Sections.present(key) && cfg.Sections.enabled(key)
	}
	return tabs
}

// ResolveRenderList produces the ordered, filtered list of sections for the
// public page. An entry survives when:
//   - its key is known to this registry (unknown keys are skipped, not errors)
//   - the order entry itself is enabled
//   - for dual-flag sections, the section's own flag is also enabled
//   - the section has meaningful content (meaningfulContent)
//
// Keys missing from the order never render, whatever their section says.
func ResolveRenderList(cfg Config) []SectionKey {
	order := cfg.SectionOrder
	if len(order) == 0 {
		order = DefaultOrder()
	}

	list := make([]SectionKey, 0, len(order))
	seen := make(map[SectionKey]bool, len(order))
	for _, entry := range order {
		if !KnownKey(entry.ID) || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		if !entry.Enabled {
			continue
		}
		if dualFlagKeys[entry.ID] && !cfg.Sections.enabled(entry.ID) {
			continue
		}
		if cfg.Sections.present(entry.ID) && !cfg.Sections.enabled(entry.ID) {
			continue
		}
		if !meaningfulContent(cfg, entry.ID) {
			continue
		}
		list = append(list, entry.ID)
	}
	return list
}

// meaningfulContent is the per-section suppression table: collection
// sections with nothing to show are dropped even when enabled, and business
// hours need a schedule. Sections with scalar content always pass; their
// absent shapes fall back to defaults at render time.
func meaningfulContent(cfg Config, key SectionKey) bool {
	s := &cfg.Sections
	switch key {
	case KeyGallery:
		return s.Gallery != nil && len(s.Gallery.Images) > 0
	case KeyTestimonials:
		return s.Testimonials != nil && len(s.Testimonials.Items) > 0
	case KeyImpact:
		return s.Impact != nil && len(s.Impact.Stats) > 0
	case KeyTrust:
		return s.Trust != nil && len(s.Trust.Indicators) > 0
	case KeyVideos:
		return s.Videos != nil && len(s.Videos.URLs) > 0
	case KeyBusinessHours:
		return s.BusinessHours != nil && len(s.BusinessHours.Schedule) > 0
	}
	return true
}
