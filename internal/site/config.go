package site

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderEntry is one row of the page layout. Position in the slice is the
// render position; Enabled is the visibility switch for that position.
type OrderEntry struct {
	ID      SectionKey `json:"id"`
	Enabled bool       `json:"enabled"`
}

// Theme holds the premium color tokens. Presence of the block implies the
// feature is enabled; there is no separate flag.
type Theme struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

// VoiceIntro is the premium audio greeting block.
type VoiceIntro struct {
	AudioURL string `json:"audioUrl"`
	Label    string `json:"label,omitempty"`
}

// Config is the whole microsite document: everything the editor mutates and
// the renderer reads.
type Config struct {
	Sections     Sections     `json:"sections"`
	SectionOrder []OrderEntry `json:"sectionOrder"`
	SEOSettings  SEOSection   `json:"seoSettings"`
	VoiceIntro   *VoiceIntro  `json:"voiceIntro,omitempty"`
	Theme        *Theme       `json:"themeSettings,omitempty"`
}

// NewConfig seeds a fresh microsite with the always-on sections populated
// from their default shapes and the full registry in default order. A
// never-edited site must render identically to one whose sections were
// explicitly saved with default values.
func NewConfig(businessName string) Config {
	cfg := Config{
		SEOSettings: defaultSEO(businessName),
	}
	cfg.Sections.Profile = defaultProfile(businessName)
	cfg.Sections.Hero = defaultHero(businessName)
	cfg.Sections.About = defaultAbout()
	cfg.Sections.Services = defaultServices()
	cfg.Sections.Contact = DefaultContact()
	cfg.Sections.SEO = &SEOSection{Enabled: true, Title: businessName}
	cfg.SectionOrder = DefaultOrder()
	return cfg
}

// DefaultOrder lists every registered key, enabled, in registry order.
func DefaultOrder() []OrderEntry {
	keys := RegisteredKeys()
	order := make([]OrderEntry, 0, len(keys))
	for _, key := range keys {
		order = append(order, OrderEntry{ID: key, Enabled: true})
	}
	return order
}

// Clone returns a deep copy. The save pipeline snapshots the baseline with
// this so later draft mutations cannot reach back into it.
func (c Config) Clone() Config {
	raw, err := json.Marshal(c)
	if err != nil {
		// Config contains only plain data; marshal cannot fail.
		panic(fmt.Sprintf("site: clone config: %v", err))
	}
	var out Config
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("site: clone config: %v", err))
	}
	return out
}

// Equal compares two configs structurally. Slice order matters everywhere it
// appears in the model (section order, service items, gallery images).
func (c Config) Equal(other Config) bool {
	a, err := json.Marshal(c)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Encode serializes the config for storage and the recovery cache.
func (c Config) Encode() ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return raw, nil
}

// Decode parses a stored config. Unknown fields are dropped silently so
// configs written by newer registry versions still load.
func Decode(raw []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
