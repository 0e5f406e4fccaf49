package site

// Hard-coded fallback shapes used both when seeding a new microsite and when
// the renderer encounters an absent section. The two paths must stay in sync,
// which is why they share these constructors.

func defaultProfile(businessName string) *ProfileSection {
	return &ProfileSection{
		Enabled:     true,
		DisplayName: businessName,
	}
}

func defaultHero(businessName string) *HeroSection {
	return &HeroSection{
		Enabled:  true,
		Headline: businessName,
		Subtitle: "Welcome to our page",
	}
}

func defaultAbout() *AboutSection {
	return &AboutSection{
		Enabled: true,
		Title:   "About Us",
	}
}

func defaultServices() *ServicesSection {
	return &ServicesSection{
		Enabled: true,
		Title:   "Our Services",
		Items:   []ServiceItem{},
	}
}

// DefaultContact is the exact shape the contact editor starts from and the
// renderer substitutes when the section is absent.
func DefaultContact() *ContactSection {
	return &ContactSection{
		Enabled: true,
		ShowMap: true,
		LeadForm: LeadForm{
			Enabled: true,
			Fields:  []string{"name", "email", "phone", "message"},
		},
	}
}

func defaultSEO(businessName string) SEOSection {
	return SEOSection{
		Enabled: true,
		Title:   businessName,
	}
}

// Default theme tokens, used per token when the premium theme block is
// absent or leaves a token empty.
const (
	DefaultPrimaryColor   = "#1d4ed8"
	DefaultSecondaryColor = "#0f172a"
	DefaultAccentColor    = "#f59e0b"
)

// EffectiveTheme fills missing tokens with the fixed defaults.
func EffectiveTheme(t *Theme) Theme {
	out := Theme{
		Primary:   DefaultPrimaryColor,
		Secondary: DefaultSecondaryColor,
		Accent:    DefaultAccentColor,
	}
	if t == nil {
		return out
	}
	if t.Primary != "" {
		out.Primary = t.Primary
	}
	if t.Secondary != "" {
		out.Secondary = t.Secondary
	}
	if t.Accent != "" {
		out.Accent = t.Accent
	}
	return out
}

// EffectiveSection returns the stored section for key, or its default shape
// when the config never stored one. The renderer goes through this so a
// never-edited site and an explicitly-saved-with-defaults site produce the
// same page.
func EffectiveSection(cfg Config, key SectionKey) (any, bool) {
	s := &cfg.Sections
	if s.present(key) {
		switch key {
		case KeyProfile:
			return s.Profile, true
		case KeyHero:
			return s.Hero, true
		case KeyAbout:
			return s.About, true
		case KeyServices:
			return s.Services, true
		case KeyGallery:
			return s.Gallery, true
		case KeyTestimonials:
			return s.Testimonials, true
		case KeyImpact:
			return s.Impact, true
		case KeyTrust:
			return s.Trust, true
		case KeyVideos:
			return s.Videos, true
		case KeyCTA:
			return s.CTA, true
		case KeyPayment:
			return s.Payment, true
		case KeyContact:
			return s.Contact, true
		case KeyBusinessHours:
			return s.BusinessHours, true
		case KeySEO:
			return s.SEO, true
		}
	}
	return DefaultSection(key)
}

// DefaultSection returns the fallback shape for key, total over the
// registry. The boolean is false for keys outside the registry.
func DefaultSection(key SectionKey) (any, bool) {
	switch key {
	case KeyProfile:
		return defaultProfile(""), true
	case KeyHero:
		return defaultHero(""), true
	case KeyAbout:
		return defaultAbout(), true
	case KeyServices:
		return defaultServices(), true
	case KeyGallery:
		return &GallerySection{Enabled: true, Images: []GalleryImage{}}, true
	case KeyTestimonials:
		return &TestimonialsSection{Enabled: true, Items: []TestimonialItem{}}, true
	case KeyImpact:
		return &ImpactSection{Enabled: true, Stats: []ImpactStat{}}, true
	case KeyTrust:
		return &TrustSection{Enabled: true, Indicators: []TrustIndicator{}}, true
	case KeyVideos:
		return &VideosSection{Enabled: true, URLs: []string{}}, true
	case KeyCTA:
		return &CTASection{Enabled: true, Label: "Contact Us", Target: "#contact"}, true
	case KeyPayment:
		return &PaymentSection{Enabled: true}, true
	case KeyContact:
		return DefaultContact(), true
	case KeyBusinessHours:
		return &BusinessHoursSection{Schedule: []DaySchedule{}}, true
	case KeySEO:
		return &SEOSection{Enabled: true}, true
	}
	return nil, false
}
