package site

import (
	"encoding/json"
	"fmt"
)

// DecodeSection parses raw JSON into the strict shape for key. This is how
// loosely-typed payloads from the editor become checked union variants.
func DecodeSection(key SectionKey, raw json.RawMessage) (any, error) {
	target, ok := DefaultSection(key)
	if !ok {
		return nil, fmt.Errorf("unknown section key %q", key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode section %s: %w", key, err)
	}
	return target, nil
}

// SetSection replaces the stored section for key wholesale. The value must
// be the pointer type matching the key, as produced by DecodeSection.
func SetSection(cfg *Config, key SectionKey, value any) error {
	s := &cfg.Sections
	switch key {
	case KeyProfile:
		v, ok := value.(*ProfileSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Profile = v
	case KeyHero:
		v, ok := value.(*HeroSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Hero = v
	case KeyAbout:
		v, ok := value.(*AboutSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.About = v
	case KeyServices:
		v, ok := value.(*ServicesSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Services = v
	case KeyGallery:
		v, ok := value.(*GallerySection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Gallery = v
	case KeyTestimonials:
		v, ok := value.(*TestimonialsSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Testimonials = v
	case KeyImpact:
		v, ok := value.(*ImpactSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Impact = v
	case KeyTrust:
		v, ok := value.(*TrustSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Trust = v
	case KeyVideos:
		v, ok := value.(*VideosSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Videos = v
	case KeyCTA:
		v, ok := value.(*CTASection)
		if !ok {
			return wrongShape(key, value)
		}
		s.CTA = v
	case KeyPayment:
		v, ok := value.(*PaymentSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Payment = v
	case KeyContact:
		v, ok := value.(*ContactSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.Contact = v
	case KeyBusinessHours:
		v, ok := value.(*BusinessHoursSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.BusinessHours = v
	case KeySEO:
		v, ok := value.(*SEOSection)
		if !ok {
			return wrongShape(key, value)
		}
		s.SEO = v
	default:
		return fmt.Errorf("unknown section key %q", key)
	}
	return nil
}

func wrongShape(key SectionKey, value any) error {
	return fmt.Errorf("section %s: unexpected shape %T", key, value)
}
