// Package site defines the microsite configuration document: one strict
// shape per content section, the aggregate config, and the pure resolution
// rules that turn a config into an ordered public render list.
package site

// SectionKey identifies one content block of a microsite. The set is
// versioned: configs written against an older registry keep working, and
// entries referencing keys this build does not know are skipped during
// resolution rather than rejected.
type SectionKey string

const (
	KeyProfile       SectionKey = "profile"
	KeyHero          SectionKey = "hero"
	KeyAbout         SectionKey = "about"
	KeyServices      SectionKey = "services"
	KeyGallery       SectionKey = "gallery"
	KeyTestimonials  SectionKey = "testimonials"
	KeyImpact        SectionKey = "impact"
	KeyTrust         SectionKey = "trust"
	KeyVideos        SectionKey = "videos"
	KeyCTA           SectionKey = "cta"
	KeyPayment       SectionKey = "payment"
	KeyContact       SectionKey = "contact"
	KeyBusinessHours SectionKey = "businessHours"
	KeySEO           SectionKey = "seo"
)

// RegisteredKeys lists every section key this build understands, in the
// default top-to-bottom page order.
func RegisteredKeys() []SectionKey {
	return []SectionKey{
		KeyProfile,
		KeyHero,
		KeyAbout,
		KeyServices,
		KeyGallery,
		KeyImpact,
		KeyTestimonials,
		KeyTrust,
		KeyVideos,
		KeyCTA,
		KeyPayment,
		KeyBusinessHours,
		KeyContact,
		KeySEO,
	}
}

func KnownKey(key SectionKey) bool {
	for _, k := range RegisteredKeys() {
		if k == key {
			return true
		}
	}
	return false
}

type ProfileSection struct {
	Enabled     bool   `json:"enabled"`
	DisplayName string `json:"displayName"`
	Tagline     string `json:"tagline"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

type HeroSection struct {
	Enabled   bool   `json:"enabled"`
	Headline  string `json:"headline"`
	Subtitle  string `json:"subtitle,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CTALabel  string `json:"ctaLabel,omitempty"`
	CTATarget string `json:"ctaTarget,omitempty"`
}

type AboutSection struct {
	Enabled  bool     `json:"enabled"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Points   []string `json:"points,omitempty"`
}

// ServiceItem is one offering in the services section. IDs are generated
// client-side at creation time and never reused after deletion.
type ServiceItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price,omitempty"`
	Features    []string `json:"features,omitempty"`
	Image       string   `json:"image,omitempty"`
}

type ServicesSection struct {
	Enabled bool          `json:"enabled"`
	Title   string        `json:"title"`
	Items   []ServiceItem `json:"items"`
}

type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type GallerySection struct {
	Enabled bool           `json:"enabled"`
	Title   string         `json:"title,omitempty"`
	Images  []GalleryImage `json:"images"`
}

type TestimonialItem struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type TestimonialsSection struct {
	Enabled bool              `json:"enabled"`
	Title   string            `json:"title,omitempty"`
	Items   []TestimonialItem `json:"items"`
}

type ImpactStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ImpactSection struct {
	Enabled bool         `json:"enabled"`
	Title   string       `json:"title,omitempty"`
	Stats   []ImpactStat `json:"stats"`
}

type TrustIndicator struct {
	Label    string `json:"label"`
	IconURL  string `json:"iconUrl,omitempty"`
	LinkURL  string `json:"linkUrl,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

type TrustSection struct {
	Enabled    bool             `json:"enabled"`
	Title      string           `json:"title,omitempty"`
	Indicators []TrustIndicator `json:"indicators"`
}

type VideosSection struct {
	Enabled bool     `json:"enabled"`
	Title   string   `json:"title,omitempty"`
	URLs    []string `json:"urls"`
}

type CTASection struct {
	Enabled bool   `json:"enabled"`
	Heading string `json:"heading"`
	Label   string `json:"label"`
	Target  string `json:"target"`
}

type PaymentSection struct {
	Enabled       bool   `json:"enabled"`
	UPIID         string `json:"upiId,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	QRImageURL    string `json:"qrImageUrl,omitempty"`
	Note          string `json:"note,omitempty"`
}

// LeadForm describes the inquiry form embedded in the contact section.
type LeadForm struct {
	Enabled bool     `json:"enabled"`
	Fields  []string `json:"fields"`
}

type ContactSection struct {
	Enabled  bool     `json:"enabled"`
	ShowMap  bool     `json:"showMap"`
	MapQuery string   `json:"mapQuery,omitempty"`
	LeadForm LeadForm `json:"leadForm"`
}

// DaySchedule holds opening hours for one weekday. Closed days have
// Open == false and empty times.
type DaySchedule struct {
	Day   string `json:"day"`
	Open  bool   `json:"open"`
	From  string `json:"from,omitempty"`
	Until string `json:"until,omitempty"`
}

// BusinessHoursSection has no enablement flag of its own; presence of a
// schedule is what makes it render.
type BusinessHoursSection struct {
	Schedule []DaySchedule `json:"schedule"`
	Note     string        `json:"note,omitempty"`
}

type SEOSection struct {
	Enabled     bool     `json:"enabled"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImage     string   `json:"ogImage,omitempty"`
}

// Sections holds at most one config per section key. A nil field means the
// section was never edited and callers fall back to DefaultSection; it does
// not mean the section is disabled.
type Sections struct {
	Profile       *ProfileSection       `json:"profile,omitempty"`
	Hero          *HeroSection          `json:"hero,omitempty"`
	About         *AboutSection         `json:"about,omitempty"`
	Services      *ServicesSection      `json:"services,omitempty"`
	Gallery       *GallerySection       `json:"gallery,omitempty"`
	Testimonials  *TestimonialsSection  `json:"testimonials,omitempty"`
	Impact        *ImpactSection        `json:"impact,omitempty"`
	Trust         *TrustSection         `json:"trust,omitempty"`
	Videos        *VideosSection        `json:"videos,omitempty"`
	CTA           *CTASection           `json:"cta,omitempty"`
	Payment       *PaymentSection       `json:"payment,omitempty"`
	Contact       *ContactSection       `json:"contact,omitempty"`
	BusinessHours *BusinessHoursSection `json:"businessHours,omitempty"`
	SEO           *SEOSection           `json:"seo,omitempty"`
}

// present reports whether the section for key has been stored at all.
func (s *Sections) present(key SectionKey) bool {
	switch key {
	case KeyProfile:
		return s.Profile != nil
	case KeyHero:
		return s.Hero != nil
	case KeyAbout:
		return s.About != nil
	case KeyServices:
		return s.Services != nil
	case KeyGallery:
		return s.Gallery != nil
	case KeyTestimonials:
		return s.Testimonials != nil
	case KeyImpact:
		return s.Impact != nil
	case KeyTrust:
		return s.Trust != nil
	case KeyVideos:
		return s.Videos != nil
	case KeyCTA:
		return s.CTA != nil
	case KeyPayment:
		return s.Payment != nil
	case KeyContact:
		return s.Contact != nil
	case KeyBusinessHours:
		return s.BusinessHours != nil
	case KeySEO:
		return s.SEO != nil
	}
	return false
}

// enabled reports the section's own enablement flag. Absent sections count
// as enabled (absence means "use the default shape"), and business hours,
// which carry no flag, count as enabled whenever a schedule exists.
func (s *Sections) enabled(key SectionKey) bool {
	switch key {
	case KeyProfile:
		return s.Profile == nil || s.Profile.Enabled
	case KeyHero:
		return s.Hero == nil || s.Hero.Enabled
	case KeyAbout:
		return s.About == nil || s.About.Enabled
	case KeyServices:
		return s.Services == nil || s.Services.Enabled
	case KeyGallery:
		return s.Gallery == nil || s.Gallery.Enabled
	case KeyTestimonials:
		return s.Testimonials == nil || s.Testimonials.Enabled
	case KeyImpact:
		return s.Impact == nil || s.Impact.Enabled
	case KeyTrust:
		return s.Trust == nil || s.Trust.Enabled
	case KeyVideos:
		return s.Videos == nil || s.Videos.Enabled
	case KeyCTA:
		return s.CTA == nil || s.CTA.Enabled
	case KeyPayment:
		return s.Payment == nil || s.Payment.Enabled
	case KeyContact:
		return s.Contact == nil || s.Contact.Enabled
	case KeyBusinessHours:
		return s.BusinessHours != nil && len(s.BusinessHours.Schedule) > 0
	case KeySEO:
		return s.SEO == nil || s.SEO.Enabled
	}
	return false
}
