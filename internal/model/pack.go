package model

import (
	"time"
)

// Fixed section titles of a content pack. The composer renders them in
// this order.
const (
	SectionBlogPost   = "Blog Post"
	SectionCaptions   = "Social Captions"
	SectionLeadMagnet = "Lead Magnet"
	SectionKeywords   = "SEO Keywords"
)

const (
	PackStatusGenerated = "generated"
	PackStatusEmailed   = "emailed"
)

// Payment provider names.
const (
	ProviderStripe = "stripe"
	ProviderPolar  = "polar"
)

// ContentPack holds the four generated text blocks for one request.
// It lives in memory for the duration of a single request.
type ContentPack struct {
	BlogPost   string
	Captions   string
	LeadMagnet string
	Keywords   string
}

// Section returns the block for a fixed section title.
func (p *ContentPack) Section(title string) string {
	switch title {
	case SectionBlogPost:
		return p.BlogPost
	case SectionCaptions:
		return p.Captions
	case SectionLeadMagnet:
		return p.LeadMagnet
	case SectionKeywords:
		return p.Keywords
	}
	return ""
}

// SectionTitles lists the pack sections in render order.
func SectionTitles() []string {
	return []string{SectionBlogPost, SectionCaptions, SectionLeadMagnet, SectionKeywords}
}

// Pack is the persisted record of one generated document. The PDF
// filename remains the only retrieval handle; the record exists for
// operational visibility, not lookup.
type Pack struct {
	ID        string    `db:"id"`
	Topic     string    `db:"topic"`
	Tone      string    `db:"tone"`
	Audience  string    `db:"audience"`
	Platforms string    `db:"platforms"` // comma-joined labels
	Email     string    `db:"email"`
	Filename  string    `db:"filename"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// CheckoutRequest stores a paywalled submission server-side while the
// buyer completes the hosted checkout. The provider session only carries
// this record's ID, so the success callback never trusts client-supplied
// form fields.
type CheckoutRequest struct {
	ID         string     `db:"id"`
	Provider   string     `db:"provider"`
	Request    string     `db:"request"` // ContentRequest as JSON
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
