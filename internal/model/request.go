package model

import (
	"strings"
)

// Tone labels offered by the form. Free text is accepted too; these are
// the pill options the UI renders.
const (
	ToneProfessional  = "Professional"
	ToneWitty         = "Witty"
	ToneBold          = "Bold"
	ToneCasual        = "Casual"
	ToneInspirational = "Inspirational"
)

// Word count presets map to paragraph budgets in the prompts.
const (
	WordCountShort  = "short"
	WordCountMedium = "medium"
	WordCountLong   = "long"
)

// Platform display labels in canonical casing.
var PlatformLabels = map[string]string{
	"instagram": "Instagram",
	"linkedin":  "LinkedIn",
	"tiktok":    "TikTok",
	"twitter":   "Twitter",
	"x":         "Twitter",
	"facebook":  "Facebook",
}

// ContentRequest carries one form submission through the generation
// pipeline. It is built fresh per HTTP request and never persisted as-is;
// the paywall flow serializes it into a checkout record instead.
type ContentRequest struct {
	Topic        string   `json:"topic"`
	Audience     string   `json:"audience,omitempty"`
	AudienceType string   `json:"audience_type,omitempty"` // B2B / B2C
	Tone         string   `json:"tone,omitempty"`
	Style        string   `json:"style,omitempty"`
	Hashtags     string   `json:"hashtags,omitempty"` // comma/space separated, as typed
	Notes        string   `json:"notes,omitempty"`
	Platforms    []string `json:"platforms,omitempty"`
	WordCount    string   `json:"word_count,omitempty"`
	Email        string   `json:"email,omitempty"`
	CompanyName  string   `json:"company_name,omitempty"`
}

// NormalizePlatforms maps submitted platform values onto the canonical
// labels, dropping unknown entries and duplicates. "x" and "twitter" are
// the same platform.
func NormalizePlatforms(raw []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range raw {
		label, ok := PlatformLabels[strings.ToLower(strings.TrimSpace(p))]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// PlatformsOrDefault returns the request's platforms, falling back to
// the full set when none were selected.
func (r *ContentRequest) PlatformsOrDefault() []string {
	if len(r.Platforms) > 0 {
		return r.Platforms
	}
	return []string{"Instagram", "LinkedIn", "TikTok", "Twitter", "Facebook"}
}

func (r *ContentRequest) ToneOrDefault() string {
	if strings.TrimSpace(r.Tone) == "" {
		return ToneProfessional
	}
	return r.Tone
}

func (r *ContentRequest) WordCountOrDefault() string {
	switch strings.ToLower(strings.TrimSpace(r.WordCount)) {
	case WordCountShort:
		return WordCountShort
	case WordCountLong:
		return WordCountLong
	default:
		return WordCountMedium
	}
}

// UserHashtags splits the free-text hashtags field into bare tags
// (no leading '#').
func (r *ContentRequest) UserHashtags() []string {
	var out []string
	for _, t := range strings.FieldsFunc(r.Hashtags, func(c rune) bool {
		return c == ',' || c == ' ' || c == '\n' || c == '\t'
	}) {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
