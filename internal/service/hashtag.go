package service

import (
	"strings"
	"unicode"
)

// Per-platform hashtag caps. Conservative limits so captions never look
// spammy; unknown platforms get the default.
var hashtagCaps = map[string]int{
	"instagram": 12,
	"tiktok":    5,
	"linkedin":  5,
	"twitter":   2,
	"x":         2,
	"facebook":  5,
}

const hashtagCapDefault = 8

// EnforceHashtagRules normalizes and clamps hashtags for a platform.
// Tags are cleaned (leading '#' removed, lowercased, alnum+underscore
// only), deduplicated, stripped of anything already inline in the
// caption, and capped per platform. Returned tags carry no leading '#'.
func EnforceHashtagRules(platform string, tags []string, caption string) []string {
	maxN, ok := hashtagCaps[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		maxN = hashtagCapDefault
	}

	inline := map[string]bool{}
	for _, t := range extractInlineHashtags(caption) {
		inline[t] = true
	}

	seen := map[string]bool{}
	var out []string
	for _, raw := range tags {
		t := cleanTag(raw)
		if t == "" || seen[t] || inline[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == maxN {
			break
		}
	}
	return out
}

func cleanTag(t string) string {
	t = strings.TrimPrefix(strings.TrimSpace(t), "#")
	var b strings.Builder
	for _, ch := range t {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			b.WriteRune(unicode.ToLower(ch))
		}
	}
	return b.String()
}

func extractInlineHashtags(text string) []string {
	var out []string
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		var b strings.Builder
		for i++; i < len(runes); i++ {
			ch := runes[i]
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
				break
			}
			b.WriteRune(unicode.ToLower(ch))
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}
