package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/content365/content365/internal/llm"
	"github.com/content365/content365/internal/model"
)

// FallbackPlaceholder is substituted for any section whose model call
// fails, so a pack always completes with all four sections present.
const FallbackPlaceholder = "[Error generating content]"

var wordCountParagraphs = map[string]int{
	model.WordCountShort:  2,
	model.WordCountMedium: 4,
	model.WordCountLong:   6,
}

// Generator is the prompt dispatcher: it turns one ContentRequest into
// four independent completions. Calls run sequentially; each failure is
// recovered locally with the placeholder. No retries, no backoff.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Ready reports whether a model client is configured. The pack pipeline
// checks this before doing any work so a missing API key fails fast.
func (g *Generator) Ready() bool {
	return g != nil && g.client != nil
}

// Generate produces the four text blocks for a request. It never
// returns an error: sections that could not be generated carry the
// fallback placeholder instead.
func (g *Generator) Generate(ctx context.Context, req *model.ContentRequest) *model.ContentPack {
	return &model.ContentPack{
		BlogPost:   g.complete(ctx, model.SectionBlogPost, blogPrompt(req)),
		Captions:   g.complete(ctx, model.SectionCaptions, captionsPrompt(req)),
		LeadMagnet: g.complete(ctx, model.SectionLeadMagnet, leadMagnetPrompt(req)),
		Keywords:   g.complete(ctx, model.SectionKeywords, keywordsPrompt(req)),
	}
}

func (g *Generator) complete(ctx context.Context, section, prompt string) string {
	text, err := g.client.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("model call failed, using placeholder", "section", section, "error", err)
		return FallbackPlaceholder
	}
	text = strings.TrimSpace(StripCodeFences(text))
	if text == "" {
		slog.Warn("model returned empty completion, using placeholder", "section", section)
		return FallbackPlaceholder
	}
	return FixAICasing(text)
}

func blogPrompt(req *model.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a blog post about: %s\n", req.Topic)
	fmt.Fprintf(&b, "Tone: %s\n", req.ToneOrDefault())
	fmt.Fprintf(&b, "Length: about %d short paragraphs, with a headline and a closing call to action.\n",
		wordCountParagraphs[req.WordCountOrDefault()])
	writeContext(&b, req)
	b.WriteString("Use plain Markdown: a # headline, paragraphs, and a short bullet list of key takeaways.")
	return b.String()
}

func captionsPrompt(req *model.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one social media caption per platform for: %s\n", req.Topic)
	fmt.Fprintf(&b, "Platforms: %s\n", strings.Join(req.PlatformsOrDefault(), ", "))
	fmt.Fprintf(&b, "Tone: %s\n", req.ToneOrDefault())
	writeContext(&b, req)
	b.WriteString("Keep each caption concise and platform-appropriate. ")
	b.WriteString("Emojis only where natural (Instagram/TikTok), minimal on LinkedIn. ")
	b.WriteString("Start each caption with the platform name followed by a colon.")
	return b.String()
}

func leadMagnetPrompt(req *model.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest one lead magnet idea for: %s\n", req.Topic)
	fmt.Fprintf(&b, "Tone: %s\n", req.ToneOrDefault())
	writeContext(&b, req)
	b.WriteString("Describe the lead magnet in 3-5 sentences: what it is, who it is for, and why it converts.")
	return b.String()
}

func keywordsPrompt(req *model.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "List 10 SEO keywords or short key phrases for: %s\n", req.Topic)
	writeContext(&b, req)
	b.WriteString("One keyword per line, most important first, no numbering and no commentary.")
	return b.String()
}

// writeContext appends the optional request fields shared by all four
// prompt templates.
func writeContext(b *strings.Builder, req *model.ContentRequest) {
	if req.Audience != "" {
		fmt.Fprintf(b, "Audience: %s\n", req.Audience)
	}
	if req.AudienceType != "" {
		fmt.Fprintf(b, "Audience Type: %s\n", req.AudienceType)
	}
	if req.Style != "" && !strings.EqualFold(req.Style, "general") {
		fmt.Fprintf(b, "Post Style: %s\n", req.Style)
	}
	if req.CompanyName != "" {
		fmt.Fprintf(b, "Company: %s\n", req.CompanyName)
	}
	if req.Notes != "" {
		fmt.Fprintf(b, "Creator Notes: %s\n", req.Notes)
	}
}

// StripCodeFences removes a surrounding Markdown code fence, which some
// models wrap around their output despite instructions.
func StripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = t[3:]
	if i := strings.Index(t, "\n"); i != -1 {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

var aiWordRx = regexp.MustCompile(`(?i)\bai\b`)

// FixAICasing upper-cases the standalone word "ai", which models and
// users alike tend to type in lowercase.
func FixAICasing(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return aiWordRx.ReplaceAllString(s, "AI")
}
