package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/content365/content365/internal/model"
	"github.com/content365/content365/internal/pdf"
	"github.com/content365/content365/internal/repository"
	"github.com/content365/content365/internal/storage"
)

var (
	ErrMissingTopic           = errors.New("topic is required")
	ErrGeneratorNotConfigured = errors.New("model API is not configured")
)

// PackResult is what a successful generation hands back to the handler:
// the stored PDF name plus the text blocks for the result page.
type PackResult struct {
	Filename string
	Topic    string
	Pack     *model.ContentPack
	Emailed  bool
}

// PackService runs the full pipeline for one submission: generate the
// four text blocks, compose the PDF, store it, record it, and deliver
// it by email when an address was given. Only generation prerequisites,
// composition, and storage are fatal; bookkeeping and email are not.
type PackService struct {
	generator *Generator
	composer  *pdf.Composer
	store     storage.Storage
	packs     repository.PackRepository
	email     *EmailService
}

func NewPackService(
	generator *Generator,
	composer *pdf.Composer,
	store storage.Storage,
	packs repository.PackRepository,
	email *EmailService,
) *PackService {
	return &PackService{
		generator: generator,
		composer:  composer,
		store:     store,
		packs:     packs,
		email:     email,
	}
}

// GeneratePack produces and stores one content pack.
func (s *PackService) GeneratePack(ctx context.Context, req *model.ContentRequest) (*PackResult, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, ErrMissingTopic
	}
	if !s.generator.Ready() {
		return nil, ErrGeneratorNotConfigured
	}

	req.Platforms = model.NormalizePlatforms(req.Platforms)

	pack := s.generator.Generate(ctx, req)
	s.applyHashtags(pack, req)

	data, err := s.composer.Compose(req, pack)
	if err != nil {
		return nil, fmt.Errorf("compose pack: %w", err)
	}

	filename := newPackFilename()
	err = s.store.Save(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("store pack: %w", err)
	}

	record := &model.Pack{
		ID:        uuid.NewString(),
		Topic:     req.Topic,
		Tone:      req.ToneOrDefault(),
		Audience:  req.Audience,
		Platforms: strings.Join(req.PlatformsOrDefault(), ","),
		Email:     req.Email,
		Filename:  filename,
		Status:    model.PackStatusGenerated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.packs.Create(record); err != nil {
		slog.Warn("failed to record pack, continuing", "filename", filename, "error", err)
	}

	result := &PackResult{
		Filename: filename,
		Topic:    req.Topic,
		Pack:     pack,
	}

	if req.Email != "" {
		err := s.email.SendPackEmail(ctx, req.Email, req.Topic, filename, data)
		if err != nil {
			slog.Warn("pack email failed, download link still valid", "to", req.Email, "error", err)
		} else {
			result.Emailed = true
			if err := s.packs.MarkEmailed(record.ID); err != nil {
				slog.Warn("failed to mark pack emailed", "id", record.ID, "error", err)
			}
			if err := s.email.SubscribeAudience(req.Email); err != nil {
				slog.Warn("audience subscription failed", "error", err)
			}
		}
	}

	slog.Info("pack generated",
		"filename", filename,
		"topic", req.Topic,
		"platforms", record.Platforms,
		"emailed", result.Emailed,
	)
	return result, nil
}

// applyHashtags appends the user's hashtags to the captions block, one
// line per platform, after the per-platform limits are enforced.
func (s *PackService) applyHashtags(pack *model.ContentPack, req *model.ContentRequest) {
	userTags := req.UserHashtags()
	if len(userTags) == 0 {
		return
	}

	var lines []string
	for _, label := range req.PlatformsOrDefault() {
		tags := EnforceHashtagRules(label, userTags, pack.Captions)
		if len(tags) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: #%s", label, strings.Join(tags, " #")))
	}
	if len(lines) == 0 {
		return
	}

	pack.Captions = pack.Captions + "\n\nHashtags\n" + strings.Join(lines, "\n")
}

// newPackFilename returns a short random name like "3f9c2a81d07b.pdf".
// Unguessable enough for an unauthenticated download URL with a short
// retention window.
func newPackFilename() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:12] + ".pdf"
}
