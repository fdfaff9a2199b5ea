package service

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content365/content365/internal/model"
	"github.com/content365/content365/internal/pdf"
)

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (m *memStore) Save(_ context.Context, name string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.files[name] = data
	return nil
}

func (m *memStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, name string) error {
	delete(m.files, name)
	return nil
}

type memPackRepo struct {
	packs []*model.Pack
}

func (r *memPackRepo) Create(p *model.Pack) error {
	r.packs = append(r.packs, p)
	return nil
}

func (r *memPackRepo) ByFilename(filename string) (*model.Pack, error) {
	for _, p := range r.packs {
		if p.Filename == filename {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPackRepo) MarkEmailed(id string) error {
	for _, p := range r.packs {
		if p.ID == id {
			p.Status = model.PackStatusEmailed
		}
	}
	return nil
}

func (r *memPackRepo) Recent(int) ([]*model.Pack, error) { return r.packs, nil }
func (r *memPackRepo) Count() (int, error)               { return len(r.packs), nil }

func newTestPackService(t *testing.T, client *fakeClient) (*PackService, *memStore, *memPackRepo) {
	t.Helper()

	store := newMemStore()
	repo := &memPackRepo{}
	composer := pdf.NewComposer(pdf.Branding{BrandName: "Content365", Website: "content365.xyz"}, t.TempDir())
	email := NewEmailService("", "noreply@content365.xyz", "", "Content365", true)

	var gen *Generator
	if client != nil {
		gen = NewGenerator(client)
	} else {
		gen = NewGenerator(nil)
	}

	return NewPackService(gen, composer, store, repo, email), store, repo
}

var filenameRx = regexp.MustCompile(`^[0-9a-f]{12}\.pdf$`)

func TestGeneratePack(t *testing.T) {
	svc, store, repo := newTestPackService(t, &fakeClient{fn: func(string) (string, error) {
		return "generated text", nil
	}})

	result, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "meal prep"})
	require.NoError(t, err)

	assert.Regexp(t, filenameRx, result.Filename)
	assert.Equal(t, "meal prep", result.Topic)
	assert.False(t, result.Emailed)

	stored := store.files[result.Filename]
	require.NotEmpty(t, stored, "PDF must be persisted under the returned filename")
	assert.Equal(t, "%PDF", string(stored[:4]))

	require.Len(t, repo.packs, 1)
	assert.Equal(t, "meal prep", repo.packs[0].Topic)
	assert.Equal(t, model.PackStatusGenerated, repo.packs[0].Status)
	assert.Equal(t, result.Filename, repo.packs[0].Filename)
}

func TestGeneratePackDistinctFilenames(t *testing.T) {
	svc, _, _ := newTestPackService(t, &fakeClient{fn: func(string) (string, error) {
		return "text", nil
	}})

	a, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "one"})
	require.NoError(t, err)
	b, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "two"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Filename, b.Filename)
}

func TestGeneratePackMissingTopic(t *testing.T) {
	svc, _, repo := newTestPackService(t, &fakeClient{fn: func(string) (string, error) {
		return "text", nil
	}})

	_, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "   "})
	assert.ErrorIs(t, err, ErrMissingTopic)
	assert.Empty(t, repo.packs)
}

func TestGeneratePackGeneratorNotConfigured(t *testing.T) {
	svc, _, _ := newTestPackService(t, nil)

	_, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "topic"})
	assert.ErrorIs(t, err, ErrGeneratorNotConfigured)
}

func TestGeneratePackCompletesDespiteModelFailures(t *testing.T) {
	svc, store, _ := newTestPackService(t, &fakeClient{fn: func(string) (string, error) {
		return "", io.ErrUnexpectedEOF
	}})

	result, err := svc.GeneratePack(context.Background(), &model.ContentRequest{Topic: "resilience"})
	require.NoError(t, err, "model failures degrade to placeholders, not errors")

	assert.Equal(t, FallbackPlaceholder, result.Pack.BlogPost)
	assert.Equal(t, "%PDF", string(store.files[result.Filename][:4]))
}

func TestGeneratePackEmailsInDevMode(t *testing.T) {
	svc, _, repo := newTestPackService(t, &fakeClient{fn: func(string) (string, error) {
		return "text", nil
	}})

	result, err := svc.GeneratePack(context.Background(), &model.ContentRequest{
		Topic: "topic",
		Email: "user@example.com",
	})
	require.NoError(t, err)

	assert.True(t, result.Emailed)
	assert.Equal(t, model.PackStatusEmailed, repo.packs[0].Status)
}

func TestApplyHashtags(t *testing.T) {
	svc, _, _ := newTestPackService(t, nil)

	pack := &model.ContentPack{Captions: "Instagram: big launch"}
	req := &model.ContentRequest{
		Hashtags:  "#launch #startup #growth",
		Platforms: []string{"Twitter"},
	}

	svc.applyHashtags(pack, req)

	assert.Contains(t, pack.Captions, "Hashtags")
	assert.Contains(t, pack.Captions, "Twitter: #launch #startup")
	assert.NotContains(t, pack.Captions, "#growth", "twitter cap is two tags")
}

func TestApplyHashtagsNoUserTags(t *testing.T) {
	svc, _, _ := newTestPackService(t, nil)

	pack := &model.ContentPack{Captions: "unchanged"}
	svc.applyHashtags(pack, &model.ContentRequest{})

	assert.Equal(t, "unchanged", pack.Captions)
}
