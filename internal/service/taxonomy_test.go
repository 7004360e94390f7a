package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
)

// fakeTaxonomyRepo 测试用 TaxonomyRepository
type fakeTaxonomyRepo struct {
	loads   int
	types   []*model.ContentType
	formats []*model.Format
	err     error
}

func (f *fakeTaxonomyRepo) GetContentTypes(ctx context.Context) ([]*model.ContentType, error) {
	f.loads++
	return f.types, f.err
}

func (f *fakeTaxonomyRepo) GetFormats(ctx context.Context) ([]*model.Format, error) {
	return f.formats, f.err
}

func newTaxonomyFixture() (*TaxonomyService, *fakeTaxonomyRepo, *time.Time) {
	repo := &fakeTaxonomyRepo{
		types: []*model.ContentType{
			{Slug: "guide", Label: "Guide", Color: "#111", Background: "#eee"},
		},
		formats: []*model.Format{
			{Slug: "pdf", Label: "PDF", Color: "#222", IconType: "doc"},
		},
	}
	svc := NewTaxonomyService(repo, time.Minute)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, repo, &clock
}

func TestTaxonomyDisplay_LoadsOnce(t *testing.T) {
	svc, repo, _ := newTaxonomyFixture()
	ctx := context.Background()

	snap, err := svc.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)
	assert.Equal(t, "Guide", snap.Types["guide"].Label)
	assert.Equal(t, "#eee", snap.Types["guide"].Bg)
	assert.Equal(t, "doc", snap.Formats["pdf"].IconType)

	// second read inside the TTL serves the snapshot
	again, err := svc.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)
	assert.Same(t, snap, again)
}

func TestTaxonomyDisplay_TTLExpiry(t *testing.T) {
	svc, repo, clock := newTaxonomyFixture()
	ctx := context.Background()

	_, err := svc.Display(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.loads)

	// just inside the TTL: no reload
	*clock = clock.Add(59 * time.Second)
	_, err = svc.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)

	// a write becomes visible only after the TTL elapses
	repo.types = []*model.ContentType{
		{Slug: "guide", Label: "Field Guide", Color: "#111", Background: "#eee"},
	}
	*clock = clock.Add(2 * time.Second)
	snap, err := svc.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
	assert.Equal(t, "Field Guide", snap.Types["guide"].Label)
}

func TestTaxonomyDisplay_FlushForcesReload(t *testing.T) {
	svc, repo, _ := newTaxonomyFixture()
	ctx := context.Background()

	_, err := svc.Display(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.loads)

	svc.Flush()

	_, err = svc.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestTaxonomyDisplay_StorageError(t *testing.T) {
	svc, repo, _ := newTaxonomyFixture()
	repo.err = errors.New("connection refused")

	_, err := svc.Display(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDatabaseError, apperr.CodeOf(err))
}
