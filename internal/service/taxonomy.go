package service

import (
	"context"
	"sync"
	"time"

	"catalog_go/internal/core/logger"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
	"catalog_go/internal/repository"

	"golang.org/x/sync/singleflight"
)

// TaxonomySnapshot 徽章展示快照
// Immutable once built; readers share the same maps and must not mutate.
type TaxonomySnapshot struct {
	Types   map[string]model.TypeDisplay   `json:"types"`
	Formats map[string]model.FormatDisplay `json:"formats"`
}

// TaxonomyService 类型/格式展示缓存
// Process-wide read-through cache over content_types and formats. A read
// past the TTL reloads both tables and swaps the snapshot atomically;
// there is no write-path invalidation, so an admin edit becomes visible
// only after the TTL elapses. Each process holds its own copy.
type TaxonomyService struct {
	repo repository.TaxonomyRepository
	ttl  time.Duration

	mu       sync.RWMutex
	snap     *TaxonomySnapshot
	loadedAt time.Time

	sf  singleflight.Group
	now func() time.Time // overridable for tests
}

// NewTaxonomyService 创建 TaxonomyService 实例
func NewTaxonomyService(repo repository.TaxonomyRepository, ttl time.Duration) *TaxonomyService {
	return &TaxonomyService{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Display 获取展示快照
// Fresh snapshot is returned as-is; empty or stale triggers a synchronous
// reload collapsed through singleflight so concurrent misses do one
// database round-trip.
func (s *TaxonomyService) Display(ctx context.Context) (*TaxonomySnapshot, error) {
	if snap := s.fresh(); snap != nil {
		return snap, nil
	}

	v, err, _ := s.sf.Do("taxonomy", func() (interface{}, error) {
		// another caller may have reloaded while we queued
		if snap := s.fresh(); snap != nil {
			return snap, nil
		}
		return s.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*TaxonomySnapshot), nil
}

// fresh 返回未过期的快照，否则 nil
func (s *TaxonomyService) fresh() *TaxonomySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	if s.now().Sub(s.loadedAt) >= s.ttl {
		return nil
	}
	return s.snap
}

// reload 重新加载两张表并原子替换快照
func (s *TaxonomyService) reload(ctx context.Context) (*TaxonomySnapshot, error) {
	types, err := s.repo.GetContentTypes(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	formats, err := s.repo.GetFormats(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	snap := &TaxonomySnapshot{
		Types:   make(map[string]model.TypeDisplay, len(types)),
		Formats: make(map[string]model.FormatDisplay, len(formats)),
	}
	for _, t := range types {
		snap.Types[t.Slug] = model.TypeDisplay{
			Label: t.Label,
			Color: t.Color,
			Bg:    t.Background,
		}
	}
	for _, f := range formats {
		snap.Formats[f.Slug] = model.FormatDisplay{
			Label:    f.Label,
			Color:    f.Color,
			IconType: f.IconType,
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.loadedAt = s.now()
	s.mu.Unlock()

	logger.Debug("taxonomy display snapshot reloaded",
		logger.Int("types", len(snap.Types)),
		logger.Int("formats", len(snap.Formats)))
	return snap, nil
}

// Flush 丢弃当前快照，下次读取强制重载
func (s *TaxonomyService) Flush() {
	s.mu.Lock()
	s.snap = nil
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}
