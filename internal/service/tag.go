package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
	"catalog_go/internal/pkg/pool"
	"catalog_go/internal/pkg/util"
	"catalog_go/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TagService Tag 业务服务
type TagService struct {
	repo      repository.TagRepository
	boardRepo repository.BoardRepository
	l1        *pool.BigCache
	l2        *redis.Client
	sf        *singleflight.Group
	config    *config.CacheConfig
}

// TagDTO 标签数据传输对象
type TagDTO struct {
	TagID      int64  `json:"tag_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Category   string `json:"category,omitempty"`
	Color      string `json:"color,omitempty"`
	SortOrder  int    `json:"sort_order"`
	BoardCount int    `json:"board_count"`
	AssetCount int    `json:"asset_count"`
	CreatedAt  int64  `json:"created_at,omitempty"`
}

// CreateTagInput 创建 Tag 输入
type CreateTagInput struct {
	Name     string
	Slug     string // optional, derived from Name when empty
	Category string
	Color    string
}

// UpdateTagInput 更新 Tag 输入（nil 字段保持不变）
type UpdateTagInput struct {
	Name      *string
	Category  *string
	Color     *string
	SortOrder *int
}

// NewTagService 创建 TagService 实例
func NewTagService(repo repository.TagRepository, boardRepo repository.BoardRepository, l2 *redis.Client, cfg *config.CacheConfig) *TagService {
	l1Cache, _ := pool.NewBigCache(cfg.L1Cap, time.Duration(cfg.L2TTL)*time.Second)
	return &TagService{
		repo:      repo,
		boardRepo: boardRepo,
		l1:        l1Cache,
		l2:        l2,
		sf:        &singleflight.Group{},
		config:    cfg,
	}
}

func tagDTO(t *model.Tag) *TagDTO {
	return &TagDTO{
		TagID:     t.TagID,
		Name:      t.Name,
		Slug:      t.Slug,
		Category:  t.Category,
		Color:     t.Color,
		SortOrder: t.SortOrder,
		CreatedAt: t.CreatedAt.Unix(),
	}
}

// GetBySlug 获取单个 Tag（带关联计数）
// Read ladder: L1 bigcache -> L2 redis -> singleflight + DB.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*TagDTO, error) {
	key := "tag:" + slug

	if s.l1 != nil {
		if data, ok := s.l1.Get(key); ok {
			var dto TagDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return &dto, nil
			}
		}
	}

	ctxL2 := context.Background()
	if s.l2 != nil {
		if data, err := s.l2.Get(ctxL2, key).Bytes(); err == nil {
			var dto TagDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				if s.l1 != nil {
					s.l1.Set(key, data)
				}
				return &dto, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		t, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if t == nil {
			return nil, nil
		}
		dto := tagDTO(t)
		boardCount, assetCount, err := s.repo.GetCounts(ctx, t.TagID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		dto.BoardCount = boardCount
		dto.AssetCount = assetCount

		if data, err := json.Marshal(dto); err == nil {
			if s.l2 != nil {
				s.l2.Set(ctxL2, key, data, time.Duration(s.config.L2TTL)*time.Second)
			}
			if s.l1 != nil {
				s.l1.Set(key, data)
			}
		}
		return dto, nil
	})

	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*TagDTO), nil
}

// GetAll 获取所有 Tag 及关联计数
func (s *TagService) GetAll(ctx context.Context) ([]*TagDTO, error) {
	tags, err := s.repo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]*TagDTO, 0, len(tags))
	for _, t := range tags {
		dto := tagDTO(&t.Tag)
		dto.BoardCount = t.BoardCount
		dto.AssetCount = t.AssetCount
		list = append(list, dto)
	}
	return list, nil
}

// Create 创建 Tag
// Slug derives from the name when not supplied; a duplicate slug is a Conflict.
func (s *TagService) Create(ctx context.Context, in CreateTagInput) (*TagDTO, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("name is required")
	}

	slug := in.Slug
	if slug == "" {
		slug = util.Slugify(in.Name)
	}
	if slug == "" {
		return nil, apperr.Invalid("name does not produce a usable slug")
	}

	tag := &model.Tag{
		Name:     in.Name,
		Slug:     slug,
		Category: in.Category,
		Color:    in.Color,
	}

	id, err := s.repo.Create(ctx, tag)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("tag slug already exists: " + slug)
		}
		logger.Error("create tag failed", logger.String("error", err.Error()))
		return nil, apperr.Storage(err)
	}
	tag.TagID = id

	return tagDTO(tag), nil
}

// Update 更新 Tag
func (s *TagService) Update(ctx context.Context, slug string, in UpdateTagInput) (*TagDTO, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if tag == nil {
		return nil, apperr.NotFound("tag not found: " + slug)
	}

	if in.Name != nil {
		tag.Name = *in.Name
	}
	if in.Category != nil {
		tag.Category = *in.Category
	}
	if in.Color != nil {
		tag.Color = *in.Color
	}
	if in.SortOrder != nil {
		tag.SortOrder = *in.SortOrder
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, apperr.Storage(err)
	}

	s.invalidate(slug)
	return tagDTO(tag), nil
}

// Delete 级联删除 Tag
// Removes every board_tags and asset_tags edge referencing the tag and the
// tag row itself in one transaction; afterwards the former slug reads as
// not found.
func (s *TagService) Delete(ctx context.Context, slug string) (int64, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	if tag == nil {
		return 0, apperr.NotFound("tag not found: " + slug)
	}

	if err := s.repo.DeleteCascade(ctx, tag.TagID); err != nil {
		logger.Error("tag cascade delete failed",
			logger.String("slug", slug),
			logger.String("error", err.Error()))
		return 0, apperr.Storage(err)
	}

	s.invalidate(slug)
	return tag.TagID, nil
}

// BoardsForTag 获取关联某个 Tag 的版面
func (s *TagService) BoardsForTag(ctx context.Context, slug string) ([]*model.Board, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if tag == nil {
		return nil, apperr.NotFound("tag not found: " + slug)
	}

	boards, err := s.boardRepo.GetByTag(ctx, tag.TagID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return boards, nil
}

// ExportCSV 导出标签为 CSV
// Columns: name,slug,category,color,sortOrder,boards,assetCount,createdAt.
// Board slugs are pipe-joined; quoting is standard CSV so commas, quotes
// and newlines in values round-trip.
func (s *TagService) ExportCSV(ctx context.Context) ([]byte, error) {
	tags, err := s.repo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"name", "slug", "category", "color", "sortOrder", "boards", "assetCount", "createdAt"}
	if err := w.Write(header); err != nil {
		return nil, apperr.Storage(err)
	}

	for _, t := range tags {
		boards, err := s.boardRepo.GetByTag(ctx, t.TagID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		slugs := make([]string, 0, len(boards))
		for _, b := range boards {
			slugs = append(slugs, b.Slug)
		}

		record := []string{
			t.Name,
			t.Slug,
			t.Category,
			t.Color,
			util.IntToStr(t.SortOrder),
			strings.Join(slugs, "|"),
			util.IntToStr(t.AssetCount),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, apperr.Storage(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Storage(err)
	}
	return buf.Bytes(), nil
}

// FlushCache 刷新缓存
func (s *TagService) FlushCache(ctx context.Context) error {
	if s.l1 != nil {
		s.l1.Flush()
	}
	return nil
}

// invalidate 失效单个 Tag 的缓存
func (s *TagService) invalidate(slug string) {
	key := "tag:" + slug
	if s.l1 != nil {
		s.l1.Remove(key)
	}
	if s.l2 != nil {
		s.l2.Del(context.Background(), key)
	}
}
