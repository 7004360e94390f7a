package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
	"catalog_go/internal/pkg/pool"
	"catalog_go/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BoardService Board 业务服务，同时承担版面↔标签、资源↔版面关联管理。
//
// Edge policy, uniform across all edge kinds: attaching an existing edge
// is a Conflict; detaching an absent edge is a success no-op; an absent
// parent is always NotFound.
type BoardService struct {
	repo      repository.BoardRepository
	boardTag  repository.BoardTagRepository
	assetLink repository.AssetLinkRepository
	tagRepo   repository.TagRepository
	assetRepo repository.AssetRepository
	l1        *pool.BigCache
	l2        *redis.Client
	sf        *singleflight.Group
	config    *config.CacheConfig
}

// BoardTagDTO 版面标签边数据传输对象
// DisplayName is the effective name: per-board override if set, else the
// tag's own name.
type BoardTagDTO struct {
	TagID       int64  `json:"tag_id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color,omitempty"`
	SortOrder   int    `json:"sort_order"`
	MatchCount  int    `json:"match_count,omitempty"`
}

// BoardDTO 版面数据传输对象
type BoardDTO struct {
	BoardID        int64          `json:"board_id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	Icon           string         `json:"icon,omitempty"`
	ColorPrimary   string         `json:"color_primary"`
	ColorSecondary string         `json:"color_secondary"`
	ColorAccent    string         `json:"color_accent"`
	SortOrder      int            `json:"sort_order"`
	Tags           []*BoardTagDTO `json:"tags"`
	AssetCount     int            `json:"asset_count"`
}

// CreateBoardInput 创建 Board 输入
type CreateBoardInput struct {
	Slug           string
	Name           string
	Icon           string
	ColorPrimary   string
	ColorSecondary string
	ColorAccent    string
}

// UpdateBoardInput 更新 Board 输入（nil 字段保持不变）
type UpdateBoardInput struct {
	Name           *string
	Icon           *string
	ColorPrimary   *string
	ColorSecondary *string
	ColorAccent    *string
	SortOrder      *int
}

// AttachTagInput 挂接标签输入
type AttachTagInput struct {
	DisplayName *string
	SortOrder   *int
}

// ResyncResult 资源标签索引重建结果
type ResyncResult struct {
	Assets   int   `json:"assets"`
	Inserted int64 `json:"inserted"`
}

// NewBoardService 创建 BoardService 实例
func NewBoardService(
	repo repository.BoardRepository,
	boardTag repository.BoardTagRepository,
	assetLink repository.AssetLinkRepository,
	tagRepo repository.TagRepository,
	assetRepo repository.AssetRepository,
	l2 *redis.Client,
	cfg *config.CacheConfig,
) *BoardService {
	l1Cache, _ := pool.NewBigCache(cfg.L1Cap, time.Duration(cfg.L2TTL)*time.Second)
	return &BoardService{
		repo:      repo,
		boardTag:  boardTag,
		assetLink: assetLink,
		tagRepo:   tagRepo,
		assetRepo: assetRepo,
		l1:        l1Cache,
		l2:        l2,
		sf:        &singleflight.Group{},
		config:    cfg,
	}
}

func boardDTO(b *model.Board) *BoardDTO {
	return &BoardDTO{
		BoardID:        b.BoardID,
		Slug:           b.Slug,
		Name:           b.Name,
		Icon:           b.Icon,
		ColorPrimary:   b.ColorPrimary,
		ColorSecondary: b.ColorSecondary,
		ColorAccent:    b.ColorAccent,
		SortOrder:      b.SortOrder,
		Tags:           []*BoardTagDTO{},
	}
}

// fill 装配单个版面的边和资源计数
// One tag-join query and one count query per board. The asset count comes
// from asset_boards, never inferred from the asset_tags index.
func (s *BoardService) fill(ctx context.Context, dto *BoardDTO) error {
	edges, err := s.boardTag.GetByBoard(ctx, dto.BoardID)
	if err != nil {
		return err
	}
	for _, e := range edges {
		dto.Tags = append(dto.Tags, &BoardTagDTO{
			TagID:       e.TagID,
			Slug:        e.Slug,
			Name:        e.Name,
			DisplayName: e.EffectiveName(),
			Category:    e.Category,
			Color:       e.Color,
			SortOrder:   e.SortOrder,
		})
	}

	count, err := s.assetLink.CountAssetsByBoard(ctx, dto.BoardID)
	if err != nil {
		return err
	}
	dto.AssetCount = count
	return nil
}

// List 获取所有版面及其标签边和资源计数
// Read-heavy fan-out: one boards query, then per-board assembly. Board
// cardinality is tens, not thousands, so no pagination.
func (s *BoardService) List(ctx context.Context) ([]*BoardDTO, error) {
	boards, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	list := make([]*BoardDTO, 0, len(boards))
	for _, b := range boards {
		dto := boardDTO(b)
		if err := s.fill(ctx, dto); err != nil {
			return nil, apperr.Storage(err)
		}
		list = append(list, dto)
	}
	return list, nil
}

// GetBySlug 获取单个版面详情
// Detail additionally carries per-board-tag usage counts computed by the
// matching engine over the published assets' freeform tag lists.
func (s *BoardService) GetBySlug(ctx context.Context, slug string) (*BoardDTO, error) {
	key := "board:" + slug

	if s.l1 != nil {
		if data, ok := s.l1.Get(key); ok {
			var dto BoardDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return &dto, nil
			}
		}
	}

	ctxL2 := context.Background()
	if s.l2 != nil {
		if data, err := s.l2.Get(ctxL2, key).Bytes(); err == nil {
			var dto BoardDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				if s.l1 != nil {
					s.l1.Set(key, data)
				}
				return &dto, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		b, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		if b == nil {
			return nil, nil
		}
		dto := boardDTO(b)
		if err := s.fill(ctx, dto); err != nil {
			return nil, apperr.Storage(err)
		}
		if err := s.fillMatchCounts(ctx, dto); err != nil {
			return nil, apperr.Storage(err)
		}

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
	return v.(*BoardDTO), nil
}

// fillMatchCounts 用匹配引擎统计每个版面标签命中的资源数
func (s *BoardService) fillMatchCounts(ctx context.Context, dto *BoardDTO) error {
	if len(dto.Tags) == 0 {
		return nil
	}
	assets, err := s.assetRepo.GetPublished(ctx)
	if err != nil {
		return err
	}

	lists := make([][]string, 0, len(assets))
	for _, a := range assets {
		lists = append(lists, a.Tags)
	}
	// Equivalence runs against the tag's canonical name, not the
	// per-board display override.
	refs := make([]BoardTagRef, 0, len(dto.Tags))
	for _, t := range dto.Tags {
		refs = append(refs, BoardTagRef{Slug: t.Slug, Name: t.Name})
	}

	counts := CountMatchesPerBoardTag(lists, refs)
	for _, t := range dto.Tags {
		t.MatchCount = counts[t.Slug]
	}
	return nil
}

// Create 创建版面
func (s *BoardService) Create(ctx context.Context, in CreateBoardInput) (*BoardDTO, error) {
	if strings.TrimSpace(in.Slug) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("slug and name are required")
	}
	if in.ColorPrimary == "" || in.ColorSecondary == "" || in.ColorAccent == "" {
		return nil, apperr.Invalid("color_primary, color_secondary and color_accent are required")
	}

	board := &model.Board{
		Slug:           in.Slug,
		Name:           in.Name,
		Icon:           in.Icon,
		ColorPrimary:   in.ColorPrimary,
		ColorSecondary: in.ColorSecondary,
		ColorAccent:    in.ColorAccent,
	}

	id, err := s.repo.Create(ctx, board)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("board slug already exists: " + in.Slug)
		}
		logger.Error("create board failed", logger.String("error", err.Error()))
		return nil, apperr.Storage(err)
	}
	board.BoardID = id

	return boardDTO(board), nil
}

// Update 更新版面
func (s *BoardService) Update(ctx context.Context, slug string, in UpdateBoardInput) (*BoardDTO, error) {
	board, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if board == nil {
		return nil, apperr.NotFound("board not found: " + slug)
	}

	if in.Name != nil {
		board.Name = *in.Name
	}
	if in.Icon != nil {
		board.Icon = *in.Icon
	}
	if in.ColorPrimary != nil {
		board.ColorPrimary = *in.ColorPrimary
	}
	if in.ColorSecondary != nil {
		board.ColorSecondary = *in.ColorSecondary
	}
	if in.ColorAccent != nil {
		board.ColorAccent = *in.ColorAccent
	}
	if in.SortOrder != nil {
		board.SortOrder = *in.SortOrder
	}

	if err := s.repo.Update(ctx, board); err != nil {
		return nil, apperr.Storage(err)
	}

	s.invalidate(slug)
	dto := boardDTO(board)
	if err := s.fill(ctx, dto); err != nil {
		return nil, apperr.Storage(err)
	}
	return dto, nil
}

// Delete 删除版面
// The storage layer cascades the board's edges via referential constraints.
func (s *BoardService) Delete(ctx context.Context, slug string) error {
	board, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return apperr.Storage(err)
	}
	if board == nil {
		return apperr.NotFound("board not found: " + slug)
	}

	if err := s.repo.Delete(ctx, board.BoardID); err != nil {
		return apperr.Storage(err)
	}

	s.invalidate(slug)
	return nil
}

// Reorder 重排版面
// sort_order = position in the input sequence, one independent update per
// slug. Boards not listed keep their existing order; unknown slugs are
// skipped. Concurrent reorders may interleave, which is accepted.
func (s *BoardService) Reorder(ctx context.Context, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, apperr.Invalid("slugs must be a non-empty list")
	}

	var updated int64
	for i, slug := range slugs {
		n, err := s.repo.UpdateSortOrder(ctx, slug, i)
		if err != nil {
			return updated, apperr.Storage(err)
		}
		if n == 0 {
			logger.Warn("reorder: unknown board slug", logger.String("slug", slug))
			continue
		}
		updated += n
		s.invalidate(slug)
	}
	return updated, nil
}

// AttachTag 将标签挂接到版面
// Duplicate edge is a Conflict; absent board or tag is NotFound. Sort
// order defaults to the end of the board's current list.
func (s *BoardService) AttachTag(ctx context.Context, boardSlug, tagSlug string, in AttachTagInput) error {
	board, err := s.repo.GetBySlug(ctx, boardSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if board == nil {
		return apperr.NotFound("board not found: " + boardSlug)
	}
	tag, err := s.tagRepo.GetBySlug(ctx, tagSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag == nil {
		return apperr.NotFound("tag not found: " + tagSlug)
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else {
		order, err = s.boardTag.NextSortOrder(ctx, board.BoardID)
		if err != nil {
			return apperr.Storage(err)
		}
	}

	edge := &model.BoardTag{
		BoardID:   board.BoardID,
		TagID:     tag.TagID,
		SortOrder: order,
	}
	if in.DisplayName != nil && *in.DisplayName != "" {
		edge.DisplayName = sql.NullString{String: *in.DisplayName, Valid: true}
	}

	if err := s.boardTag.Attach(ctx, edge); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.Conflict("tag already attached: " + tagSlug)
		}
		return apperr.Storage(err)
	}

	s.invalidate(boardSlug)
	return nil
}

// DetachTag 从版面摘除标签
// Absent edge is a success no-op; absent parents are NotFound.
func (s *BoardService) DetachTag(ctx context.Context, boardSlug, tagSlug string) error {
	board, err := s.repo.GetBySlug(ctx, boardSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if board == nil {
		return apperr.NotFound("board not found: " + boardSlug)
	}
	tag, err := s.tagRepo.GetBySlug(ctx, tagSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag == nil {
		return apperr.NotFound("tag not found: " + tagSlug)
	}

	if _, err := s.boardTag.Detach(ctx, board.BoardID, tag.TagID); err != nil {
		return apperr.Storage(err)
	}

	s.invalidate(boardSlug)
	return nil
}

// PlaceAsset 将资源放置到版面
func (s *BoardService) PlaceAsset(ctx context.Context, assetID, boardSlug string) error {
	board, err := s.repo.GetBySlug(ctx, boardSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if board == nil {
		return apperr.NotFound("board not found: " + boardSlug)
	}
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return apperr.Storage(err)
	}
	if asset == nil {
		return apperr.NotFound("asset not found: " + assetID)
	}

	if err := s.assetLink.Place(ctx, assetID, board.BoardID); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperr.Conflict("asset already on board: " + boardSlug)
		}
		return apperr.Storage(err)
	}

	s.invalidate(boardSlug)
	return nil
}

// RemoveAsset 从版面移除资源
// Same policy as DetachTag: absent edge is a success no-op.
func (s *BoardService) RemoveAsset(ctx context.Context, assetID, boardSlug string) error {
	board, err := s.repo.GetBySlug(ctx, boardSlug)
	if err != nil {
		return apperr.Storage(err)
	}
	if board == nil {
		return apperr.NotFound("board not found: " + boardSlug)
	}

	if _, err := s.assetLink.Remove(ctx, assetID, board.BoardID); err != nil {
		return apperr.Storage(err)
	}

	s.invalidate(boardSlug)
	return nil
}

// ResyncAssetTags 重建 asset_tags 索引
// The index is a denormalized view of every asset's freeform tag list;
// this pass re-derives it with the matching engine and lets the storage
// layer ignore duplicate inserts.
func (s *BoardService) ResyncAssetTags(ctx context.Context) (*ResyncResult, error) {
	vocabulary, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	assets, err := s.assetRepo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	result := &ResyncResult{}
	for _, a := range assets {
		ids := MatchTagIDs(a.Tags, vocabulary)
		n, err := s.assetLink.SyncAssetTags(ctx, a.AssetID, ids)
		if err != nil {
			logger.Error("asset tag resync failed",
				logger.String("asset_id", a.AssetID),
				logger.String("error", err.Error()))
			return nil, apperr.Storage(err)
		}
		result.Assets++
		result.Inserted += n
	}

	logger.Info("asset tag index resynced",
		logger.Int("assets", result.Assets),
		logger.Int64("inserted", result.Inserted))
	return result, nil
}

// FlushCache 刷新缓存
func (s *BoardService) FlushCache(ctx context.Context) error {
	if s.l1 != nil {
		s.l1.Flush()
	}
	return nil
}

// invalidate 失效单个版面的缓存
func (s *BoardService) invalidate(slug string) {
	key := "board:" + slug
	if s.l1 != nil {
		s.l1.Remove(key)
	}
	if s.l2 != nil {
		s.l2.Del(context.Background(), key)
	}
}
