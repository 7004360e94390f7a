package repository

import (
	"context"
	"database/sql"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// TagRepository Tag 数据访问接口
type TagRepository interface {
	GetByID(ctx context.Context, tagID int64) (*model.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	GetAll(ctx context.Context) ([]*model.Tag, error)
	GetAllWithCounts(ctx context.Context) ([]*model.TagWithCounts, error)
	GetCounts(ctx context.Context, tagID int64) (boardCount, assetCount int, err error)
	Create(ctx context.Context, tag *model.Tag) (int64, error)
	Update(ctx context.Context, tag *model.Tag) error
	DeleteCascade(ctx context.Context, tagID int64) error
}

// tagRepository Tag 数据访问实现
type tagRepository struct {
	db *sqlx.DB
}

// NewTagRepository 创建 TagRepository 实例
func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

// GetByID 根据 ID 获取 Tag
func (r *tagRepository) GetByID(ctx context.Context, tagID int64) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.GetContext(ctx, &tag, "SELECT * FROM tags WHERE tag_id = $1", tagID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// GetBySlug 根据 slug 获取 Tag
func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.GetContext(ctx, &tag, "SELECT * FROM tags WHERE slug = $1", slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// GetAll 获取所有 Tag
func (r *tagRepository) GetAll(ctx context.Context) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := r.db.SelectContext(ctx, &tags, "SELECT * FROM tags ORDER BY sort_order, slug")
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetAllWithCounts 获取所有 Tag 及关联计数
// Board and asset counts come from the edge tables in one batched query.
func (r *tagRepository) GetAllWithCounts(ctx context.Context) ([]*model.TagWithCounts, error) {
	var tags []*model.TagWithCounts
	query := `
		SELECT t.*,
		       (SELECT COUNT(*) FROM board_tags bt WHERE bt.tag_id = t.tag_id) AS board_count,
		       (SELECT COUNT(DISTINCT at.asset_id) FROM asset_tags at WHERE at.tag_id = t.tag_id) AS asset_count
		FROM tags t
		ORDER BY t.sort_order, t.slug
	`
	err := r.db.SelectContext(ctx, &tags, query)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetCounts 获取单个 Tag 的关联计数
func (r *tagRepository) GetCounts(ctx context.Context, tagID int64) (int, int, error) {
	var boardCount, assetCount int
	if err := r.db.GetContext(ctx, &boardCount,
		"SELECT COUNT(*) FROM board_tags WHERE tag_id = $1", tagID); err != nil {
		return 0, 0, err
	}
	if err := r.db.GetContext(ctx, &assetCount,
		"SELECT COUNT(DISTINCT asset_id) FROM asset_tags WHERE tag_id = $1", tagID); err != nil {
		return 0, 0, err
	}
	return boardCount, assetCount, nil
}

// Create 创建 Tag
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO tags (name, slug, category, color, sort_order)
		 VALUES ($1, $2, $3, $4, $5) RETURNING tag_id`,
		tag.Name, tag.Slug, tag.Category, tag.Color, tag.SortOrder).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update 更新 Tag
func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = $1, slug = $2, category = $3, color = $4,
		 sort_order = $5, updated_at = NOW() WHERE tag_id = $6`,
		tag.Name, tag.Slug, tag.Category, tag.Color, tag.SortOrder, tag.TagID)
	return err
}

// DeleteCascade 级联删除 Tag
// One transaction: board_tags edges, asset_tags edges, then the tag row.
// No partial cascade is ever observable.
func (r *tagRepository) DeleteCascade(ctx context.Context, tagID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM board_tags WHERE tag_id = $1", tagID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM asset_tags WHERE tag_id = $1", tagID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE tag_id = $1", tagID); err != nil {
		return err
	}
	return tx.Commit()
}
