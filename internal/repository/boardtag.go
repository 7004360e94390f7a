package repository

import (
	"context"
	"database/sql"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// BoardTagRepository BoardTag 数据访问接口
type BoardTagRepository interface {
	GetByBoard(ctx context.Context, boardID int64) ([]*model.BoardTagView, error)
	Attach(ctx context.Context, edge *model.BoardTag) error
	Detach(ctx context.Context, boardID, tagID int64) (int64, error)
	NextSortOrder(ctx context.Context, boardID int64) (int, error)
}

// boardTagRepository BoardTag 数据访问实现
type boardTagRepository struct {
	db *sqlx.DB
}

// NewBoardTagRepository 创建 BoardTagRepository 实例
func NewBoardTagRepository(db *sqlx.DB) BoardTagRepository {
	return &boardTagRepository{db: db}
}

// GetByBoard 获取版面的标签边，按版面内排序
func (r *boardTagRepository) GetByBoard(ctx context.Context, boardID int64) ([]*model.BoardTagView, error) {
	var views []*model.BoardTagView
	query := `
		SELECT t.tag_id, t.name, t.slug, t.category, t.color,
		       bt.display_name, bt.sort_order
		FROM board_tags bt
		INNER JOIN tags t ON t.tag_id = bt.tag_id
		WHERE bt.board_id = $1
		ORDER BY bt.sort_order, t.slug
	`
	err := r.db.SelectContext(ctx, &views, query, boardID)
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Attach 创建关联边
// The (board_id, tag_id) unique constraint surfaces duplicates to the caller.
func (r *boardTagRepository) Attach(ctx context.Context, edge *model.BoardTag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO board_tags (board_id, tag_id, display_name, sort_order)
		 VALUES ($1, $2, $3, $4)`,
		edge.BoardID, edge.TagID, edge.DisplayName, edge.SortOrder)
	return err
}

// Detach 删除关联边，返回影响行数
func (r *boardTagRepository) Detach(ctx context.Context, boardID, tagID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM board_tags WHERE board_id = $1 AND tag_id = $2", boardID, tagID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// NextSortOrder 版面内下一个排序值
func (r *boardTagRepository) NextSortOrder(ctx context.Context, boardID int64) (int, error) {
	var next sql.NullInt64
	err := r.db.GetContext(ctx, &next,
		"SELECT MAX(sort_order) + 1 FROM board_tags WHERE board_id = $1", boardID)
	if err != nil {
		return 0, err
	}
	if !next.Valid {
		return 0, nil
	}
	return int(next.Int64), nil
}
