package repository

import (
	"context"
	"database/sql"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// BoardRepository Board 数据访问接口
type BoardRepository interface {
	GetByID(ctx context.Context, boardID int64) (*model.Board, error)
	GetBySlug(ctx context.Context, slug string) (*model.Board, error)
	GetAll(ctx context.Context) ([]*model.Board, error)
	GetByTag(ctx context.Context, tagID int64) ([]*model.Board, error)
	Create(ctx context.Context, board *model.Board) (int64, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, boardID int64) error
	UpdateSortOrder(ctx context.Context, slug string, order int) (int64, error)
}

// boardRepository Board 数据访问实现
type boardRepository struct {
	db *sqlx.DB
}

// NewBoardRepository 创建 BoardRepository 实例
func NewBoardRepository(db *sqlx.DB) BoardRepository {
	return &boardRepository{db: db}
}

// GetByID 根据 ID 获取 Board
func (r *boardRepository) GetByID(ctx context.Context, boardID int64) (*model.Board, error) {
	var board model.Board
	err := r.db.GetContext(ctx, &board, "SELECT * FROM boards WHERE board_id = $1", boardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// GetBySlug 根据 slug 获取 Board
func (r *boardRepository) GetBySlug(ctx context.Context, slug string) (*model.Board, error) {
	var board model.Board
	err := r.db.GetContext(ctx, &board, "SELECT * FROM boards WHERE slug = $1", slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

// GetAll 获取所有 Board，按 sort_order 排列
func (r *boardRepository) GetAll(ctx context.Context) ([]*model.Board, error) {
	var boards []*model.Board
	err := r.db.SelectContext(ctx, &boards, "SELECT * FROM boards ORDER BY sort_order, slug")
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// GetByTag 获取关联某个 Tag 的所有 Board
func (r *boardRepository) GetByTag(ctx context.Context, tagID int64) ([]*model.Board, error) {
	var boards []*model.Board
	query := `
		SELECT b.* FROM boards b
		INNER JOIN board_tags bt ON b.board_id = bt.board_id
		WHERE bt.tag_id = $1
		ORDER BY b.sort_order, b.slug
	`
	err := r.db.SelectContext(ctx, &boards, query, tagID)
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// Create 创建 Board
func (r *boardRepository) Create(ctx context.Context, board *model.Board) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO boards (slug, name, icon, color_primary, color_secondary, color_accent, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING board_id`,
		board.Slug, board.Name, board.Icon,
		board.ColorPrimary, board.ColorSecondary, board.ColorAccent, board.SortOrder).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update 更新 Board
func (r *boardRepository) Update(ctx context.Context, board *model.Board) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE boards SET name = $1, icon = $2, color_primary = $3, color_secondary = $4,
		 color_accent = $5, sort_order = $6, updated_at = NOW() WHERE board_id = $7`,
		board.Name, board.Icon, board.ColorPrimary, board.ColorSecondary,
		board.ColorAccent, board.SortOrder, board.BoardID)
	return err
}

// Delete 删除 Board
// board_tags and asset_boards rows go with it via ON DELETE CASCADE.
func (r *boardRepository) Delete(ctx context.Context, boardID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM boards WHERE board_id = $1", boardID)
	return err
}

// UpdateSortOrder 按 slug 更新排序值，返回影响行数
func (r *boardRepository) UpdateSortOrder(ctx context.Context, slug string, order int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE boards SET sort_order = $1, updated_at = NOW() WHERE slug = $2", order, slug)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
