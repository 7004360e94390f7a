package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AssetLinkRepository asset↔board / asset↔tag 边数据访问接口
type AssetLinkRepository interface {
	Place(ctx context.Context, assetID string, boardID int64) error
	Remove(ctx context.Context, assetID string, boardID int64) (int64, error)
	CountAssetsByBoard(ctx context.Context, boardID int64) (int, error)
	SyncAssetTags(ctx context.Context, assetID string, tagIDs []int64) (inserted int64, err error)
}

// assetLinkRepository asset 边数据访问实现
type assetLinkRepository struct {
	db *sqlx.DB
}

// NewAssetLinkRepository 创建 AssetLinkRepository 实例
func NewAssetLinkRepository(db *sqlx.DB) AssetLinkRepository {
	return &assetLinkRepository{db: db}
}

// Place 将资源放置到版面
// The (asset_id, board_id) unique constraint surfaces duplicates to the caller.
func (r *assetLinkRepository) Place(ctx context.Context, assetID string, boardID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO asset_boards (asset_id, board_id) VALUES ($1, $2)", assetID, boardID)
	return err
}

// Remove 从版面移除资源，返回影响行数
func (r *assetLinkRepository) Remove(ctx context.Context, assetID string, boardID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM asset_boards WHERE asset_id = $1 AND board_id = $2", assetID, boardID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountAssetsByBoard 版面关联的去重资源数
func (r *assetLinkRepository) CountAssetsByBoard(ctx context.Context, boardID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(DISTINCT asset_id) FROM asset_boards WHERE board_id = $1", boardID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SyncAssetTags 重建单个资源的 asset_tags 索引
// One transaction per asset: prune edges whose tag no longer matches the
// freeform list, then insert the desired set. ON CONFLICT DO NOTHING keeps
// already-present edges and duplicate matches as successful no-ops.
func (r *assetLinkRepository) SyncAssetTags(ctx context.Context, assetID string, tagIDs []int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM asset_tags WHERE asset_id = $1 AND tag_id != ALL($2)",
		assetID, pq.Array(tagIDs)); err != nil {
		return 0, err
	}

	var inserted int64
	for _, tagID := range tagIDs {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO asset_tags (asset_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, assetID, tagID)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
