package repository

import (
	"context"
	"database/sql"
	"time"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository 分析数据访问接口
// Owns the view_events log and the views/shares counters on assets.
type AnalyticsRepository interface {
	TrackView(ctx context.Context, event *model.ViewEvent) error
	IncShares(ctx context.Context, assetID string) error
	CountEventsSince(ctx context.Context, since time.Time) (int64, error)
	RecentEvents(ctx context.Context, limit int) ([]*model.ViewEvent, error)
	TotalStats(ctx context.Context) (assets, views, shares int64, err error)
	TopByViews(ctx context.Context, limit int) ([]*model.AssetSummary, error)
	StatsByHub(ctx context.Context) ([]*model.HubStat, error)
	CountEventsByAsset(ctx context.Context, assetID string) (int64, error)
}

// analyticsRepository 分析数据访问实现
type analyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository 创建 AnalyticsRepository 实例
func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// TrackView 记录一次浏览
// One transaction: the atomic views increment plus the event row; if
// either fails neither is observed. A zero-row increment means the asset
// is absent and reports sql.ErrNoRows before the event is written.
func (r *analyticsRepository) TrackView(ctx context.Context, event *model.ViewEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE assets SET views = views + 1 WHERE asset_id = $1", event.EntryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO view_events (id, entry_id, source, session_id, viewed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.EntryID, event.Source, event.SessionID, event.ViewedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// IncShares 分享计数自增
func (r *analyticsRepository) IncShares(ctx context.Context, assetID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE assets SET shares = shares + 1 WHERE asset_id = $1", assetID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountEventsSince 窗口内的浏览事件数
func (r *analyticsRepository) CountEventsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM view_events WHERE viewed_at >= $1", since)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RecentEvents 最近的浏览事件
func (r *analyticsRepository) RecentEvents(ctx context.Context, limit int) ([]*model.ViewEvent, error) {
	var events []*model.ViewEvent
	err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM view_events ORDER BY viewed_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// TotalStats 已发布资源的总量统计
func (r *analyticsRepository) TotalStats(ctx context.Context) (int64, int64, int64, error) {
	var row struct {
		Assets int64 `db:"assets"`
		Views  int64 `db:"views"`
		Shares int64 `db:"shares"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT COUNT(*) AS assets,
		        COALESCE(SUM(views), 0) AS views,
		        COALESCE(SUM(shares), 0) AS shares
		 FROM assets WHERE published = TRUE`)
	if err != nil {
		return 0, 0, 0, err
	}
	return row.Assets, row.Views, row.Shares, nil
}

// TopByViews 按浏览数取已发布资源 Top N
func (r *analyticsRepository) TopByViews(ctx context.Context, limit int) ([]*model.AssetSummary, error) {
	var top []*model.AssetSummary
	err := r.db.SelectContext(ctx, &top,
		`SELECT asset_id, title, slug, hub, views, shares
		 FROM assets WHERE published = TRUE
		 ORDER BY views DESC, asset_id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return top, nil
}

// StatsByHub 按 hub 汇总已发布资源
func (r *analyticsRepository) StatsByHub(ctx context.Context) ([]*model.HubStat, error) {
	var stats []*model.HubStat
	err := r.db.SelectContext(ctx, &stats,
		`SELECT hub, COALESCE(SUM(views), 0) AS views, COUNT(*) AS asset_count
		 FROM assets WHERE published = TRUE
		 GROUP BY hub ORDER BY views DESC`)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CountEventsByAsset 单个资源的事件总数
func (r *analyticsRepository) CountEventsByAsset(ctx context.Context, assetID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM view_events WHERE entry_id = $1", assetID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
