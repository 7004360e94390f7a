package service

import (
	"context"
	"database/sql"
	"time"

	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/core/snowflake"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
	"catalog_go/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var trackedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_track_events_total",
	Help: "Tracked engagement events by action.",
}, []string{"action"})

// AnalyticsService 分析业务服务
type AnalyticsService struct {
	repo   repository.AnalyticsRepository
	config *config.AnalyticsConfig

	// overridable for tests
	newID func() int64
	now   func() time.Time
}

// TrackInput 埋点输入
type TrackInput struct {
	AssetID   string
	Action    string
	Source    string
	SessionID string
}

// ReportStats 报表统计块
type ReportStats struct {
	TotalAssets int64 `json:"total_assets"`
	TotalViews  int64 `json:"total_views"`
	TotalShares int64 `json:"total_shares"`
	WindowViews int64 `json:"window_views"`
	WindowDays  int   `json:"window_days"`
}

// ReportDTO 分析报表
type ReportDTO struct {
	Stats          ReportStats            `json:"stats"`
	TopAssets      []*model.AssetSummary  `json:"top_assets"`
	RecentActivity []*model.ViewEventDTO  `json:"recent_activity"`
	ViewsByHub     []*model.HubStat       `json:"views_by_hub"`
}

// NewAnalyticsService 创建 AnalyticsService 实例
func NewAnalyticsService(repo repository.AnalyticsRepository, cfg *config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		config: cfg,
		newID:  snowflake.Generate,
		now:    time.Now,
	}
}

// Track 记录一次浏览或分享
// view: one atomic unit incrementing the views counter and appending a
// view_events row. share: counter increment only, no event row. Any other
// action is rejected before storage is touched. Repeated calls with the
// same session increment independently; dedup is out of scope.
func (s *AnalyticsService) Track(ctx context.Context, in TrackInput) error {
	if in.AssetID == "" {
		return apperr.Invalid("asset_id is required")
	}

	switch in.Action {
	case model.ActionView:
		event := &model.ViewEvent{
			ID:       s.newID(),
			EntryID:  in.AssetID,
			Source:   in.Source,
			ViewedAt: s.now(),
		}
		if event.Source == "" {
			event.Source = model.SourceDirect
		}
		if in.SessionID != "" {
			event.SessionID = sql.NullString{String: in.SessionID, Valid: true}
		}
		if err := s.repo.TrackView(ctx, event); err != nil {
			if err == sql.ErrNoRows {
				return apperr.NotFound("asset not found: " + in.AssetID)
			}
			logger.Error("track view failed",
				logger.String("asset_id", in.AssetID),
				logger.String("error", err.Error()))
			return apperr.Storage(err)
		}

	case model.ActionShare:
		if err := s.repo.IncShares(ctx, in.AssetID); err != nil {
			if err == sql.ErrNoRows {
				return apperr.NotFound("asset not found: " + in.AssetID)
			}
			logger.Error("track share failed",
				logger.String("asset_id", in.AssetID),
				logger.String("error", err.Error()))
			return apperr.Storage(err)
		}

	default:
		return apperr.Invalid("unknown action: " + in.Action)
	}

	trackedEvents.WithLabelValues(in.Action).Inc()
	return nil
}

// Report 生成时间窗报表
// Everything is computed fresh per call from the counters and the event
// log; there is no persisted rollup table.
func (s *AnalyticsService) Report(ctx context.Context, windowDays int) (*ReportDTO, error) {
	if windowDays <= 0 {
		windowDays = s.config.DefaultWindowDays
	}
	since := s.now().AddDate(0, 0, -windowDays)

	assets, views, shares, err := s.repo.TotalStats(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	windowViews, err := s.repo.CountEventsSince(ctx, since)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	top, err := s.repo.TopByViews(ctx, s.config.TopAssets)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	recent, err := s.repo.RecentEvents(ctx, s.config.RecentEvents)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	byHub, err := s.repo.StatsByHub(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	activity := make([]*model.ViewEventDTO, 0, len(recent))
	for _, e := range recent {
		dto := &model.ViewEventDTO{
			ID:       e.ID,
			EntryID:  e.EntryID,
			Source:   e.Source,
			ViewedAt: e.ViewedAt.Unix(),
		}
		if e.SessionID.Valid {
			dto.SessionID = e.SessionID.String
		}
		activity = append(activity, dto)
	}

	return &ReportDTO{
		Stats: ReportStats{
			TotalAssets: assets,
			TotalViews:  views,
			TotalShares: shares,
			WindowViews: windowViews,
			WindowDays:  windowDays,
		},
		TopAssets:      top,
		RecentActivity: activity,
		ViewsByHub:     byHub,
	}, nil
}
