package repository

import (
	"context"
	"database/sql"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// AssetRepository 资源数据访问接口 (read side of the external asset records)
type AssetRepository interface {
	GetByID(ctx context.Context, assetID string) (*model.Asset, error)
	GetAll(ctx context.Context) ([]*model.Asset, error)
	GetPublished(ctx context.Context) ([]*model.Asset, error)
}

// assetRepository 资源数据访问实现
type assetRepository struct {
	db *sqlx.DB
}

// NewAssetRepository 创建 AssetRepository 实例
func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

// GetByID 根据 ID 获取资源
func (r *assetRepository) GetByID(ctx context.Context, assetID string) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.GetContext(ctx, &asset,
		`SELECT asset_id, title, slug, hub, published, views, shares, tags, created_at
		 FROM assets WHERE asset_id = $1`, assetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

// GetAll 获取所有资源（含未发布，用于索引重建）
func (r *assetRepository) GetAll(ctx context.Context) ([]*model.Asset, error) {
	var assets []*model.Asset
	err := r.db.SelectContext(ctx, &assets,
		`SELECT asset_id, title, slug, hub, published, views, shares, tags, created_at
		 FROM assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// GetPublished 获取所有已发布资源（含 freeform tags 列表）
func (r *assetRepository) GetPublished(ctx context.Context) ([]*model.Asset, error) {
	var assets []*model.Asset
	err := r.db.SelectContext(ctx, &assets,
		`SELECT asset_id, title, slug, hub, published, views, shares, tags, created_at
		 FROM assets WHERE published = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return assets, nil
}
