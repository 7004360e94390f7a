package repository

import (
	"context"

	"catalog_go/internal/model"

	"github.com/jmoiron/sqlx"
)

// TaxonomyRepository 类型/格式数据访问接口 (feeds the display cache)
type TaxonomyRepository interface {
	GetContentTypes(ctx context.Context) ([]*model.ContentType, error)
	GetFormats(ctx context.Context) ([]*model.Format, error)
}

// taxonomyRepository 类型/格式数据访问实现
type taxonomyRepository struct {
	db *sqlx.DB
}

// NewTaxonomyRepository 创建 TaxonomyRepository 实例
func NewTaxonomyRepository(db *sqlx.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// GetContentTypes 获取所有内容类型
func (r *taxonomyRepository) GetContentTypes(ctx context.Context) ([]*model.ContentType, error) {
	var types []*model.ContentType
	err := r.db.SelectContext(ctx, &types,
		"SELECT slug, label, color, background FROM content_types ORDER BY slug")
	if err != nil {
		return nil, err
	}
	return types, nil
}

// GetFormats 获取所有格式
func (r *taxonomyRepository) GetFormats(ctx context.Context) ([]*model.Format, error) {
	var formats []*model.Format
	err := r.db.SelectContext(ctx, &formats,
		"SELECT slug, label, color, icon_type FROM formats ORDER BY slug")
	if err != nil {
		return nil, err
	}
	return formats, nil
}
