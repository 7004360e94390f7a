package model

import (
	"database/sql"
	"time"
)

// Tag 标签模型 (catalog-wide tag vocabulary)
type Tag struct {
	TagID     int64     `db:"tag_id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"` // unique, URL-safe
	Category  string    `db:"category"`
	Color     string    `db:"color"`
	SortOrder int       `db:"sort_order"` // global display order
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TagWithCounts Tag row joined with edge counts
type TagWithCounts struct {
	Tag
	BoardCount int `db:"board_count"`
	AssetCount int `db:"asset_count"`
}

// BoardTag 版面标签关联 (board↔tag edge)
// DisplayName overrides Tag.Name inside this board only.
// SortOrder is the per-board display order, independent of Tag.SortOrder.
type BoardTag struct {
	ID          int64          `db:"id"`
	BoardID     int64          `db:"board_id"`
	TagID       int64          `db:"tag_id"`
	DisplayName sql.NullString `db:"display_name"`
	SortOrder   int            `db:"sort_order"`
}

// BoardTagView Edge joined with tag identity for read paths
type BoardTagView struct {
	TagID       int64          `db:"tag_id"`
	Name        string         `db:"name"`
	Slug        string         `db:"slug"`
	Category    string         `db:"category"`
	Color       string         `db:"color"`
	DisplayName sql.NullString `db:"display_name"`
	SortOrder   int            `db:"sort_order"`
}

// EffectiveName Display override if present, else the tag name
func (v *BoardTagView) EffectiveName() string {
	if v.DisplayName.Valid && v.DisplayName.String != "" {
		return v.DisplayName.String
	}
	return v.Name
}
