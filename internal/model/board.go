package model

import "time"

// Board 版面模型 (curated collection of assets)
type Board struct {
	BoardID        int64     `db:"board_id"`
	Slug           string    `db:"slug"` // unique
	Name           string    `db:"name"`
	Icon           string    `db:"icon"`
	ColorPrimary   string    `db:"color_primary"`
	ColorSecondary string    `db:"color_secondary"`
	ColorAccent    string    `db:"color_accent"`
	SortOrder      int       `db:"sort_order"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// AssetBoard asset↔board edge
type AssetBoard struct {
	ID      int64  `db:"id"`
	AssetID string `db:"asset_id"`
	BoardID int64  `db:"board_id"`
}

// AssetTag asset↔tag edge, denormalized index over the freeform
// assets.tags list. Kept in sync by the explicit resync operation.
type AssetTag struct {
	ID      int64  `db:"id"`
	AssetID string `db:"asset_id"`
	TagID   int64  `db:"tag_id"`
}
