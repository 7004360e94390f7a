package model

import (
	"time"

	"github.com/lib/pq"
)

// Asset 资源模型, read-side projection of the externally-owned asset record.
// This service only ever mutates the views/shares counters.
type Asset struct {
	AssetID   string         `db:"asset_id"`
	Title     string         `db:"title"`
	Slug      string         `db:"slug"`
	Hub       string         `db:"hub"`
	Published bool           `db:"published"`
	Views     int64          `db:"views"`
	Shares    int64          `db:"shares"`
	Tags      pq.StringArray `db:"tags"` // freeform tag strings
	CreatedAt time.Time      `db:"created_at"`
}

// AssetSummary Analytics projection of an asset
type AssetSummary struct {
	AssetID string `db:"asset_id" json:"asset_id"`
	Title   string `db:"title" json:"title"`
	Slug    string `db:"slug" json:"slug"`
	Hub     string `db:"hub" json:"hub"`
	Views   int64  `db:"views" json:"views"`
	Shares  int64  `db:"shares" json:"shares"`
}

// HubStat Per-hub rollup
type HubStat struct {
	Hub        string `db:"hub" json:"hub"`
	Views      int64  `db:"views" json:"views"`
	AssetCount int64  `db:"asset_count" json:"asset_count"`
}
