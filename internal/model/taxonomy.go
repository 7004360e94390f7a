package model

// ContentType 内容类型 (externally administered, read by the display cache)
type ContentType struct {
	Slug       string `db:"slug"`
	Label      string `db:"label"`
	Color      string `db:"color"`
	Background string `db:"background"`
}

// Format 格式 (externally administered, read by the display cache)
type Format struct {
	Slug     string `db:"slug"`
	Label    string `db:"label"`
	Color    string `db:"color"`
	IconType string `db:"icon_type"`
}

// TypeDisplay Badge display entry for a content type
type TypeDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Bg    string `json:"bg"`
}

// FormatDisplay Badge display entry for a format
type FormatDisplay struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	IconType string `json:"icon_type"`
}
