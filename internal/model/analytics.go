package model

import (
	"database/sql"
	"time"
)

// Track actions
const (
	ActionView  = "view"
	ActionShare = "share"
)

// View sources
const (
	SourceDirect    = "direct"
	SourceSearch    = "search"
	SourceBoard     = "board"
	SourceShareLink = "share-link"
)

// ViewEvent 浏览事件 (append-only log row, never updated or deleted)
type ViewEvent struct {
	ID        int64          `db:"id"`
	EntryID   string         `db:"entry_id"` // asset identity
	Source    string         `db:"source"`
	SessionID sql.NullString `db:"session_id"` // analytics only, not identity
	ViewedAt  time.Time      `db:"viewed_at"`
}

// ViewEventDTO ViewEvent wire shape
type ViewEventDTO struct {
	ID        int64  `json:"id"`
	EntryID   string `json:"entry_id"`
	Source    string `json:"source"`
	SessionID string `json:"session_id,omitempty"`
	ViewedAt  int64  `json:"viewed_at"`
}
