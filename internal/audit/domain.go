// Package audit stores the append-only archive log. Entries are best-effort
// side effects of lifecycle transitions: writing one must never fail the
// mutation it describes.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryType enumerates recorded lifecycle events.
type EntryType string

const (
	TypeProductArchived     EntryType = "product_archived"
	TypeProductRestored     EntryType = "product_restored"
	TypeProductDeleted      EntryType = "product_permanently_deleted"
	TypeBulkDeletionAttempt EntryType = "bulk_deletion_attempt"
	TypeExpirySnapshot      EntryType = "expiry_snapshot"
)

// Entry is one archive log record.
type Entry struct {
	ID           uuid.UUID       `json:"id"`
	Type         EntryType       `json:"type"`
	ItemID       string          `json:"item_id,omitempty"`
	ItemName     string          `json:"item_name,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Actor        string          `json:"actor"`
	OriginalData json.RawMessage `json:"original_data,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TimelineFilters narrows the archive log listing.
type TimelineFilters struct {
	Type     string
	Actor    string
	ItemID   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// PagingInfo describes timeline pagination state.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	PrevPage int  `json:"prev_page,omitempty"`
	NextPage int  `json:"next_page,omitempty"`
}

// Result wraps timeline rows with paging information.
type Result struct {
	Rows   []Entry    `json:"rows"`
	Paging PagingInfo `json:"paging"`
}
