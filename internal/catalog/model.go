package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a pharmacy inventory item.
//
// Stock and TotalStock are overlapping quantity columns inherited from the
// legacy schema; business logic must resolve them through the stock package
// instead of reading either field directly.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Manufacturer string          `json:"manufacturer"`
	Stock        *int            `json:"stock,omitempty"`
	TotalStock   *int            `json:"total_stock,omitempty"`
	ReorderLevel *int            `json:"reorder_level,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`

	IsArchived    bool       `json:"is_archived"`
	ArchivedDate  *time.Time `json:"archived_date,omitempty"`
	ArchivedBy    *string    `json:"archived_by,omitempty"`
	ArchiveReason *string    `json:"archive_reason,omitempty"`

	// StockStatus is derived, populated by stock.Normalize for consumers
	// that expect a single canonical shape. Never stored.
	StockStatus string `json:"stock_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArchiveState is the tagged view of the flat archive columns.
type ArchiveState struct {
	Archived bool
	At       time.Time
	By       string
	Reason   string
}

// ArchiveState projects the nullable archive columns into a tagged value.
func (p Product) ArchiveState() ArchiveState {
	if !p.IsArchived {
		return ArchiveState{}
	}
	state := ArchiveState{Archived: true}
	if p.ArchivedDate != nil {
		state.At = *p.ArchivedDate
	}
	if p.ArchivedBy != nil {
		state.By = *p.ArchivedBy
	}
	if p.ArchiveReason != nil {
		state.Reason = *p.ArchiveReason
	}
	return state
}

// ArchiveMetadataAnomalous reports archive metadata left behind on an active
// product. This is a detected data inconsistency, not a valid state.
func (p Product) ArchiveMetadataAnomalous() bool {
	return !p.IsArchived && (p.ArchivedDate != nil || p.ArchivedBy != nil || p.ArchiveReason != nil)
}
