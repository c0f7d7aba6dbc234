// Package lifecycle drives the product state machine: active products are
// archived, archived products are restored or permanently deleted. Permanent
// deletion is guarded against destroying products with historical sales
// references.
package lifecycle

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrReasonRequired rejects an archive call without a reason.
	ErrReasonRequired = errors.New("lifecycle: archive reason is required")
	// ErrEmptyBatch rejects a bulk call with no product ids.
	ErrEmptyBatch = errors.New("lifecycle: at least one product id is required")
)

// SkipReason explains why a bulk operation left a product untouched.
type SkipReason string

const (
	SkipNotFound    SkipReason = "not found"
	SkipNotArchived SkipReason = "not archived"
	SkipHasSales    SkipReason = "has sales history"
	SkipConflict    SkipReason = "concurrent modification"
	SkipStoreError  SkipReason = "store error"
)

// ArchivedItem identifies one product transitioned by a bulk archive.
type ArchivedItem struct {
	ID   uuid.UUID
	Name string
}

// BulkArchiveResult summarises a bulk archive.
type BulkArchiveResult struct {
	Archived int    `json:"archived"`
	Message  string `json:"message"`
}

// RestoreFailure reports one failed restore within a batch.
type RestoreFailure struct {
	ID    uuid.UUID `json:"id"`
	Cause string    `json:"cause"`
}

// BulkRestoreResult summarises a bulk restore including partial failures.
type BulkRestoreResult struct {
	Restored int              `json:"restored"`
	Failed   []RestoreFailure `json:"failed,omitempty"`
	Message  string           `json:"message"`
}

// SkippedProduct reports one product a deletion batch refused to touch.
type SkippedProduct struct {
	ID     uuid.UUID  `json:"id"`
	Reason SkipReason `json:"reason"`
}

// DeletionReport is the structured outcome of a guarded bulk deletion. The
// batch itself succeeds even when every item was skipped; callers inspect the
// counts to learn exactly what happened.
type DeletionReport struct {
	Success         bool             `json:"success"`
	TotalRequested  int              `json:"total_requested"`
	TotalDeleted    int              `json:"total_deleted"`
	TotalSkipped    int              `json:"total_skipped"`
	SkippedProducts []SkippedProduct `json:"skipped_products,omitempty"`
	Message         string           `json:"message"`
}
