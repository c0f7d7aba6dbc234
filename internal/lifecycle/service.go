package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/apotheca/apotheca/internal/audit"
	"github.com/apotheca/apotheca/internal/catalog"
)

// restoreConcurrency bounds parallel single restores in a bulk restore.
const restoreConcurrency = 4

var msgPrinter = message.NewPrinter(language.English)

// RepositoryPort abstracts the store operations the service needs. Every
// state-changing method expresses its precondition as part of the same
// conditional statement issued to the store, so concurrent calls converge
// instead of racing.
type RepositoryPort interface {
	Get(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	// MarkArchived archives the product iff it is currently active. The bool
	// reports whether the state actually changed.
	MarkArchived(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) (catalog.Product, bool, error)
	// ClearArchived restores the product iff it is currently archived.
	ClearArchived(ctx context.Context, id uuid.UUID) (catalog.Product, bool, error)
	// MarkArchivedBatch archives every currently-active product among ids in
	// one conditional statement and returns the products transitioned.
	MarkArchivedBatch(ctx context.Context, ids []uuid.UUID, at time.Time, by, reason string) ([]ArchivedItem, error)
	// DeleteIfSafe removes the product iff it is archived and free of
	// historical sales references, in a single server-side statement.
	DeleteIfSafe(ctx context.Context, id uuid.UUID) (catalog.Product, bool, error)
	// HasHistoricalReferences reports whether any sale line item references
	// the product.
	HasHistoricalReferences(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service orchestrates archive, restore, and guarded deletion.
type Service struct {
	repo     RepositoryPort
	recorder audit.RecorderPort
	logger   *slog.Logger
}

// NewService builds the lifecycle service. recorder may be nil in tests.
func NewService(repo RepositoryPort, recorder audit.RecorderPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// Archive transitions the product from active to archived. Archiving an
// already-archived product is a no-op success and leaves its metadata alone.
func (s *Service) Archive(ctx context.Context, id uuid.UUID, reason, actor string) (catalog.Product, error) {
	if strings.TrimSpace(reason) == "" {
		return catalog.Product{}, ErrReasonRequired
	}
	actor = defaultActor(actor)

	product, changed, err := s.repo.MarkArchived(ctx, id, time.Now(), actor, reason)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("lifecycle: archive %s: %w", id, err)
	}
	if changed {
		s.recordAudit(ctx, audit.Entry{
			Type:         audit.TypeProductArchived,
			ItemID:       id.String(),
			ItemName:     product.Name,
			Reason:       reason,
			Actor:        actor,
			OriginalData: snapshot(product),
		})
	}
	return product, nil
}

// Restore transitions the product from archived back to active. Restoring a
// product that is not archived is a no-op success.
func (s *Service) Restore(ctx context.Context, id uuid.UUID, actor string) (catalog.Product, error) {
	actor = defaultActor(actor)

	product, changed, err := s.repo.ClearArchived(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("lifecycle: restore %s: %w", id, err)
	}
	if changed {
		s.recordAudit(ctx, audit.Entry{
			Type:         audit.TypeProductRestored,
			ItemID:       id.String(),
			ItemName:     product.Name,
			Actor:        actor,
			OriginalData: snapshot(product),
		})
	}
	return product, nil
}

// BulkArchive archives every currently-active product among ids. Ids already
// archived are silently excluded; one audit entry is written per product
// actually transitioned.
func (s *Service) BulkArchive(ctx context.Context, ids []uuid.UUID, reason, actor string) (BulkArchiveResult, error) {
	if len(ids) == 0 {
		return BulkArchiveResult{}, ErrEmptyBatch
	}
	if strings.TrimSpace(reason) == "" {
		return BulkArchiveResult{}, ErrReasonRequired
	}
	actor = defaultActor(actor)

	items, err := s.repo.MarkArchivedBatch(ctx, ids, time.Now(), actor, reason)
	if err != nil {
		return BulkArchiveResult{}, fmt.Errorf("lifecycle: bulk archive: %w", err)
	}
	for _, item := range items {
		s.recordAudit(ctx, audit.Entry{
			Type:     audit.TypeProductArchived,
			ItemID:   item.ID.String(),
			ItemName: item.Name,
			Reason:   reason,
			Actor:    actor,
			Metadata: map[string]any{"bulk": true},
		})
	}
	return BulkArchiveResult{
		Archived: len(items),
		Message:  msgPrinter.Sprintf("archived %d of %d products", len(items), len(ids)),
	}, nil
}

// BulkRestore restores a list of archived products via repeated conditional
// single restores. Partial failures are collected and reported, never dropped.
func (s *Service) BulkRestore(ctx context.Context, ids []uuid.UUID, actor string) (BulkRestoreResult, error) {
	if len(ids) == 0 {
		return BulkRestoreResult{}, ErrEmptyBatch
	}
	actor = defaultActor(actor)

	var (
		mu       sync.Mutex
		restored int
		failed   []RestoreFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(restoreConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := s.Restore(gctx, id, actor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, RestoreFailure{ID: id, Cause: err.Error()})
				return nil
			}
			restored++
			return nil
		})
	}
	_ = g.Wait()

	return BulkRestoreResult{
		Restored: restored,
		Failed:   failed,
		Message:  msgPrinter.Sprintf("restored %d of %d products", restored, len(ids)),
	}, nil
}

// BulkPermanentlyDelete irreversibly removes archived products. Products that
// do not exist, are not archived, or still carry sales references are skipped
// and reported; one unsafe id never aborts the batch. The safety check and
// the delete are a single server-side statement.
func (s *Service) BulkPermanentlyDelete(ctx context.Context, ids []uuid.UUID, actor string) (DeletionReport, error) {
	if len(ids) == 0 {
		return DeletionReport{}, ErrEmptyBatch
	}
	actor = defaultActor(actor)

	report := DeletionReport{Success: true, TotalRequested: len(ids)}
	for _, id := range ids {
		product, deleted, err := s.repo.DeleteIfSafe(ctx, id)
		if err != nil {
			report.SkippedProducts = append(report.SkippedProducts, SkippedProduct{ID: id, Reason: SkipStoreError})
			if s.logger != nil {
				s.logger.Warn("bulk delete store error", slog.String("product_id", id.String()), slog.Any("error", err))
			}
			continue
		}
		if !deleted {
			report.SkippedProducts = append(report.SkippedProducts, SkippedProduct{ID: id, Reason: s.classifySkip(ctx, id)})
			continue
		}
		report.TotalDeleted++
		s.recordAudit(ctx, audit.Entry{
			Type:         audit.TypeProductDeleted,
			ItemID:       id.String(),
			ItemName:     product.Name,
			Actor:        actor,
			OriginalData: snapshot(product),
		})
	}
	report.TotalSkipped = len(report.SkippedProducts)

	if report.TotalSkipped == 0 {
		report.Message = msgPrinter.Sprintf("permanently deleted all %d products", report.TotalDeleted)
	} else {
		report.Message = msgPrinter.Sprintf("permanently deleted %d products, skipped %d because of sales history or not found",
			report.TotalDeleted, report.TotalSkipped)
	}

	skippedIDs := make([]string, 0, len(report.SkippedProducts))
	for _, sp := range report.SkippedProducts {
		skippedIDs = append(skippedIDs, sp.ID.String())
	}
	s.recordAudit(ctx, audit.Entry{
		Type:   audit.TypeBulkDeletionAttempt,
		Actor:  actor,
		Reason: report.Message,
		Metadata: map[string]any{
			"total_requested": report.TotalRequested,
			"total_deleted":   report.TotalDeleted,
			"total_skipped":   report.TotalSkipped,
			"skipped_ids":     skippedIDs,
		},
	})
	return report, nil
}

// classifySkip explains why the conditional delete matched nothing.
func (s *Service) classifySkip(ctx context.Context, id uuid.UUID) SkipReason {
	product, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return SkipNotFound
	case err != nil:
		return SkipStoreError
	case !product.IsArchived:
		return SkipNotArchived
	}
	if hasRefs, err := s.repo.HasHistoricalReferences(ctx, id); err == nil && hasRefs {
		return SkipHasSales
	} else if err != nil {
		return SkipStoreError
	}
	// Conditions held on re-read, so the delete lost a race with a
	// concurrent writer.
	return SkipConflict
}

func (s *Service) recordAudit(ctx context.Context, entry audit.Entry) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("archive log write failed",
			slog.String("type", string(entry.Type)),
			slog.String("item_id", entry.ItemID),
			slog.Any("error", err))
	}
}

func defaultActor(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return "system"
	}
	return actor
}

func snapshot(p catalog.Product) json.RawMessage {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return raw
}
