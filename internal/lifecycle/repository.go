package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apotheca/apotheca/internal/catalog"
)

const productColumns = `id, sku, name, category, manufacturer, stock, total_stock, reorder_level,
	cost_price, selling_price, expiry_date, is_archived, archived_date, archived_by, archive_reason,
	created_at, updated_at`

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Postgres-backed lifecycle repository. All state
// transitions are conditional updates so concurrent callers converge on the
// target state instead of overwriting each other.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, err
}

func (r *repository) MarkArchived(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) (catalog.Product, bool, error) {
	row := r.db.QueryRow(ctx, `UPDATE products SET
		is_archived = TRUE, archived_date = $2, archived_by = $3, archive_reason = $4, updated_at = $2
		WHERE id = $1 AND is_archived = FALSE
		RETURNING `+productColumns, id, at, by, reason)
	p, err := scanProduct(row)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, err
	}
	// Nothing matched: either the product is already archived (no-op
	// success) or it does not exist (hard error).
	p, err = r.Get(ctx, id)
	return p, false, err
}

func (r *repository) ClearArchived(ctx context.Context, id uuid.UUID) (catalog.Product, bool, error) {
	row := r.db.QueryRow(ctx, `UPDATE products SET
		is_archived = FALSE, archived_date = NULL, archived_by = NULL, archive_reason = NULL, updated_at = $2
		WHERE id = $1 AND is_archived = TRUE
		RETURNING `+productColumns, id, time.Now())
	p, err := scanProduct(row)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, err
	}
	p, err = r.Get(ctx, id)
	return p, false, err
}

func (r *repository) MarkArchivedBatch(ctx context.Context, ids []uuid.UUID, at time.Time, by, reason string) ([]ArchivedItem, error) {
	rows, err := r.db.Query(ctx, `UPDATE products SET
		is_archived = TRUE, archived_date = $2, archived_by = $3, archive_reason = $4, updated_at = $2
		WHERE id = ANY($1) AND is_archived = FALSE
		RETURNING id, name`, ids, at, by, reason)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ArchivedItem
	for rows.Next() {
		var item ArchivedItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteIfSafe performs the referential-safety check and the delete in one
// statement, so a sale recorded concurrently can never slip between a check
// and a separate delete round trip.
func (r *repository) DeleteIfSafe(ctx context.Context, id uuid.UUID) (catalog.Product, bool, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM products
		WHERE id = $1
		  AND is_archived = TRUE
		  AND NOT EXISTS (SELECT 1 FROM sale_items WHERE sale_items.product_id = products.id)
		RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

func (r *repository) HasHistoricalReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Manufacturer,
		&p.Stock, &p.TotalStock, &p.ReorderLevel,
		&p.CostPrice, &p.SellingPrice, &p.ExpiryDate,
		&p.IsArchived, &p.ArchivedDate, &p.ArchivedBy, &p.ArchiveReason,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}
