package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, sku, name, category, manufacturer, stock, total_stock, reorder_level,
	cost_price, selling_price, expiry_date, is_archived, archived_date, archived_by, archive_reason,
	created_at, updated_at`

// ListFilters narrows product listings.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Archived *bool
	SortBy   string
	SortDir  string
}

// Repository provides product master data access.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id uuid.UUID, product Product) error
	ListActive(ctx context.Context) ([]Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Postgres-backed product repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		ph := `$` + strconv.Itoa(argCount)
		where += ` AND (name ILIKE ` + ph + ` OR sku ILIKE ` + ph + ` OR manufacturer ILIKE ` + ph + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Category != "" {
		argCount++
		where += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, filters.Category)
	}
	if filters.Archived != nil {
		argCount++
		where += ` AND is_archived = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Archived)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.db.Exec(ctx, `INSERT INTO products
		(id, sku, name, category, manufacturer, stock, total_stock, reorder_level, cost_price, selling_price, expiry_date, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12, $13)`,
		product.ID, product.SKU, product.Name, product.Category, product.Manufacturer,
		product.Stock, product.TotalStock, product.ReorderLevel,
		product.CostPrice, product.SellingPrice, product.ExpiryDate,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, mapConstraintError(err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, product Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET
		sku = $1, name = $2, category = $3, manufacturer = $4,
		stock = $5, total_stock = $6, reorder_level = $7,
		cost_price = $8, selling_price = $9, expiry_date = $10, updated_at = $11
		WHERE id = $12`,
		product.SKU, product.Name, product.Category, product.Manufacturer,
		product.Stock, product.TotalStock, product.ReorderLevel,
		product.CostPrice, product.SellingPrice, product.ExpiryDate,
		time.Now(), id)
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns every non-archived product. Used by the report layer,
// which annotates the full set in memory.
func (r *repository) ListActive(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_archived = FALSE ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Manufacturer,
		&p.Stock, &p.TotalStock, &p.ReorderLevel,
		&p.CostPrice, &p.SellingPrice, &p.ExpiryDate,
		&p.IsArchived, &p.ArchivedDate, &p.ArchivedBy, &p.ArchiveReason,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSKU
	}
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "sku":
		return "sku " + dir
	case "name":
		return "name " + dir
	case "category":
		return "category " + dir
	case "expiry_date":
		return "expiry_date " + dir + " NULLS LAST"
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
