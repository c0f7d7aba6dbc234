package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists and queries archive log entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, filters TimelineFilters) ([]Entry, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a Postgres-backed archive log repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, entry Entry) error {
	if entry.Type == "" || entry.Actor == "" {
		return errors.New("audit: entry requires type and actor")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	metaJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO archive_log
		(id, type, item_id, item_name, reason, actor, original_data, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Type, entry.ItemID, entry.ItemName, entry.Reason, entry.Actor,
		entry.OriginalData, metaJSON, entry.CreatedAt)
	return err
}

func (r *repository) List(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	query := `SELECT id, type, item_id, item_name, reason, actor, original_data, metadata, created_at
		FROM archive_log WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Type != "" {
		argCount++
		query += ` AND type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Type)
	}
	if filters.Actor != "" {
		argCount++
		query += ` AND actor = $` + strconv.Itoa(argCount)
		args = append(args, filters.Actor)
	}
	if filters.ItemID != "" {
		argCount++
		query += ` AND item_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ItemID)
	}
	if !filters.From.IsZero() {
		argCount++
		query += ` AND created_at >= $` + strconv.Itoa(argCount)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		argCount++
		query += ` AND created_at <= $` + strconv.Itoa(argCount)
		args = append(args, filters.To)
	}

	query += ` ORDER BY created_at DESC`

	if filters.PageSize > 0 {
		offset := (filters.Page - 1) * filters.PageSize
		if offset < 0 {
			offset = 0
		}
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.PageSize+1)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.ItemID, &e.ItemName, &e.Reason, &e.Actor, &e.OriginalData, &metaJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &e.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
