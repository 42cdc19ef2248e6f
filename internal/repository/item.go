package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/sickfits-go/internal/model"
)

const itemColumns = `id, title, description, image, large_image, price, user_id, created_at, updated_at`

// ItemRepository handles item persistence operations.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateItem inserts an item, assigning an ID and timestamps when unset.
func (r *ItemRepository) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	query := `INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.Image, item.LargeImage,
		item.Price, item.UserID, item.CreatedAt, item.UpdatedAt,
	)
	return err
}

// GetItem retrieves an item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item := &model.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.Description, &item.Image, &item.LargeImage,
		&item.Price, &item.UserID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

// ListItems returns a page of items, most recently created first.
func (r *ItemRepository) ListItems(ctx context.Context, skip, first int) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, first, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Description, &it.Image, &it.LargeImage,
			&it.Price, &it.UserID, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// CountItems returns the total number of items.
func (r *ItemRepository) CountItems(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

// UpdateItem writes every mutable column of item.
func (r *ItemRepository) UpdateItem(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = time.Now().UTC()

	query := `UPDATE items SET title = ?, description = ?, image = ?, large_image = ?, price = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		item.Title, item.Description, item.Image, item.LargeImage, item.Price, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(result, ErrItemNotFound)
}

// DeleteItem removes an item.
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrItemNotFound)
}

func expectRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
