package db

import (
	"context"
	"fmt"
	"strings"

	"mercari_mini_back_end_go/models"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mock_repository.go -package=db mercari_mini_back_end_go/db ItemRepository,UserRepository

// ErrNotFound is returned when no record matches the given identifier (or,
// for owner-gated mutations, when the id/seller pair matches nothing).
var ErrNotFound = errors.New("record not found")

type ItemRepository interface {
	Create(ctx context.Context, item models.Item) (models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Item, error)
	GetByID(ctx context.Context, id string) (models.Item, error)
	Update(ctx context.Context, id string, sellerID string, patch models.UpdateItemRequest) (models.Item, error)
	Delete(ctx context.Context, id string, sellerID string) error
}

const itemColumns = `item_id, title, description, price, image_url, seller_id, sold, created_at, updated_at`

type itemRepository struct {
	pool *pgxpool.Pool
}

func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO items (title, description, price, image_url, seller_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+itemColumns,
		item.Title,
		item.Description,
		item.Price,
		item.ImageURL,
		item.Seller,
	)
	created, err := scanItem(row)
	if err != nil {
		return models.Item{}, errors.Wrap(err, "insert item")
	}
	return created, nil
}

func (r *itemRepository) List(ctx context.Context) ([]models.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query items")
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *itemRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "query items by seller")
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (models.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, errors.Wrap(err, "query item")
	}
	return item, nil
}

// Update merges the patch in a single statement matching on id AND seller,
// so a concurrent delete or ownership mismatch can never produce a write.
func (r *itemRepository) Update(ctx context.Context, id string, sellerID string, patch models.UpdateItemRequest) (models.Item, error) {
	setClauses := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Sold != nil {
		add("sold", *patch.Sold)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id, sellerID)
	query := fmt.Sprintf(`UPDATE items SET %s WHERE item_id = $%d AND seller_id = $%d RETURNING `+itemColumns,
		strings.Join(setClauses, ", "), len(args)-1, len(args))

	row := r.pool.QueryRow(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, errors.Wrap(err, "update item")
	}
	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id string, sellerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE item_id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Price,
		&item.ImageURL,
		&item.Seller,
		&item.Sold,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate items")
	}
	return items, nil
}
