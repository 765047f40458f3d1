package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/bagelshop/internal/menu"
)

// MenuStore implements menu.Store on SQLite.
type MenuStore struct {
	db *DB
}

func NewMenuStore(db *DB) *MenuStore {
	return &MenuStore{db: db}
}

var _ menu.Store = (*MenuStore)(nil)

const productColumns = `id, name, category, price_cents, description, available, image_key, created_at, updated_at`

func (s *MenuStore) ListProducts(ctx context.Context, availableOnly bool) ([]menu.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if availableOnly {
		query += ` WHERE available = 1`
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]menu.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *MenuStore) GetProduct(ctx context.Context, id string) (menu.Product, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return menu.Product{}, menu.ErrNotFound
	}
	return p, err
}

func (s *MenuStore) InsertProduct(ctx context.Context, p menu.Product) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO products (id, name, category, price_cents, description, available, image_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.Category), p.PriceCents, nullString(p.Description), boolToInt(p.Available),
		nullString(p.ImageKey), p.CreatedAt.UTC().Format(timestampLayout), p.UpdatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *MenuStore) UpdateProduct(ctx context.Context, p menu.Product) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE products
		 SET name = ?, category = ?, price_cents = ?, description = ?, available = ?, image_key = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, string(p.Category), p.PriceCents, nullString(p.Description), boolToInt(p.Available),
		nullString(p.ImageKey), p.UpdatedAt.UTC().Format(timestampLayout), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, menu.ErrNotFound)
}

func (s *MenuStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, menu.ErrNotFound)
}

// ListCategories returns the distinct categories in first-seen order.
func (s *MenuStore) ListCategories(ctx context.Context) ([]menu.Category, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT category FROM products GROUP BY category ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]menu.Category, 0, len(menu.Categories))
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, menu.Category(c))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (s *MenuStore) ListBatchOptions(ctx context.Context) ([]menu.BatchOption, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, name, size, discount_percent FROM batch_options ORDER BY size ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query batch options: %w", err)
	}
	defer rows.Close()

	options := make([]menu.BatchOption, 0)
	for rows.Next() {
		var opt menu.BatchOption
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Size, &opt.DiscountPercent); err != nil {
			return nil, fmt.Errorf("scan batch option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch options: %w", err)
	}
	return options, nil
}

func (s *MenuStore) InsertBatchOption(ctx context.Context, opt menu.BatchOption) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO batch_options (id, name, size, discount_percent) VALUES (?, ?, ?, ?)`,
		opt.ID, opt.Name, opt.Size, opt.DiscountPercent)
	if err != nil {
		return fmt.Errorf("insert batch option: %w", err)
	}
	return nil
}

func scanProduct(row rowScanner) (menu.Product, error) {
	var (
		p                    menu.Product
		category             string
		description, image   sql.NullString
		available            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &category, &p.PriceCents, &description, &available, &image, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan product: %w", err)
	}
	p.Category = menu.Category(category)
	p.Description = description.String
	p.Available = available == 1
	p.ImageKey = image.String
	var err error
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return p, err
	}
	return p, nil
}
