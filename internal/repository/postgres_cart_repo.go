package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresCartRepo はPostgreSQLを使用したカートリポジトリ。
type PostgresCartRepo struct {
	db *sql.DB
}

// NewPostgresCartRepo はPostgresCartRepoを生成する。
func NewPostgresCartRepo(db *sql.DB) *PostgresCartRepo {
	return &PostgresCartRepo{db: db}
}

// FindByEmail は指定ユーザーのカート項目を追加順に返す。
func (r *PostgresCartRepo) FindByEmail(ctx context.Context, email string) ([]*model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, menu_item_id, email, name, image, price, created_at
		 FROM carts WHERE email = $1 ORDER BY created_at, id`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.CartItem, 0)
	for rows.Next() {
		item := &model.CartItem{}
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.Email, &item.Name, &item.Image, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

// Create はカート項目を作成する。
func (r *PostgresCartRepo) Create(ctx context.Context, item *model.CartItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO carts (id, menu_item_id, email, name, image, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.MenuItemID, item.Email, item.Name, item.Image, item.Price, item.CreatedAt,
	)
	if isPQError(err, pqForeignKeyViolation) {
		return ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// DeleteByIDAndEmail は所有者が一致するカート項目を削除し、削除件数を返す。
func (r *PostgresCartRepo) DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM carts WHERE id = $1 AND email = $2`,
		id, email,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cart item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ CartRepository = (*PostgresCartRepo)(nil)
