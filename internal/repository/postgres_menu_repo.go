package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresMenuRepo はPostgreSQLを使用したメニューリポジトリ。
type PostgresMenuRepo struct {
	db *sql.DB
}

// NewPostgresMenuRepo はPostgresMenuRepoを生成する。
func NewPostgresMenuRepo(db *sql.DB) *PostgresMenuRepo {
	return &PostgresMenuRepo{db: db}
}

// FindAll は全メニュー項目を登録順に返す。
func (r *PostgresMenuRepo) FindAll(ctx context.Context) ([]*model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, recipe, image, category, price FROM menu ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	defer rows.Close()

	items := make([]*model.MenuItem, 0)
	for rows.Next() {
		item := &model.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Recipe, &item.Image, &item.Category, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu: %w", err)
	}

	return items, nil
}

// PostgresReviewRepo はPostgreSQLを使用したレビューリポジトリ。
type PostgresReviewRepo struct {
	db *sql.DB
}

// NewPostgresReviewRepo はPostgresReviewRepoを生成する。
func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

// FindAll は全レビューを登録順に返す。
func (r *PostgresReviewRepo) FindAll(ctx context.Context) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, details, rating FROM reviews ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0)
	for rows.Next() {
		review := &model.Review{}
		if err := rows.Scan(&review.ID, &review.Name, &review.Details, &review.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

var (
	_ MenuRepository   = (*PostgresMenuRepo)(nil)
	_ ReviewRepository = (*PostgresReviewRepo)(nil)
)
