package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestPostgresMenuRepo_ImplementsInterface(t *testing.T) {
	var _ MenuRepository = (*PostgresMenuRepo)(nil)
	var _ ReviewRepository = (*PostgresReviewRepo)(nil)
}

func TestPostgresMenuRepo_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresMenuRepo(db)

	insertMenuItem(t, db, "Caesar Salad", "salad", 12.5)
	insertMenuItem(t, db, "Margherita", "pizza", 9)

	items, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}

	categories := map[string]bool{}
	for _, item := range items {
		categories[item.Category] = true
	}
	if !categories["salad"] || !categories["pizza"] {
		t.Errorf("categories = %v, want salad and pizza", categories)
	}
}

func TestPostgresReviewRepo_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresReviewRepo(db)

	reviews, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", reviews)
	}

	_, err = db.Exec(
		`INSERT INTO reviews (id, name, details, rating) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), "Jane", "Great food", 4.5,
	)
	if err != nil {
		t.Fatalf("レビューの挿入に失敗: %v", err)
	}

	reviews, err = repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Rating != 4.5 {
		t.Errorf("reviews = %+v", reviews)
	}
}
