package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
)

// MenuLister はメニュー一覧を取得するインターフェース。
type MenuLister interface {
	FindAll(ctx context.Context) ([]*model.MenuItem, error)
}

// ReviewLister はレビュー一覧を取得するインターフェース。
type ReviewLister interface {
	FindAll(ctx context.Context) ([]*model.Review, error)
}

// CatalogHandler はメニューとレビューの公開エンドポイント。
type CatalogHandler struct {
	menu    MenuLister
	reviews ReviewLister
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(menu MenuLister, reviews ReviewLister) *CatalogHandler {
	return &CatalogHandler{
		menu:    menu,
		reviews: reviews,
	}
}

// ListMenu は全メニュー項目を返す。
// GET /menu
func (h *CatalogHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.FindAll(r.Context())
	if err != nil {
		handleServiceError(w, fmt.Errorf("failed to list menu: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListReviews は全レビューを返す。
// GET /reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.FindAll(r.Context())
	if err != nil {
		handleServiceError(w, fmt.Errorf("failed to list reviews: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
