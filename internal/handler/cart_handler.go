package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bistro/internal/cart"
	"github.com/hitoshi/bistro/internal/model"
)

// CartServiceInterface はカートハンドラーが必要とするサービスインターフェース。
type CartServiceInterface interface {
	List(ctx context.Context, callerEmail, email string) ([]*model.CartItem, error)
	Add(ctx context.Context, callerEmail string, in cart.AddInput) (*model.InsertResult, error)
	Remove(ctx context.Context, callerEmail, id string) (*model.DeleteResult, error)
}

// CartHandler はカート操作のHTTPハンドラー。
type CartHandler struct {
	service CartServiceInterface
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(service CartServiceInterface) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// addCartItemRequest はカート追加リクエストのボディ。
type addCartItemRequest struct {
	MenuItemID string  `json:"menuItemId"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
}

// ListCart はクエリのemailに一致するカート項目を返す。
// GET /carts?email=
func (h *CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), caller, r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddCartItem は呼び出し元のカートに項目を追加する。
// POST /carts
func (h *CartHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Add(r.Context(), caller, cart.AddInput{
		MenuItemID: req.MenuItemID,
		Email:      req.Email,
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RemoveCartItem は呼び出し元のカート項目を削除する。
// DELETE /carts/{id}
func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.Remove(r.Context(), caller, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
