package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bistro/internal/cart"
	"github.com/hitoshi/bistro/internal/middleware"
	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/user"
)

// withEmail はテスト用に認証済みemailをリクエストコンテキストに注入する。
func withEmail(r *http.Request, email string) *http.Request {
	return r.WithContext(middleware.ContextWithEmail(r.Context(), email))
}

// withChiURLParam はテスト用にchiのURLパラメータをリクエストに注入する。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorBody はエラーレスポンスのボディをデコードする。
func decodeErrorBody(t *testing.T, resp *http.Response) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	registerFn  func(ctx context.Context, in user.RegisterInput) (*model.InsertResult, bool, error)
	isAdminFn   func(ctx context.Context, callerEmail, email string) (bool, error)
	makeAdminFn func(ctx context.Context, id string) (*model.UpdateResult, error)
	listFn      func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, in user.RegisterInput) (*model.InsertResult, bool, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: "new-id"}, false, nil
}
func (m *mockUserService) IsAdmin(ctx context.Context, callerEmail, email string) (bool, error) {
	if m.isAdminFn != nil {
		return m.isAdminFn(ctx, callerEmail, email)
	}
	return false, nil
}
func (m *mockUserService) MakeAdmin(ctx context.Context, id string) (*model.UpdateResult, error) {
	if m.makeAdminFn != nil {
		return m.makeAdminFn(ctx, id)
	}
	return &model.UpdateResult{Acknowledged: true}, nil
}
func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.User{}, nil
}

// mockCartService はCartServiceInterfaceのモック実装。
type mockCartService struct {
	listFn   func(ctx context.Context, callerEmail, email string) ([]*model.CartItem, error)
	addFn    func(ctx context.Context, callerEmail string, in cart.AddInput) (*model.InsertResult, error)
	removeFn func(ctx context.Context, callerEmail, id string) (*model.DeleteResult, error)
}

func (m *mockCartService) List(ctx context.Context, callerEmail, email string) ([]*model.CartItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, callerEmail, email)
	}
	return []*model.CartItem{}, nil
}
func (m *mockCartService) Add(ctx context.Context, callerEmail string, in cart.AddInput) (*model.InsertResult, error) {
	if m.addFn != nil {
		return m.addFn(ctx, callerEmail, in)
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: "cart-id"}, nil
}
func (m *mockCartService) Remove(ctx context.Context, callerEmail, id string) (*model.DeleteResult, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, callerEmail, id)
	}
	return &model.DeleteResult{Acknowledged: true}, nil
}

// mockMenuLister はMenuListerのモック実装。
type mockMenuLister struct {
	findAllFn func(ctx context.Context) ([]*model.MenuItem, error)
}

func (m *mockMenuLister) FindAll(ctx context.Context) ([]*model.MenuItem, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return []*model.MenuItem{}, nil
}

// mockReviewLister はReviewListerのモック実装。
type mockReviewLister struct {
	findAllFn func(ctx context.Context) ([]*model.Review, error)
}

func (m *mockReviewLister) FindAll(ctx context.Context) ([]*model.Review, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return []*model.Review{}, nil
}
