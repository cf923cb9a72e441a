package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Register(ctx context.Context, in user.RegisterInput) (*model.InsertResult, bool, error)
	IsAdmin(ctx context.Context, callerEmail, email string) (bool, error)
	MakeAdmin(ctx context.Context, id string) (*model.UpdateResult, error)
	List(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerUserRequest はユーザー登録リクエストのボディ。
type registerUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// adminStatusResponse は管理者判定のレスポンス。
type adminStatusResponse struct {
	Admin bool `json:"admin"`
}

// ListUsers は全ユーザーを返す。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// RegisterUser はユーザーを登録する。登録済みの場合はメッセージのみ返す。
// POST /users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, existed, err := h.service.Register(r.Context(), user.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existed {
		writeJSON(w, http.StatusOK, messageResponse{Message: model.MessageUserAlreadyExist})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CheckAdmin は呼び出し元が管理者かを返す。
// GET /users/admin/{email}
func (h *UserHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	email, ok := pathParam(w, r, "email")
	if !ok {
		return
	}

	admin, err := h.service.IsAdmin(r.Context(), caller, email)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminStatusResponse{Admin: admin})
}

// MakeAdmin は指定ユーザーを管理者に昇格する。
// PATCH /users/admin/{id}
func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.MakeAdmin(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
