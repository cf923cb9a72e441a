// Package cart はカート操作のドメインロジックを提供する。
// カート項目は常に所有者のemailに紐付き、本人以外は参照も削除もできない。
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/security"
)

// AddInput はカート追加の入力。
type AddInput struct {
	MenuItemID string
	Email      string
	Name       string
	Image      string
	Price      float64
}

// Service はカートのサービス層。
type Service struct {
	cartRepo  repository.CartRepository
	sanitizer security.TextSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(cartRepo repository.CartRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		cartRepo:  cartRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// List はemailのカート項目を返す。
// emailが空の場合は空リスト、呼び出し元と異なる場合はforbidden accessを返す。
func (s *Service) List(ctx context.Context, callerEmail, email string) ([]*model.CartItem, error) {
	if email == "" {
		return []*model.CartItem{}, nil
	}
	if email != callerEmail {
		return nil, model.NewForbiddenAccessError()
	}

	items, err := s.cartRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("カートの取得に失敗しました: %w", err)
	}
	return items, nil
}

// Add は呼び出し元のカートに項目を追加する。
// 入力のemailが空なら呼び出し元のemailを使う。
func (s *Service) Add(ctx context.Context, callerEmail string, in AddInput) (*model.InsertResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = callerEmail
	}
	if email != callerEmail {
		return nil, model.NewForbiddenAccessError()
	}

	if _, err := uuid.Parse(in.MenuItemID); err != nil {
		return nil, model.NewBadRequestError("invalid menuItemId")
	}
	if in.Price < 0 {
		return nil, model.NewBadRequestError("price must not be negative")
	}
	name := s.sanitizer.SanitizeText(in.Name)
	if name == "" {
		return nil, model.NewBadRequestError("name is required")
	}

	item := &model.CartItem{
		ID:         uuid.New().String(),
		MenuItemID: in.MenuItemID,
		Email:      email,
		Name:       name,
		Image:      s.sanitizer.SanitizeURL(in.Image),
		Price:      in.Price,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.cartRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return nil, model.NewBadRequestError("menu item not found")
		}
		return nil, fmt.Errorf("カートへの追加に失敗しました: %w", err)
	}

	return &model.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

// Remove は呼び出し元が所有するカート項目を削除する。
// 存在しない、または他人の項目の場合はdeletedCount=0を返す。
func (s *Service) Remove(ctx context.Context, callerEmail, id string) (*model.DeleteResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewBadRequestError("invalid cart item id")
	}

	deleted, err := s.cartRepo.DeleteByIDAndEmail(ctx, id, callerEmail)
	if err != nil {
		return nil, fmt.Errorf("カート項目の削除に失敗しました: %w", err)
	}

	return &model.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}
