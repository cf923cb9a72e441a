// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bistro/internal/model"
	"github.com/hitoshi/bistro/internal/repository"
	"github.com/hitoshi/bistro/internal/security"
)

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		userRepo:  userRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// Register はユーザーを登録する。
// 同じemailのユーザーが既に存在する場合は何も作成せず existed=true を返す。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.InsertResult, bool, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, false, model.NewBadRequestError("email is required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, true, nil
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      s.sanitizer.SanitizeText(in.Name),
		PhotoURL:  s.sanitizer.SanitizeURL(in.PhotoURL),
		Role:      model.RoleUser,
		CreatedAt: s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 同時登録で一意制約に当たった場合も既存扱いにする
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return &model.InsertResult{Acknowledged: true, InsertedID: user.ID}, false, nil
}

// IsAdmin は指定emailのユーザーが管理者かを返す。
// 呼び出し元以外のemailを問い合わせた場合はストアを参照せずfalseを返す。
func (s *Service) IsAdmin(ctx context.Context, callerEmail, email string) (bool, error) {
	if callerEmail != email {
		return false, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return user.IsAdmin(), nil
}

// MakeAdmin は指定IDのユーザーを管理者に昇格する。
func (s *Service) MakeAdmin(ctx context.Context, id string) (*model.UpdateResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewBadRequestError("invalid user id")
	}

	matched, modified, err := s.userRepo.UpdateRole(ctx, id, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("ユーザー権限の更新に失敗しました: %w", err)
	}

	if modified > 0 {
		slog.Info("user promoted to admin",
			slog.String("user_id", id),
		)
	}

	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  matched,
		ModifiedCount: modified,
	}, nil
}

// List は全ユーザーを返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}
