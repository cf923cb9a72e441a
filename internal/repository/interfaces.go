// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/bistro/internal/model"
)

// ErrUserAlreadyExists はemailが既に登録済みの場合に返される。
var ErrUserAlreadyExists = errors.New("user already exists")

// ErrMenuItemNotFound はカートに追加するメニュー項目が存在しない場合に返される。
var ErrMenuItemNotFound = errors.New("menu item not found")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail はemailでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindAll は全ユーザーを登録順に返す。
	FindAll(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。emailが重複する場合はErrUserAlreadyExistsを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateRole は指定IDのユーザーのroleを更新する。
	// 該当件数と実際に値が変わった件数を返す。
	UpdateRole(ctx context.Context, id string, role model.Role) (matched, modified int64, err error)
}

// MenuRepository はメニューの読み取りインターフェース。
type MenuRepository interface {
	// FindAll は全メニュー項目を登録順に返す。
	FindAll(ctx context.Context) ([]*model.MenuItem, error)
}

// ReviewRepository はレビューの読み取りインターフェース。
type ReviewRepository interface {
	// FindAll は全レビューを登録順に返す。
	FindAll(ctx context.Context) ([]*model.Review, error)
}

// CartRepository はカートデータの永続化インターフェース。
type CartRepository interface {
	// FindByEmail は指定ユーザーのカート項目を追加順に返す。
	FindByEmail(ctx context.Context, email string) ([]*model.CartItem, error)

	// Create はカート項目を作成する。
	// menu_item_idが存在しない場合はErrMenuItemNotFoundを返す。
	Create(ctx context.Context, item *model.CartItem) error

	// DeleteByIDAndEmail は所有者が一致するカート項目を削除し、削除件数を返す。
	DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error)
}
