package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bistro/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByEmail はemailでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, photo_url, role, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PhotoURL, &user.Role, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// FindAll は全ユーザーを登録順に返す。
func (r *PostgresUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, photo_url, role, created_at FROM users ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PhotoURL, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Create はユーザーを作成する。emailが重複する場合はErrUserAlreadyExistsを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, photo_url, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PhotoURL, user.Role, user.CreatedAt,
	)
	if isPQError(err, pqUniqueViolation) {
		return ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateRole は指定IDのユーザーのroleを更新する。
// 既に同じroleの場合はmatched=1, modified=0となる。
func (r *PostgresUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) (int64, int64, error) {
	var matched, modified int64
	err := r.db.QueryRowContext(ctx,
		`WITH target AS (
			SELECT id, role FROM users WHERE id = $1
		), updated AS (
			UPDATE users u SET role = $2
			FROM target
			WHERE u.id = target.id AND target.role <> $2
			RETURNING u.id
		)
		SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)`,
		id, role,
	).Scan(&matched, &modified)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update user role: %w", err)
	}
	return matched, modified, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
