// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限種別を表す。
type Role string

const (
	// RoleUser は一般ユーザー。roleカラムが空の場合もこれとして扱う。
	RoleUser Role = ""
	// RoleAdmin は管理者（昇格済み）ユーザー。
	RoleAdmin Role = "admin"
)

// User はサービス利用ユーザーを表す。
// emailはユニークキーとして扱う。
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin はユーザーが管理者権限を持つかを返す。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
