package model

import "time"

// CartItem はユーザーのカートに入れられたメニュー項目を表す。
// Emailはカート所有者を示す。
type CartItem struct {
	ID         string    `json:"_id"`
	MenuItemID string    `json:"menuItemId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}
