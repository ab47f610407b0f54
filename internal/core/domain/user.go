package domain

import "time"

// User is a cashier account.
type User struct {
	UserID       string    `json:"userID"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
