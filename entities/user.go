package entities

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Password  string `json:"-"` // bcrypt hash
	Role      string `json:"role"`
	CreatedAt time.Time
}
