package models

import "time"

type UserRole string

const (
	UserRoleStoreOwner UserRole = "store_owner"
	UserRoleAdmin      UserRole = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"` // subject claim of the session token
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `gorm:"type:VARCHAR(20);default:'store_owner'" json:"role"`
	Stores    []Store   `gorm:"many2many:user_stores;" json:"stores"` // stores this owner may order for
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
