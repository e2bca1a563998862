package model

import "time"

// User roles carried in the JWT role claim and checked server-side.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Externally-authenticated accounts have no
// password hash; password-dependent operations must branch on HasPassword.
type User struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     *string    `json:"-" gorm:"size:255"`
	Name             string     `json:"name" gorm:"size:255;not null"`
	Bio              *string    `json:"bio,omitempty" gorm:"size:1000"`
	Avatar           *string    `json:"avatar,omitempty" gorm:"size:512"`
	Provider         string     `json:"provider" gorm:"size:32;not null;default:'local'"`
	ProviderID       *string    `json:"-" gorm:"size:255"`
	Role             string     `json:"role" gorm:"size:16;not null;default:'user'"`
	IsVerified       bool       `json:"isVerified" gorm:"not null;default:true"`
	ResetToken       *string    `json:"-" gorm:"size:128;index"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// HasPassword reports whether the account uses local password auth.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
