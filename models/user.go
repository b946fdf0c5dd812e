package models

import (
	"time"
)

// Role IDs as seeded in the roles table.
const (
	RoleIDAuthor   = 1
	RoleIDReviewer = 2
	RoleIDEditor   = 3
	RoleIDAdmin    = 4
)

// Account statuses for users.
const (
	AccountStatusActive    = "active"
	AccountStatusInactive  = "inactive"
	AccountStatusSuspended = "suspended"
)

type User struct {
	UserID        uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Prefix        *string    `gorm:"column:prefix" json:"prefix,omitempty"`
	UserFname     string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname     string     `gorm:"column:user_lname" json:"user_lname"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	Password      string     `gorm:"column:password" json:"-"`
	RoleID        int        `gorm:"column:role_id" json:"role_id"`
	Affiliation   *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	OrcidID       *string    `gorm:"column:orcid_id" json:"orcid_id,omitempty"`
	AccountStatus string     `gorm:"column:account_status;default:active" json:"account_status"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins prefix and name parts for display and email templates.
func (u *User) FullName() string {
	name := u.UserFname + " " + u.UserLname
	if u.Prefix != nil && *u.Prefix != "" {
		return *u.Prefix + " " + name
	}
	return name
}

// IsEditor reports whether the user may perform editorial decisions.
func (u *User) IsEditor() bool {
	return u.RoleID == RoleIDEditor || u.RoleID == RoleIDAdmin
}

// IsAdmin reports whether the user has administrative access.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

// IsActive reports whether the account may act in any capacity.
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountStatusActive && u.DeleteAt == nil
}
