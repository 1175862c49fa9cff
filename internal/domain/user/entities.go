package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Email          string    `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	FullName       string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null" json:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsAdmin        bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
}

func (User) TableName() string { return "users" }
