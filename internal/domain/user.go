// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64     `json:"id" db:"id" gorm:"primaryKey"`
	Username     string    `json:"username" db:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" db:"email" gorm:"size:254;not null;uniqueIndex"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserDetails — пользователь глазами конкретного зрителя.
type UserDetails struct {
	User         User
	IsSubscribed bool
}

// Subscription — автор из подписок вместе с его последними рецептами.
type Subscription struct {
	Author       User
	Recipes      []Recipe
	RecipesCount int64
}

// RegisterInput — данные для регистрации нового пользователя.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

// LoginInput — учётные данные для получения токена.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordInput — смена пароля текущего пользователя.
type SetPasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
}
