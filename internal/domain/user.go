package domain

import (
	"context"
	"io"
	"time"
)

type User struct {
	ID           string    `json:"_id" gorm:"type:uuid;primaryKey" bson:"_id"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	Fullname     string    `json:"fullname" gorm:"index;not null" bson:"fullname"`
	Avatar       string    `json:"avatar" gorm:"not null" bson:"avatar"`
	PasswordHash string    `json:"-" gorm:"column:password;not null" bson:"password"`
	RefreshToken string    `json:"-" gorm:"column:refresh_token" bson:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy without credential material.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	cp.RefreshToken = ""
	return &cp
}

// Upload is a file received from a client, ready to hand to an ImageStore.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type RegisterRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Fullname string `form:"fullname" json:"fullname" binding:"required,min=1,max=100"`
	Password string `form:"password" json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword" binding:"required"`
	NewPassword     string `form:"newPassword" json:"newPassword" binding:"required,min=6,max=72"`
}

// TokenPair is the result of a login or a refresh rotation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	User *User `json:"user"`
	TokenPair
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create fails with ErrConflict when the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetRefreshToken overwrites the stored token; an empty token clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	// SwapRefreshToken replaces current with next only if current is still
	// stored. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, id, current, next string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, avatar *Upload) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, userID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	GetUserByID(ctx context.Context, id string) (*User, error)
}
