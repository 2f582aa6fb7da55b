package model

import (
	"time"

	"github.com/Heidric/shop-admin/internal/validation"
)

var Admin = "Admin"
var User = "User"

var PossibleRoles = []string{Admin, User}

type UserDB struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	Password  string    `db:"password_hash"`
	CreatedAt time.Time `db:"created_at"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *UserDB) Response() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type Session struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	AccessToken  string    `db:"access_token" json:"accessToken"`
	RefreshToken string    `db:"refresh_token" json:"refreshToken"`
	ExpiresAt    time.Time `db:"expires_at" json:"expiresAt"`
}

type UpdateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate keeps the password optional: an empty one leaves the hash as is.
func (dto *UpdateUserDTO) Validate(rules *validation.Engine) map[string]string {
	errs := map[string]string{}
	if msg := rules.Username(dto.Username); msg != "" {
		errs["username"] = msg
	}
	if msg := rules.Email(dto.Email); msg != "" {
		errs["email"] = msg
	}
	if dto.Password != "" {
		if msg := rules.Password(dto.Password); msg != "" {
			errs["password"] = msg
		}
	}
	if dto.Role != "" && !inStringSlice(dto.Role, PossibleRoles) {
		errs["role"] = ErrInvalidField
	}
	return errs
}

func inStringSlice(v string, xs []string) bool {
	for _, x := range xs {
		if v == x {
			return true
		}
	}
	return false
}
