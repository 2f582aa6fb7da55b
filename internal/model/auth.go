package model

import "github.com/Heidric/shop-admin/internal/validation"

type RegisterDTO struct {
	validation.RegistrationForm
}

type LoginDTO struct {
	validation.LoginForm
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (dto *RegisterDTO) Validate(rules *validation.Engine) map[string]string {
	return rules.RegistrationForm(dto.RegistrationForm)
}

func (dto *LoginDTO) Validate(rules *validation.Engine) map[string]string {
	return rules.LoginForm(dto.LoginForm)
}

func (dto *RefreshTokenDTO) Validate(_ *validation.Engine) map[string]string {
	err := make(map[string]string)
	if dto.RefreshToken == "" {
		err["refreshToken"] = ErrEmptyField
	}
	return err
}

type LoginResponse struct {
	TokenType    string        `json:"tokenType"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         *UserResponse `json:"user"`
}

type RefreshTokenResponse struct {
	TokenType    string `json:"tokenType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type JwtDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	SID      string `json:"sid"`
}
