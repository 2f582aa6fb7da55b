package model

import "github.com/golang-jwt/jwt/v5"

type UserClaim struct {
	jwt.RegisteredClaims
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	SID      string `json:"sid"`
}

func (c UserClaim) IsAdmin() bool { return c.Role == Admin }
