package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, kimlik token'ının payload'ı.
// Token'ı dış auth katmanı imzalar; bu servis sadece doğrular.
type TokenClaims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
