package model

import (
	"github.com/golang-jwt/jwt/v5"
)

const AdminRole = "admin"

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
