package service

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid employee token")

// EmployeeResolver resuelve el token presentado por el cliente al ID de
// empleado. La resolución ocurre una vez por request y el ID viaja por el
// contexto del request, nunca en estado global.
type EmployeeResolver interface {
	ResolveEmployee(token string) (string, error)
}

// JWTIdentityService valida tokens HMAC firmados por el servicio de identidad
// y extrae el claim employeeid.
type JWTIdentityService struct {
	secret []byte
}

type employeeClaims struct {
	EmployeeID string `json:"employeeid"`
	jwt.RegisteredClaims
}

func NewJWTIdentityService(secret string) *JWTIdentityService {
	return &JWTIdentityService{secret: []byte(secret)}
}

func (s *JWTIdentityService) ResolveEmployee(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	var claims employeeClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.EmployeeID) == "" {
		return "", ErrInvalidToken
	}
	return claims.EmployeeID, nil
}

var _ EmployeeResolver = (*JWTIdentityService)(nil)
