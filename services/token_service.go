// Package services, iş mantığı katmanıdır.
//
// Her service bir public interface + private implementasyon + constructor'dan oluşur.
// Bağımlılıklar (repository, ws.EventPublisher, saat) constructor'dan enjekte edilir.
package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
)

// TokenService, kimlik token'larını doğrular.
//
// Login/refresh akışı dış auth katmanındadır; bu servis aynı HMAC secret'ı
// paylaşarak yalnızca imza ve süre kontrolü yapar. Issue, operasyon araçları ve
// testler içindir.
type TokenService interface {
	ValidateToken(tokenString string) (*models.TokenClaims, error)
	Issue(username string, role models.Role, ttl time.Duration) (string, error)
}

type tokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService, constructor. now nil ise time.Now kullanılır.
func NewTokenService(secret string, now func() time.Time) TokenService {
	if now == nil {
		now = time.Now
	}
	return &tokenService{secret: []byte(secret), now: now}
}

func (s *tokenService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}
	if claims.Role == "" {
		claims.Role = models.RoleUser
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", pkg.ErrUnauthorized)
	}
	// "admin" handle'ı bildirim kayıtlarında yönetici havuzunu temsil eder;
	// normal bir kullanıcı bu adla kimlik taşıyamaz.
	if claims.Username == models.AdminHandle && claims.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: reserved username", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *tokenService) Issue(username string, role models.Role, ttl time.Duration) (string, error) {
	now := s.now()
	claims := models.TokenClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
