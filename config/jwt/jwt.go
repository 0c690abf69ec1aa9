package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser   = "user"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the caller. Admin tokens carry IsAdmin and no ID since the admin is
// a configured credential pair rather than a stored account.
type Claims struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	ttl      time.Duration
	adminTTL time.Duration
	now      func() time.Time
}

func NewManager(secret string, ttl, adminTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, adminTTL: adminTTL, now: time.Now}
}

/*
* Sign a token for a stored account (patient or doctor)
 */
func (m *Manager) GenerateJWT(id, role string) (string, error) {
	if id == "" {
		return "", errors.New("token subject missing")
	}
	return m.sign(Claims{ID: id, Role: role}, m.ttl)
}

func (m *Manager) GenerateAdminJWT() (string, error) {
	return m.sign(Claims{Role: RoleAdmin, IsAdmin: true}, m.adminTTL)
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

/*
* Parse and verify signature and expiry
* Only HMAC signed tokens are accepted
 */
func (m *Manager) ParseJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
