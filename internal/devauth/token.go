// internal/devauth/token.go
package devauth

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"fittech-client/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Claims carried by dev-server access tokens.
type Claims struct {
	UserID int64        `json:"user_id"`
	Role   session.Role `json:"role"`
	Email  string       `json:"email"`
	Name   string       `json:"name"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HMAC access tokens. The dev server has no key
// distribution problem, so a shared secret does the job RSA does in
// production setups.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue creates a signed access token for the user.
func (i *Issuer) Issue(u *User) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("token issuer has empty secret")
	}

	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Role:   u.Role,
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify validates an access token and returns its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Issuer != i.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", i.issuer, claims.Issuer)
	}
	return claims, nil
}

type refreshEntry struct {
	userID    int64
	expiresAt time.Time
}

// RefreshStore holds opaque refresh tokens. Tokens are single-use: Redeem
// deletes the token it is given, so every refresh rotates the pair.
type RefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	ttl    time.Duration
}

func NewRefreshStore(ttl time.Duration) *RefreshStore {
	return &RefreshStore{
		tokens: make(map[string]refreshEntry),
		ttl:    ttl,
	}
}

// Mint creates a refresh token for the user.
func (s *RefreshStore) Mint(userID int64) string {
	token := ulid.Make().String()
	s.mu.Lock()
	s.tokens[token] = refreshEntry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token
}

// Redeem consumes a refresh token and returns the user it belongs to.
// A redeemed token is gone whether or not it was valid.
func (s *RefreshStore) Redeem(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return 0, false
	}
	delete(s.tokens, token)
	if time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.userID, true
}

// Valid reports whether the token exists and has not expired, without
// consuming it.
func (s *RefreshStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	return ok && time.Now().Before(entry.expiresAt)
}

// RevokeUser drops every refresh token minted for the user.
func (s *RefreshStore) RevokeUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, token)
		}
	}
}
