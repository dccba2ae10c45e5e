package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace-api/internal/marketerrors"
	model "marketplace-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller attached to a request
type Principal struct {
	ID    uint
	Admin bool
}

// Owned is implemented by records that belong to a single user
type Owned interface {
	OwnerID() uint
}

// IsOwnerOrAdmin reports whether p may mutate rec.
func IsOwnerOrAdmin(p Principal, rec Owned) bool {
	return p.Admin || (p.ID != 0 && p.ID == rec.OwnerID())
}

// UserLookup resolves the user a token was issued for
type UserLookup interface {
	GetUser(ctx context.Context, userID uint) (model.User, error)
}

// Gate verifies bearer tokens and resolves them to principals
type Gate struct {
	secret []byte
	users  UserLookup
}

// NewGate creates a Gate that verifies HS256 tokens signed with secret
func NewGate(secret string, users UserLookup) *Gate {
	return &Gate{secret: []byte(secret), users: users}
}

// IssueToken signs a token for userID that expires after ttl
func IssueToken(secret string, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token for user %d: %w", userID, err)
	}
	return token, nil
}

// Authenticate resolves the value of an Authorization header to a principal.
// Every failure wraps marketerrors.ErrUnauthenticated.
func (g *Gate) Authenticate(ctx context.Context, header string) (Principal, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return Principal{}, fmt.Errorf("auth: missing bearer token: %w", marketerrors.ErrUnauthenticated)
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Principal{}, fmt.Errorf("auth: %v: %w", err, marketerrors.ErrUnauthenticated)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, fmt.Errorf("auth: token has no subject: %w", marketerrors.ErrUnauthenticated)
	}
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || userID == 0 {
		return Principal{}, fmt.Errorf("auth: invalid subject %q: %w", subject, marketerrors.ErrUnauthenticated)
	}

	user, err := g.users.GetUser(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, marketerrors.ErrUserNotFound) {
			return Principal{}, fmt.Errorf("auth: %v: %w", err, marketerrors.ErrUnauthenticated)
		}
		return Principal{}, fmt.Errorf("auth: load user %d: %w", userID, err)
	}

	return Principal{ID: user.ID, Admin: user.Admin}, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
