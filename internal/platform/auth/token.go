package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed lifetime of every issued session token. Tokens are
// self-contained and cannot be revoked before expiry; there is no refresh
// mechanism, so expiry forces re-authentication.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed claims, or expiry. Callers must not distinguish
// between these cases in responses.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the self-contained claim set carried by a session token.
// The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// Issue signs a session token for the given identity. The returned time is
// the token's expiry (issuance + TokenTTL).
func (i *TokenIssuer) Issue(userID, tenantID uuid.UUID, role Role) (string, time.Time, error) {
	issuedAt := i.now().UTC()
	expiresAt := issuedAt.Add(TokenTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TenantID: tenantID.String(),
		Role:     string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a session token, returning the identity it
// carries. All failure modes collapse to ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role := Role(claims.Role)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, TenantID: tenantID, Role: role}, nil
}
