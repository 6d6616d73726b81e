package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultIssuer is written to the iss claim when no issuer is configured.
const DefaultIssuer = "taskkeeper"

// Claims is the JWT payload: the registered claims plus the session identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// TokenConfig configures a TokenService.
//
// Secret signs new tokens and is registered under KeyID. VerificationKeys
// holds retired kid -> secret pairs that are still accepted. A zero Validity
// issues tokens without an exp claim.
type TokenConfig struct {
	Secret           string
	KeyID            string
	VerificationKeys map[string]string
	Validity         time.Duration
	Leeway           time.Duration
	Issuer           string
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	activeKID string
	keys      map[string][]byte
	validity  time.Duration
	leeway    time.Duration
	issuer    string
	now       func() time.Time
}

// NewTokenService builds a TokenService. The signing secret must not be empty.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	keys := make(map[string][]byte, len(cfg.VerificationKeys)+1)
	for kid, secret := range cfg.VerificationKeys {
		if secret != "" {
			keys[kid] = []byte(secret)
		}
	}
	keys[cfg.KeyID] = []byte(cfg.Secret)

	return &TokenService{
		activeKID: cfg.KeyID,
		keys:      keys,
		validity:  cfg.Validity,
		leeway:    cfg.Leeway,
		issuer:    cfg.Issuer,
		now:       time.Now,
	}, nil
}

// Issue signs a token for c with the active key.
func (s *TokenService) Issue(c SessionClaims) (string, error) {
	if c.UserID <= 0 {
		return "", fmt.Errorf("cannot issue token for user id %d", c.UserID)
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  strconv.FormatInt(c.UserID, 10),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		UserID:   c.UserID,
		Username: c.Username,
	}
	if s.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.activeKID != "" {
		token.Header["kid"] = s.activeKID
	}

	signed, err := token.SignedString(s.keys[s.activeKID])
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer and time claims of
// tokenString and returns its identity. Every failure wraps
// common.ErrInvalidToken; expired tokens also match common.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (SessionClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return SessionClaims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return SessionClaims{}, common.ErrInvalidToken
	}

	return SessionClaims{UserID: claims.UserID, Username: claims.Username}, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	kid := s.activeKID
	if v, ok := t.Header["kid"]; ok {
		str, ok := v.(string)
		if !ok {
			return nil, errors.New("kid header is not a string")
		}
		kid = str
	}

	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}
