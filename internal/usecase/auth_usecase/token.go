package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    int64
	Role      model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 bearer tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	clock  usecase.Clock
}

func NewJWTService(secret string, ttl time.Duration, clock usecase.Clock) *JWTService {
	if clock == nil {
		clock = usecase.SystemClock{}
	}
	return &JWTService{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (s *JWTService) Issue(userID int64, role model.Role) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.ttl)

	claims := accessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate returns claims only for a token whose signature and expiry both check out.
func (s *JWTService) Validate(raw string) (Claims, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, ErrTokenBadSignature
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return Claims{}, ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrTokenMalformed)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	out := Claims{UserID: userID, Role: role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
