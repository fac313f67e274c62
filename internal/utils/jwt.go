package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const tokenIssuer = "surf-forecast"

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a validated token says about its bearer.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

type JWTService interface {
	GenerateToken(userID string) (*string, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtService struct {
	secretKey           string
	accessTokenDuration time.Duration
	clock               clockwork.Clock
}

func NewJWTService(secretKey string, accessTokenDuration time.Duration, clock clockwork.Clock) JWTService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &jwtService{
		secretKey:           secretKey,
		accessTokenDuration: accessTokenDuration,
		clock:               clock,
	}
}

func (s *jwtService) GenerateToken(userID string) (*string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"iss": tokenIssuer,
		"exp": now.Add(s.accessTokenDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiration", ErrInvalidToken)
	}

	return &Claims{UserID: userID, ExpiresAt: expiresAt.Time}, nil
}
