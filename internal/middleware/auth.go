package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/GenkiNakashima/systemst/internal/config"
	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token claims.
const (
	TokenIssuer   = "deepdive-api"
	TokenAudience = "deepdive-client"
	TokenTTL      = 7 * 24 * time.Hour
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// IssueToken signs an HS256 access token for userID.
func IssueToken(secret string, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates tokenString and returns the subject user ID.
func ParseToken(secret, tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	return uuid.Parse(claims.Subject)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return unauthorized(c, "Authorization header required")
	}
	tokenString, ok := bearerToken(c)
	if !ok {
		return unauthorized(c, "Invalid authorization header format")
	}
	return authenticate(c, tokenString)
}

// WebSocketAuthRequired validates a token from the query string or the Authorization header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		var ok bool
		if tokenString, ok = bearerToken(c); !ok {
			return unauthorized(c, "Token required")
		}
	}
	return authenticate(c, tokenString)
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}
	userID, err := ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		return c.Next()
	}
	setUser(c, userID)
	return c.Next()
}

// UserID returns the authenticated caller, or uuid.Nil for anonymous requests.
func UserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals("userID").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func authenticate(c *fiber.Ctx, tokenString string) error {
	userID, err := ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		return unauthorized(c, "Invalid or expired token")
	}
	setUser(c, userID)
	return c.Next()
}

func setUser(c *fiber.Ctx, userID uuid.UUID) {
	c.Locals("userID", userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
}

func unauthorized(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(message))
}
