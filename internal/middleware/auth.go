package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

const (
	RoleProvider = "provider"
	RoleCustomer = "customer"
)

// Identity is who a bearer token speaks for.
type Identity struct {
	UserID uint
	Role   string
}

var (
	errMissingHeader = errors.New("missing_authorization_header")
	errBadHeader     = errors.New("invalid_authorization_header")
	errBadToken      = errors.New("invalid_token")
	errBadPayload    = errors.New("invalid_token_payload")
)

// AuthMiddleware accepts HS256 tokens whose sub is a positive user id and
// whose role is provider or customer.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		id, err := authenticate(c.GetHeader("Authorization"), secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error(), "Authentication required.")
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextUserRole, id.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			abort(c, http.StatusForbidden, "forbidden", "This area is for "+role+"s.")
			return
		}
		c.Next()
	}
}

func authenticate(header string, secret []byte) (Identity, error) {
	if header == "" {
		return Identity{}, errMissingHeader
	}

	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
		return Identity{}, errBadHeader
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, errBadToken
	}

	sub, ok := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	if !ok || sub <= 0 || (role != RoleProvider && role != RoleCustomer) {
		return Identity{}, errBadPayload
	}

	return Identity{UserID: uint(sub), Role: role}, nil
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error_code": code,
		"message":    message,
	})
}
