package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/occtelecom/backend/internal/domain/identity"
	"github.com/occtelecom/backend/internal/infrastructure/auth"
	"github.com/occtelecom/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	ClaimsKey     = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticate validates the bearer token and stores the claims in the
// request context. Revoked tokens are rejected when a blacklist is
// configured; blacklist lookup failures fail open so a Redis outage
// does not lock everyone out.
func Authenticate(jwtManager *auth.JWTManager, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				abortUnauthorized(c, "Token has expired")
			default:
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		if blacklist != nil && claims.ID != "" {
			blacklisted, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				if logger != nil {
					logger.Error("failed to check token blacklist",
						zap.String("jti", claims.ID),
						zap.Error(err),
					)
				}
			} else if blacklisted {
				abortUnauthorized(c, "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireStaff allows only agent and admin accounts through
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.Role.IsStaff() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only admin accounts through
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != identity.RoleAdmin {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireCustomer allows only portal accounts tied to a customer through
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != identity.RoleCustomer || claims.CustomerID == "" {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetCustomerID returns the customer the authenticated portal account
// belongs to, or uuid.Nil for staff tokens.
func GetCustomerID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil || claims.CustomerID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, requestID))
}

func abortForbidden(c *gin.Context) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions", requestID))
}
