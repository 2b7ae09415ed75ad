package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hospital-booking/pkg/jwt"
	"hospital-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleIDKey contextKey = "role_id"
)

// AuthMiddleware trusts tokens issued by the identity service. A token is
// live only while the identity service keeps its access_token key in Redis.
type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		tokenKey := AccessTokenKey(claims.UserID, claims.TokenID)
		exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
		if err != nil {
			m.log.Warnf("Failed to check token %s: %+v", claims.TokenID, err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessTokenKey is the Redis key under which the identity service lists a
// live access token.
func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}
