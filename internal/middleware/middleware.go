package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

const (
	// UserIDKey is the context key holding the authenticated user id (uint)
	UserIDKey = "userID"
	// ClientIDKey is the context key holding the client the token was issued to
	ClientIDKey = "clientID"
)

// errTokenExpired marks a token that was valid but is past its expiry
var errTokenExpired = errors.New(models.MsgTokenExpired)

// RequireAuth validates the Bearer JWT access token of the request and puts
// the user id in the context. An expired token is answered with 403 and the
// "jwt expired" message so clients know to refresh; anything else missing or
// wrong is a 401.
func RequireAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, models.MsgUnauthorized)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, models.MsgInvalidToken)
			return
		}

		claims, err := parseAccessToken(tokenString, jwtSecret)
		if err != nil {
			if errors.Is(err, errTokenExpired) {
				abortWithError(c, http.StatusForbidden, models.MsgTokenExpired)
				return
			}
			log.WithError(err).Debug("Rejected access token")
			abortWithError(c, http.StatusUnauthorized, models.MsgInvalidToken)
			return
		}

		userID, err := extractUserID(claims)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, models.MsgInvalidToken)
			return
		}
		c.Set(UserIDKey, userID)

		if aud, err := claims.GetAudience(); err == nil && len(aud) > 0 {
			c.Set(ClientIDKey, aud[0])
		}

		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth
func UserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.NewErrorResponse(message))
}

// parseAccessToken verifies signature and time claims of an HMAC signed token
func parseAccessToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims format")
	}
	return claims, nil
}

// extractUserID reads the "uid" claim, a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch uid := claims["uid"].(type) {
	case string:
		parsed, err := strconv.ParseUint(uid, 10, 32)
		if err != nil || parsed == 0 {
			return 0, fmt.Errorf("invalid uid claim: %q", uid)
		}
		return uint(parsed), nil
	case float64:
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: %f", uid)
		}
		return uint(uid), nil
	}
	return 0, fmt.Errorf("token missing required 'uid' claim")
}
