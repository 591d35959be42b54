package auth

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"jaspire-api/internal/logger"
)

// Firebase ID tokens are signed by Google's securetoken service account; its
// JWKS is published at a fixed URL.
const firebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwks/securetoken@system.gserviceaccount.com"

// Context keys set by the middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
	ContextName   = "userName"
)

var (
	jwksOnce sync.Once
	jwks     *keyfunc.JWKS
	jwksErr  error
)

func firebaseKeyfunc() (*keyfunc.JWKS, error) {
	jwksOnce.Do(func() {
		jwks, jwksErr = keyfunc.Get(firebaseJWKSURL, keyfunc.Options{
			RefreshInterval:  time.Hour,
			RefreshRateLimit: 5 * time.Minute,
			RefreshErrorHandler: func(err error) {
				logger.Warn("Failed to refresh Firebase JWKS", zap.Error(err))
			},
		})
	})
	return jwks, jwksErr
}

// sessionClaims is the subset of Firebase ID-token claims we consume.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// EnsureValidSession verifies the Firebase ID token in the Authorization
// header and stores the user's identity on the request context.
//
// When firebaseProjectID is empty the service runs in demo mode: the
// X-Demo-User header is trusted as the user id. This mirrors the provider
// policy of degrading to mocks instead of crashing when configuration is
// absent.
func EnsureValidSession(firebaseProjectID string) gin.HandlerFunc {
	if firebaseProjectID == "" {
		logger.Warn("FIREBASE_PROJECT_ID not set, running auth in demo mode")
		return demoSession()
	}

	issuer := "https://securetoken.google.com/" + firebaseProjectID

	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		kf, err := firebaseKeyfunc()
		if err != nil {
			logger.Error("Unable to load Firebase JWKS", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, kf.Keyfunc,
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(firebaseProjectID),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !parsed.Valid || claims.Subject == "" {
			logger.Debug("Session token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Next()
	}
}

func demoSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-Demo-User")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "demo mode requires an X-Demo-User header"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, c.GetHeader("X-Demo-Email"))
		c.Set(ContextName, c.GetHeader("X-Demo-Name"))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("malformed Authorization header")
	}

	return parts[1], nil
}
