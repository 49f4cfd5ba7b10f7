package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
)

// ContextUserKey is the gin context key storing the authenticated identity.
const ContextUserKey = "currentUser"

type identityContextKey struct{}

var publicPaths = map[string]struct{}{
	"/api/users/login":        {},
	"/api/users/register":     {},
	"/api/users/verify-token": {},
	"/login":                  {},
	"/logout":                 {},
	"/create-order":           {},
	"/verify-payment":         {},
	"/api/create-order":       {},
	"/api/verify-payment":     {},
	"/favicon.ico":            {},
}

var (
	staticPrefixes = []string{"/static/", "/js/", "/css/", "/images/", "/api/public/", "/error"}
	staticSuffixes = []string{".png", ".jpg", ".css", ".js", ".ico"}
)

// IsPublicPath reports whether path is served without authentication.
func IsPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	if strings.Contains(path, "swagger") {
		return true
	}
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range staticSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// UserLookup resolves token subjects to stored users.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Validate(token, subject string) bool
	ExtractSubject(token string) (string, bool)
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity attached by Authenticate, if any.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey{}).(*models.Identity)
	return identity, ok && identity != nil
}

// CurrentIdentity returns the identity stored on the gin context.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok && identity != nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	return token, token != ""
}

// Authenticate attaches the caller identity when a valid bearer token is presented.
// It never rejects a request; enforcement belongs to Policy and RequireRoles.
func Authenticate(users UserLookup, tokens TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || IsPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		if token, ok := BearerToken(c.GetHeader("Authorization")); ok {
			if identity := resolveIdentity(c, users, tokens, token, logger); identity != nil {
				c.Set(ContextUserKey, identity)
				c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
			}
		}
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, users UserLookup, tokens TokenVerifier, token string, logger *zap.Logger) (identity *models.Identity) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("token resolution panicked", zap.Any("panic", r))
			identity = nil
		}
	}()

	if _, exists := CurrentIdentity(c); exists {
		return nil
	}
	subject, ok := tokens.ExtractSubject(token)
	if !ok || subject == "" {
		return nil
	}
	user, err := users.FindByEmail(c.Request.Context(), subject)
	if err != nil || user == nil {
		logger.Debug("token subject not resolved", zap.String("subject", subject), zap.Error(err))
		return nil
	}
	if !tokens.Validate(token, user.Email) {
		return nil
	}
	return &models.Identity{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}
