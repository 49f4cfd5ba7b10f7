package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/models"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
	"github.com/noah-isme/edulearn-api/pkg/response"
)

var (
	errAuthenticationRequired = appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized access, authentication required")
	errInsufficientRole       = appErrors.Clone(appErrors.ErrForbidden, "Access denied, insufficient permissions")
)

// Requirement is what a policy rule demands from the caller.
type Requirement int

const (
	PermitAll Requirement = iota
	Authenticated
	RequireAdmin
	RequireStudent
)

// Rule maps a path matcher to a requirement.
type Rule struct {
	Match       func(path string) bool
	Requirement Requirement
}

// DefaultRules is the ordered access table; the first matching rule wins.
var DefaultRules = []Rule{
	{Match: isPermittedPath, Requirement: PermitAll},
	{Match: pathUnder("/api"), Requirement: Authenticated},
	{Match: pathUnder("/admin"), Requirement: RequireAdmin},
	{Match: pathUnder("/user"), Requirement: RequireStudent},
	{Match: func(string) bool { return true }, Requirement: Authenticated},
}

var permittedPrefixes = []string{"/static/", "/css/", "/js/", "/images/", "/api/public/", "/swagger/"}

// isPermittedPath is narrower than IsPublicPath: asset suffixes and paths that
// merely contain "swagger" skip token resolution but are still policed here.
func isPermittedPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	if path == "/error" {
		return true
	}
	for _, prefix := range permittedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func pathUnder(root string) func(string) bool {
	return func(path string) bool {
		return path == root || strings.HasPrefix(path, root+"/")
	}
}

// Resolve returns the requirement of the first rule matching path.
func Resolve(rules []Rule, path string) Requirement {
	for _, rule := range rules {
		if rule.Match(path) {
			return rule.Requirement
		}
	}
	return Authenticated
}

// Policy enforces rules against the identity attached by Authenticate.
func Policy(rules []Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		requirement := Resolve(rules, c.Request.URL.Path)
		if requirement == PermitAll {
			c.Next()
			return
		}
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Error(c, errAuthenticationRequired)
			c.Abort()
			return
		}
		switch requirement {
		case RequireAdmin:
			if !identity.HasRole(models.RoleAdmin) {
				response.Error(c, errInsufficientRole)
				c.Abort()
				return
			}
		case RequireStudent:
			if !identity.HasRole(models.RoleStudent) {
				response.Error(c, errInsufficientRole)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
