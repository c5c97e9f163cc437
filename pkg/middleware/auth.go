package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/configs"
)

const callerEmailKey = "caller_email"

// AuthMiddleware trusts the identity headers injected by the authenticating
// reverse proxy in front of the service (oauth2-proxy style):
//   - X-Auth-Request-Email, falling back to X-Forwarded-Email
//   - configured paths (e.g. /metrics, /health) are skipped
//   - in development a query user can stand in (configs auth.dev_allow_query)
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		email := strings.TrimSpace(c.GetHeader("X-Auth-Request-Email"))
		if email == "" {
			email = strings.TrimSpace(c.GetHeader("X-Forwarded-Email"))
		}

		if email == "" {
			if conf.DevAllowQuery && c.Query("user") != "" {
				c.Set(callerEmailKey, c.Query("user"))
				c.Next()

				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Set(callerEmailKey, email)
		c.Next()
	}
}

// CallerEmail returns the authenticated caller's email, empty when auth is
// disabled or the path was skipped.
func CallerEmail(c *gin.Context) string {
	return c.GetString(callerEmailKey)
}

// RequireAdmin rejects callers whose email is not in auth.admin_emails.
// With auth disabled, or with an empty admin list, every caller passes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf := configs.GetConfig().Auth
		if !conf.Enabled || len(conf.AdminEmails) == 0 {
			c.Next()
			return
		}

		email := strings.ToLower(CallerEmail(c))
		for _, admin := range conf.AdminEmails {
			if email == strings.ToLower(strings.TrimSpace(admin)) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
	}
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
