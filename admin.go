// admin.go - privacy-conscious admin pages over the analytics store
package main

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/analytics"
	"github.com/Zachkp/folio/internal/config"
)

const (
	adminCookie     = "admin_token"
	adminCookieAge  = 24 * time.Hour
	visitorPageSize = 200
)

// adminAuth holds the per-process session token handed out on login.
type adminAuth struct {
	token    string
	username string
	password string
	store    *analytics.Store
	logger   *zap.Logger
}

func newAdminAuth(creds config.AdminConfig, store *analytics.Store, logger *zap.Logger) (*adminAuth, error) {
	token, err := analytics.RandomToken()
	if err != nil {
		return nil, err
	}

	logger = logger.Named("admin")
	logger.Info("admin access available at /admin/login")

	return &adminAuth{
		token:    token,
		username: creds.Username,
		password: creds.Password,
		store:    store,
		logger:   logger,
	}, nil
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// middleware redirects to the login page unless the session cookie matches.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	a := s.admin

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		client := a.store.HashIP(c.ClientIP())
		if !a.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("failed admin login attempt", zap.String("client", client))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, int(adminCookieAge.Seconds()), "/admin", "", c.Request.TLS != nil, true)
		a.logger.Info("admin login successful", zap.String("client", client))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", c.Request.TLS != nil, true)
		a.logger.Info("admin logout", zap.String("client", a.store.HashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.middleware())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"title": "Error",
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
			"cms":   s.client.Configured(),
		})
	})

	group.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), visitorPageSize)
		if err != nil {
			a.logger.Error("error loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"title": "Error",
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"title":    "Visitors",
			"visitors": visitors,
		})
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Statistics export for backups or analysis
	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("client", a.store.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	// Runs the retention cleanup immediately instead of waiting for the schedule.
	group.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := a.store.Cleanup(c.Request.Context(), analytics.DefaultRetention)
		if err != nil {
			a.logger.Error("error cleaning up visitor data", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})
}
