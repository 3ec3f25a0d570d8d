package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/widgets/",
	"/content/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// Tracked reports whether a request path counts as a page visit.
func Tracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Middleware records page visits in the background. Requests with
// DNT: 1 are never recorded.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Tracked(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, userAgent := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.RecordVisit(ctx, ip, userAgent, path); err != nil {
				s.logger.Warn("error recording visitor", zap.Error(err))
			}
		}()

		c.Next()
	}
}
