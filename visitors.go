// visitors.go - privacy-conscious visitor tracking and the admin stats API
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/storage"
)

// visitRetention is how long visits are kept before pruning.
const visitRetention = 12 * 30 * 24 * time.Hour

type visitStore interface {
	RecordVisit(hashedIP, userAgent, path string, at time.Time) error
	VisitStats(now time.Time) (*storage.VisitStats, error)
	PruneVisits(before time.Time) (int64, error)
}

// generateSalt returns a random per-process salt for IP hashing, so hashes
// cannot be correlated across restarts.
func generateSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate salt: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP is stable for an IP within one process.
func (s *server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// visitorTrackingMiddleware records page views with hashed IPs. Admin and
// streaming paths are skipped, as are clients sending DNT: 1.
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/assets/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/api/theme/events" ||
			c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed := s.hashIP(c.ClientIP())
		userAgent := c.GetHeader("User-Agent")
		s.background(func() {
			if err := s.visits.RecordVisit(hashed, userAgent, path, time.Now()); err != nil {
				s.logger.Warn("error recording visitor", "error", err)
			}
		})
		c.Next()
	}
}

// background runs fn on its own goroutine, tracked by s.bg.
func (s *server) background(fn func()) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn()
	}()
}

func (s *server) pruneOldVisits(now time.Time) {
	n, err := s.visits.PruneVisits(now.Add(-visitRetention))
	if err != nil {
		s.logger.Warn("error cleaning up old visitor data", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("privacy cleanup removed old visitor records", "count", n)
	}
}

// adminAuthMiddleware accepts "Authorization: Bearer <token>".
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			s.logger.Warn("rejected admin request", "client", s.hashIP(c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// setupAdminRoutes registers /admin/api only when an admin token is set.
func (s *server) setupAdminRoutes(r *gin.Engine) {
	if s.adminToken == "" || s.visits == nil {
		return
	}

	admin := r.Group("/admin/api")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/stats", func(c *gin.Context) {
		stats, err := s.visits.VisitStats(time.Now())
		if err != nil {
			s.logger.Error("error loading admin stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		s.background(func() { s.pruneOldVisits(time.Now()) })
		c.JSON(http.StatusAccepted, gin.H{"message": "privacy cleanup initiated"})
	})
}
