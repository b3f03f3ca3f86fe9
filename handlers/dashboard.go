package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platefront/platefront/backend/admin-console/internal/export"
	"github.com/platefront/platefront/backend/admin-console/internal/roster"
	"github.com/platefront/platefront/backend/admin-console/internal/sessions"
	"github.com/platefront/platefront/backend/admin-console/internal/storage"
	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
	"github.com/platefront/platefront/backend/admin-console/pkg/metrics"
	"github.com/platefront/platefront/backend/admin-console/pkg/middleware"
)

// DashboardHandler serves the live roster view: the dashboard page, its
// snapshot stream, the per-record delete action, and roster exports.
type DashboardHandler struct {
	feed        *roster.Feed
	repo        roster.Repository
	sessionsSvc *sessions.Service
	exports     *export.Store
	archive     *storage.MinIOStorage
}

func NewDashboardHandler(feed *roster.Feed, repo roster.Repository, s *sessions.Service, exports *export.Store, archive *storage.MinIOStorage) *DashboardHandler {
	return &DashboardHandler{feed: feed, repo: repo, sessionsSvc: s, exports: exports, archive: archive}
}

// Register mounts the dashboard routes behind the session guard.
func (h *DashboardHandler) Register(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	rg.GET("/dashboard", guard, h.Page)
	rg.GET("/dashboard/stream", guard, h.Stream)

	api := rg.Group("/api", guard)
	api.GET("/users", h.ListUsers)
	api.DELETE("/users/:id", h.DeleteUser)
	api.POST("/exports", h.CreateExport)
	api.GET("/exports", h.ListExports)
}

// Page renders the dashboard shell with the current snapshot; the
// browser then attaches to the stream for live updates.
func (h *DashboardHandler) Page(c *gin.Context) {
	sess := middleware.ActiveSession(c)
	email := ""
	if sess != nil {
		email = sess.Email
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Email":    email,
		"Snapshot": h.feed.Current(),
	})
}

// Stream pushes roster snapshots over SSE. The subscription lives
// exactly as long as the request: client disconnect or session
// revocation tears it down.
func (h *DashboardHandler) Stream(c *gin.Context) {
	sess := middleware.ActiveSession(c)

	snaps, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()
	revoked, stopWatch := h.sessionsSvc.WatchRevocations()
	defer stopWatch()

	metrics.StreamSubscribers.Inc()
	defer metrics.StreamSubscribers.Dec()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return false
			}
			metrics.SnapshotsDelivered.Inc()
			c.SSEvent("snapshot", snap)
			return true
		case refresh, ok := <-revoked:
			if !ok {
				return false
			}
			if sess != nil && refresh == sess.RefreshToken {
				c.SSEvent("signout", gin.H{"redirect": "/"})
				return false
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ListUsers returns the roster exactly as last delivered by the store.
func (h *DashboardHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Current())
}

// DeleteUser removes a record from the store. The caller must confirm
// explicitly; the roster itself only changes when the store's next
// snapshot arrives. Failures are surfaced, not swallowed.
func (h *DashboardHandler) DeleteUser(c *gin.Context) {
	if c.Query("confirm") != "true" {
		metrics.UserDeletes.WithLabelValues("unconfirmed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required", "hint": "retry with ?confirm=true"})
		return
	}
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			metrics.UserDeletes.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		metrics.UserDeletes.WithLabelValues("error").Inc()
		logger.Errorf("delete user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed", "details": err.Error()})
		return
	}
	metrics.UserDeletes.WithLabelValues("success").Inc()
	c.Status(http.StatusNoContent)
}

// CreateExport archives the current roster snapshot as CSV in object
// storage and returns a presigned download link.
func (h *DashboardHandler) CreateExport(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage not configured"})
		return
	}
	snap := h.feed.Current()
	data, err := export.CSV(snap.Users)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed", "details": err.Error()})
		return
	}
	now := time.Now().UTC()
	key := export.ObjectKey(now)
	if err := h.archive.Upload(c.Request.Context(), key, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		logger.Errorf("export upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export upload failed"})
		return
	}
	url, err := h.archive.PresignedURL(c.Request.Context(), key, 24*time.Hour)
	if err != nil {
		logger.Errorf("export presign: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export link failed"})
		return
	}

	rec := &export.Record{ExportID: key, ObjectKey: key, Count: snap.Total, CreatedAt: now}
	if sess := middleware.ActiveSession(c); sess != nil {
		rec.CreatedBy = sess.Email
	}
	if err := h.exports.Save(c.Request.Context(), rec); err != nil {
		logger.Warnf("export record not saved: %v", err)
	}
	metrics.RosterExports.Inc()
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url, "count": snap.Total})
}

// ListExports returns recent export records, newest first.
func (h *DashboardHandler) ListExports(c *gin.Context) {
	recs, err := h.exports.Recent(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing exports failed"})
		return
	}
	if recs == nil {
		recs = []export.Record{}
	}
	c.JSON(http.StatusOK, recs)
}
