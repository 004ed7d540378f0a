// Package api exposes the check-in form operations and the admin dashboard
// over HTTP.
package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attensync/internal/auth"
	"attensync/internal/checkin"
	"attensync/internal/extract"
	"attensync/internal/geo"
	"attensync/internal/httpmiddleware"
	"attensync/internal/metrics"
	"attensync/internal/record"
	"attensync/internal/settings"
)

// Handler carries the wired application services behind the routes.
type Handler struct {
	Checkin   *checkin.Service
	Records   record.Store
	Settings  *settings.Settings
	Extractor *extract.Client
	Creds     auth.Credentials
	Metrics   *metrics.Metrics

	JWTIssuer  string
	JWTKey     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Healthy reports backend connectivity for /healthz; nil means healthy.
	Healthy func(c *gin.Context) bool
}

// Router builds the gin engine with the shared middleware stack.
func Router(h *Handler, rateLimitPerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(rateLimitPerMin, rateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.POST("/checkins", h.SubmitCheckin)
	v1.POST("/extract", h.ExtractDraft)
	v1.POST("/auth/login", h.Login)

	admin := v1.Group("/admin", auth.AdminAuth(h.JWTKey, h.JWTIssuer))
	admin.GET("/records", h.ListRecords)
	admin.DELETE("/records/:id", h.DeleteRecord)
	admin.GET("/stats", h.Stats)
	admin.GET("/export.csv", h.ExportCSV)
	admin.GET("/export.xlsx", h.ExportXLSX)
	admin.GET("/settings/relay", h.GetRelayURL)
	admin.PUT("/settings/relay", h.SetRelayURL)

	return r
}

// Healthz reports service and backend health.
func (h *Handler) Healthz(c *gin.Context) {
	if h.Healthy != nil && !h.Healthy(c) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type checkinRequest struct {
	checkin.Draft
	// Position carries the client-resolved coordinates; absence behaves like
	// an unavailable platform and yields Absent.
	Position *geo.Position `json:"position"`
}

// SubmitCheckin runs the submission workflow for a draft.
func (h *Handler) SubmitCheckin(c *gin.Context) {
	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var src checkin.PositionSource
	if req.Position != nil {
		src = checkin.StaticPosition(*req.Position)
	}

	res, err := h.Checkin.Submit(c.Request.Context(), req.Draft, src)
	if err != nil {
		var verr *checkin.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ExtractDraft accepts an ID card image (multipart "image" field or JSON
// base64 body) and returns the recognized partial draft. Failures are a
// notice for the client, which falls back to manual entry.
func (h *Handler) ExtractDraft(c *gin.Context) {
	image, mimeType, ok := readImage(c)
	if !ok {
		return
	}

	out, err := h.Extractor.Extract(c.Request.Context(), image, mimeType)
	if err != nil {
		log.Printf("extraction failed: %v", err)
		h.Metrics.IncExtractionFailure()
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not read the ID card, please fill the form manually"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Login checks the static admin credentials and issues a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Creds.Check(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tokens, err := auth.Issue(req.Username, auth.RoleAdmin, h.JWTIssuer, h.JWTKey, h.AccessTTL, h.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"user":          gin.H{"username": req.Username, "role": auth.RoleAdmin},
	})
}

// ListRecords returns the filtered admin table, newest first.
func (h *Handler) ListRecords(c *gin.Context) {
	recs, err := h.Records.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	f := record.Filter{
		Department: c.Query("department"),
		Gender:     c.Query("gender"),
		Status:     c.Query("status"),
		Query:      c.Query("q"),
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := parsePositive(v); err == nil {
			f.Limit = parsed
		}
	}
	filtered := f.Apply(recs)
	c.JSON(http.StatusOK, gin.H{"records": filtered, "total": len(filtered)})
}

// DeleteRecord removes the newest record with the given id; deleting an
// unknown id still succeeds.
func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.Records.Remove(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats returns the dashboard read-model.
func (h *Handler) Stats(c *gin.Context) {
	recs, err := h.Records.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record.ComputeStats(recs))
}

// ExportCSV streams the record table as a CSV attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	recs, err := h.Records.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+record.ExportFilename(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(record.ExportCSV(recs)))
}

// ExportXLSX streams the record table as a spreadsheet attachment.
func (h *Handler) ExportXLSX(c *gin.Context) {
	recs, err := h.Records.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	f, err := record.ExportXLSX(recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance_export.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("xlsx export write failed: %v", err)
	}
}

// GetRelayURL returns the effective webhook URL.
func (h *Handler) GetRelayURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": h.Settings.RelayURL(c.Request.Context())})
}

// SetRelayURL saves the webhook URL override. An empty value reverts to the
// configured default.
func (h *Handler) SetRelayURL(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.URL != "" && !strings.HasPrefix(req.URL, "http") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must start with http or https"})
		return
	}
	if err := h.Settings.SetRelayURL(c.Request.Context(), req.URL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.Settings.RelayURL(c.Request.Context())})
}
