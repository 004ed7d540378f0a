package api

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the browser form to call the API cross-origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// securityHeaders sets baseline response headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// readImage pulls the uploaded ID card from a multipart "image" field or a
// JSON body with a base64 "data" field. It writes the error response itself
// and reports success via ok.
func readImage(c *gin.Context) (image []byte, mimeType string, ok bool) {
	contentType := c.ContentType()

	if strings.Contains(contentType, "multipart/form-data") {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image field required"})
			return nil, "", false
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
			return nil, "", false
		}
		return data, header.Header.Get("Content-Type"), true
	}

	var body struct {
		Data     string `json:"data" binding:"required"`
		MimeType string `json:"mime_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide multipart image or {\"data\": \"<base64>\"}"})
		return nil, "", false
	}
	// Accept data URLs by stripping the prefix.
	raw := body.Data
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		if body.MimeType == "" {
			meta := raw[5:i]
			body.MimeType = strings.TrimSuffix(meta, ";base64")
		}
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 image data"})
		return nil, "", false
	}
	return data, body.MimeType, true
}

func parsePositive(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	}
	return v, nil
}
