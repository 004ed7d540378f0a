// Package extract calls the ID-card understanding service to pre-fill a
// check-in draft. The call is an optional convenience: failures surface as a
// notice and the visitor falls back to manual entry.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"attensync/internal/record"
)

// Extraction is the partial draft recovered from an ID card image.
type Extraction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// Client calls the extraction microservice.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. Skip short-circuits with canned data for dev setups
// without the service.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // image understanding can take time
		},
	}
}

// Extract sends the image and returns the recognized fields. The department
// is normalized against the known department codes.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	if c.Skip {
		return &Extraction{ID: "S000", Name: "Sample Student", Department: "BSIT", Gender: record.GenderOther}, nil
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("image data required")
	}

	body, _ := json.Marshal(map[string]string{
		"image":     base64.StdEncoding.EncodeToString(image),
		"mime_type": mimeType,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("extraction service error %s: %s", resp.Status, string(msg))
	}

	var out Extraction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	if out.ID == "" || out.Name == "" {
		return nil, fmt.Errorf("incomplete extraction result")
	}
	out.Department = NormalizeDepartment(out.Department)
	return &out, nil
}

// NormalizeDepartment maps free-form department text onto a known code when
// one contains it, otherwise returns the input unchanged.
func NormalizeDepartment(dept string) string {
	if dept == "" {
		return ""
	}
	needle := strings.ToUpper(strings.TrimSpace(dept))
	for _, known := range record.Departments {
		if strings.Contains(known, needle) || strings.Contains(needle, known) {
			return known
		}
	}
	return dept
}
