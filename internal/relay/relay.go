// Package relay forwards committed attendance records to the configured
// spreadsheet webhook. Delivery is best-effort: responses are discarded and
// failures never touch the already-persisted record.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"attensync/internal/queue"
	"attensync/internal/record"
)

// Payload is the wire shape the webhook expects.
type Payload struct {
	StudentID  string `json:"studentId"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        string `json:"age"`
	DOB        string `json:"dob"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

// PayloadFrom derives the webhook payload from a committed record.
func PayloadFrom(rec record.Record) Payload {
	return Payload{
		StudentID:  rec.ID,
		Name:       rec.Name,
		Gender:     rec.Gender,
		Age:        rec.Age,
		DOB:        rec.DOB,
		Department: rec.Department,
		Email:      rec.Email,
		Status:     rec.AttendanceStatus,
	}
}

// URLProvider resolves the webhook URL at send time so admin overrides take
// effect without a restart.
type URLProvider func(ctx context.Context) string

// Client delivers payloads over HTTP.
type Client struct {
	url  URLProvider
	http *http.Client
}

// NewClient creates a client; url may resolve to "" to disable delivery.
func NewClient(url URLProvider) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends the record's payload to the configured URL. An unset URL is a
// silent skip.
func (c *Client) Notify(ctx context.Context, rec record.Record) error {
	url := c.url(ctx)
	if url == "" {
		return nil
	}
	return c.Deliver(ctx, url, PayloadFrom(rec))
}

// Deliver posts one payload. The body is JSON but the content type is
// text/plain so the receiving script endpoint sees no CORS preflight; the
// response body is unreadable by design and discarded.
func (c *Client) Deliver(ctx context.Context, url string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode relay payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Publisher queues payloads for the relay worker instead of delivering
// inline.
type Publisher struct {
	queue queue.Queue
}

// NewPublisher wraps a queue backend.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{queue: q}
}

// Notify enqueues the record's payload.
func (p *Publisher) Notify(ctx context.Context, rec record.Record) error {
	body, err := json.Marshal(PayloadFrom(rec))
	if err != nil {
		return fmt.Errorf("encode relay payload: %w", err)
	}
	return p.queue.Publish(ctx, queue.Message{Type: "relay", Body: body})
}
