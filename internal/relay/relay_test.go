package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attensync/internal/queue"
	"attensync/internal/record"
)

func committed() record.Record {
	return record.Record{
		ID: "S100", Name: "Jane Roe", Department: "BSIT", Gender: record.GenderFemale,
		Age: "19", DOB: "2005-01-01", Email: "jane@x.com",
		Timestamp: "2026-08-28T09:00:00Z", AttendanceStatus: record.StatusPresent,
	}
}

func TestClientPostsTextPlainJSON(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(func(context.Context) string { return srv.URL })
	require.NoError(t, client.Notify(context.Background(), committed()))

	assert.Equal(t, "text/plain", gotContentType)
	var p Payload
	require.NoError(t, json.Unmarshal(gotBody, &p))
	assert.Equal(t, Payload{
		StudentID: "S100", Name: "Jane Roe", Gender: record.GenderFemale,
		Age: "19", DOB: "2005-01-01", Department: "BSIT",
		Email: "jane@x.com", Status: record.StatusPresent,
	}, p)
}

func TestClientSkipsWhenURLUnset(t *testing.T) {
	client := NewClient(func(context.Context) string { return "" })
	assert.NoError(t, client.Notify(context.Background(), committed()))
}

func TestClientReportsNetworkFailure(t *testing.T) {
	client := NewClient(func(context.Context) string { return "http://127.0.0.1:1/relay" })
	assert.Error(t, client.Notify(context.Background(), committed()))
}

func TestPublisherEnqueuesPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemory(1)
	pub := NewPublisher(q)
	require.NoError(t, pub.Notify(ctx, committed()))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	select {
	case msg := <-msgs:
		assert.Equal(t, "relay", msg.Type)
		var p Payload
		require.NoError(t, json.Unmarshal(msg.Body, &p))
		assert.Equal(t, "S100", p.StudentID)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing enqueued")
	}
}
