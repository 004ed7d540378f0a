package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDepartment(t *testing.T) {
	assert.Equal(t, "BSIT", NormalizeDepartment("bsit"))
	assert.Equal(t, "BSIT", NormalizeDepartment("BS Information Technology (BSIT)"))
	assert.Equal(t, "BSHM", NormalizeDepartment(" bshm "))
	assert.Equal(t, "Fine Arts", NormalizeDepartment("Fine Arts"))
	assert.Empty(t, NormalizeDepartment(""))
}

func TestExtractSkipReturnsCannedDraft(t *testing.T) {
	c := New("", true)
	out, err := c.Extract(context.Background(), nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.NotEmpty(t, out.Name)
}

func TestExtractDecodesAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["image"])
		_ = json.NewEncoder(w).Encode(Extraction{ID: "S42", Name: "Jane Roe", Department: "bsit", Gender: "Female"})
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	out, err := c.Extract(context.Background(), []byte("fake image bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "S42", out.ID)
	assert.Equal(t, "BSIT", out.Department)
}

func TestExtractRejectsIncompleteResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Extraction{Department: "BSIT"})
	}))
	defer srv.Close()

	c := New(srv.URL, false)
	_, err := c.Extract(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}

func TestExtractRequiresImage(t *testing.T) {
	c := New("http://unused", false)
	_, err := c.Extract(context.Background(), nil, "")
	assert.Error(t, err)
}
