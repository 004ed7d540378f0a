package httpmiddleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketEnforcesCapacity(t *testing.T) {
	l := NewTokenBucket(3, 60)

	assert.True(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("1.2.3.4"))
	assert.False(t, l.allow("1.2.3.4"))

	// A different client has its own bucket.
	assert.True(t, l.allow("5.6.7.8"))
}

func TestTokenBucketDefaultsCapacityToRate(t *testing.T) {
	l := NewTokenBucket(0, 2)
	assert.True(t, l.allow("x"))
	assert.True(t, l.allow("x"))
	assert.False(t, l.allow("x"))
}
