package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	r := Range{Begin: 4, Length: 5}
	assert.Equal(t, 9, r.End())

	src := []byte("abc defgh ij")
	assert.Equal(t, []byte("defgh"), r.Text(src))
}

func TestRange_Contains(t *testing.T) {
	// Half-open: Begin is inside, End is not.
	r := Range{Begin: 2, Length: 3}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
}

func TestRange_Empty(t *testing.T) {
	r := Range{Begin: 7}
	assert.Equal(t, 7, r.End())
	assert.False(t, r.Contains(7))
	assert.Empty(t, r.Text([]byte("0123456789")))
}
