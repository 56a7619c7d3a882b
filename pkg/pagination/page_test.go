package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	assert.Equal(t, &PageRequest{Page: 1, PageSize: 10}, NewPageRequest(0, 0))
	assert.Equal(t, &PageRequest{Page: 3, PageSize: 100}, NewPageRequest(3, 500))

	p := NewPageRequest(3, 20)
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())
}

func TestNewPageResult(t *testing.T) {
	r := NewPageResult([]int{1}, 21, NewPageRequest(2, 10))
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)

	r = NewPageResult([]int{}, 20, NewPageRequest(2, 10))
	assert.Equal(t, 2, r.TotalPages)
	assert.False(t, r.HasNext)

	r = NewPageResult([]int{}, 0, NewPageRequest(1, 10))
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
}
