package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/errs"
)

func TestPageRequestNormalize(t *testing.T) {
	var req PageRequest
	req.Normalize()
	assert.Equal(t, DefaultPage, req.Page)
	assert.Equal(t, DefaultLimit, req.Limit)
	assert.Equal(t, DefaultSortKey, req.SortBy)
	assert.Equal(t, SortAsc, req.SortDir)

	// Caller-provided values stay untouched.
	req = PageRequest{Page: 3, Limit: 50, SortBy: "views", SortDir: SortDesc}
	req.Normalize()
	assert.Equal(t, PageRequest{Page: 3, Limit: 50, SortBy: "views", SortDir: SortDesc}, req)
}

func TestPageRequestValidate(t *testing.T) {
	valid := PageRequest{Page: 1, Limit: 10, SortBy: "created_at", SortDir: SortAsc}
	require.NoError(t, valid.Validate("created_at", "views"))

	tests := []struct {
		name string
		req  PageRequest
	}{
		{"zero page", PageRequest{Page: 0, Limit: 10, SortBy: "created_at", SortDir: SortAsc}},
		{"negative page", PageRequest{Page: -1, Limit: 10, SortBy: "created_at", SortDir: SortAsc}},
		{"zero limit", PageRequest{Page: 1, Limit: 0, SortBy: "created_at", SortDir: SortAsc}},
		{"limit above max", PageRequest{Page: 1, Limit: MaxLimit + 1, SortBy: "created_at", SortDir: SortAsc}},
		{"bad direction", PageRequest{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "sideways"}},
		{"unknown sort key", PageRequest{Page: 1, Limit: 10, SortBy: "password_hash", SortDir: SortAsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate("created_at", "views")
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 2, Limit: 10}
	page := NewPage([]int{1, 2, 3}, req, 25)
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 25, page.TotalItems)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)

	last := NewPage([]int{1}, PageRequest{Page: 3, Limit: 10}, 25)
	assert.False(t, last.HasNextPage)

	empty := NewPage[int](nil, PageRequest{Page: 1, Limit: 10}, 0)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}
