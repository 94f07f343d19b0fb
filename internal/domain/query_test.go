package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryFilter_Defaults(t *testing.T) {
	f, page, errs := ListQuery{}.Filter()
	assert.Empty(t, errs)
	assert.Equal(t, 1, page)
	assert.Equal(t, SortCreatedAt, f.SortBy)
	assert.True(t, f.Desc)
	assert.Zero(t, f.Limit)
	assert.Zero(t, f.Offset)
}

func TestListQueryFilter_Paging(t *testing.T) {
	f, page, errs := ListQuery{Page: 2, Limit: 2, Order: "ASC", Sort: "experience", Role: "Backend", Search: " go "}.Filter()
	assert.Empty(t, errs)
	assert.Equal(t, 2, page)
	assert.Equal(t, 2, f.Offset)
	assert.Equal(t, 2, f.Limit)
	assert.False(t, f.Desc)
	assert.Equal(t, SortExperience, f.SortBy)
	assert.Equal(t, RoleBackend, f.Role)
	assert.Equal(t, "go", f.Search)

	// sortBy 优先于别名 sort
	f, _, _ = ListQuery{SortBy: "name", Sort: "experience"}.Filter()
	assert.Equal(t, SortName, f.SortBy)
}

func TestListQueryFilter_Invalid(t *testing.T) {
	_, _, errs := ListQuery{Page: -1, Limit: -5, SortBy: "password", Role: "CEO"}.Filter()
	assert.Len(t, errs, 4)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(5, 0))
	assert.Equal(t, 1, TotalPages(0, 0))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 1, TotalPages(2, 2))
	assert.Equal(t, 0, TotalPages(0, 10))
}
