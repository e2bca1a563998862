package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"clarifyall/internal/model"
)

func TestListCriteria_Normalized(t *testing.T) {
	tests := []struct {
		name         string
		criteria     ListCriteria
		expectedPage int
		expectedSize int
		expectedSort SortBy
	}{
		{
			name:         "zero size falls back to default",
			criteria:     ListCriteria{Page: 2, Size: 0},
			expectedPage: 2,
			expectedSize: DefaultPageSize,
			expectedSort: SortRecent,
		},
		{
			name:         "negative values are clamped",
			criteria:     ListCriteria{Page: -3, Size: -1},
			expectedPage: 0,
			expectedSize: DefaultPageSize,
			expectedSort: SortRecent,
		},
		{
			name:         "unknown sort falls back to recent",
			criteria:     ListCriteria{Page: 1, Size: 20, SortBy: "SHOE_SIZE"},
			expectedPage: 1,
			expectedSize: 20,
			expectedSort: SortRecent,
		},
		{
			name:         "valid values pass through",
			criteria:     ListCriteria{Page: 1, Size: 20, SortBy: SortRating},
			expectedPage: 1,
			expectedSize: 20,
			expectedSort: SortRating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.criteria.Normalized()
			assert.Equal(t, tt.expectedPage, n.Page)
			assert.Equal(t, tt.expectedSize, n.Size)
			assert.Equal(t, tt.expectedSort, n.SortBy)
		})
	}
}

func TestParseSortBy(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSortBy("POPULAR"))
	assert.Equal(t, SortNameDesc, ParseSortBy("NAME_DESC"))
	assert.Equal(t, SortRecent, ParseSortBy(""))
	assert.Equal(t, SortRecent, ParseSortBy("popular"))
}

func TestListCriteria_PageAndCountQueriesShareArgs(t *testing.T) {
	criteria := ListCriteria{
		Page:         1,
		Size:         12,
		Status:       StatusExact(model.StatusApproved),
		PricingModel: model.PricingFreemium,
		CategoryID:   4,
		SearchTerm:   "prompt",
		Platforms:    []string{"Web", "iOS"},
		FeatureTags:  []string{"API"},
		SortBy:       SortPopular,
	}

	pageSQL, pageArgs, err := criteria.pageQuery()
	assert.NoError(t, err)
	countSQL, countArgs, err := criteria.countQuery()
	assert.NoError(t, err)

	// Both queries are rendered from the same predicate set, so their bound
	// args are identical; the page query only adds sort and pagination.
	assert.Equal(t, countArgs, pageArgs)
	assert.Contains(t, pageSQL, "LIMIT 12 OFFSET 12")

	assert.Contains(t, countSQL, "COUNT(DISTINCT t.id)")
	assert.Contains(t, countSQL, "LEFT JOIN tool_categories tc ON tc.tool_id = t.id")
	assert.Contains(t, pageSQL, "LEFT JOIN tool_categories tc ON tc.tool_id = t.id")
	assert.Contains(t, pageSQL, "GROUP BY t.id")
	assert.Contains(t, pageSQL, "ORDER BY t.view_count DESC")
	assert.NotContains(t, countSQL, "ORDER BY")
	assert.NotContains(t, countSQL, "LIMIT")
}

func TestListCriteria_StatusFilter(t *testing.T) {
	t.Run("exact status is bound", func(t *testing.T) {
		sql, args, err := ListCriteria{Status: StatusExact(model.StatusPendingApproval)}.countQuery()
		assert.NoError(t, err)
		assert.Contains(t, sql, "t.status = ?")
		assert.Contains(t, args, model.StatusPendingApproval)
	})

	t.Run("any status emits no status predicate", func(t *testing.T) {
		sql, args, err := ListCriteria{Status: StatusAny()}.countQuery()
		assert.NoError(t, err)
		assert.NotContains(t, sql, "t.status")
		assert.Empty(t, args)
	})
}

func TestListCriteria_PlatformsMatchDisjunctively(t *testing.T) {
	sql, args, err := ListCriteria{
		Status:    StatusAny(),
		Platforms: []string{"Web", "Android"},
	}.countQuery()
	assert.NoError(t, err)

	assert.Equal(t, 2, strings.Count(sql, "JSON_CONTAINS(t.platforms, ?)"))
	assert.Contains(t, sql, " OR ")
	// Values are bound as JSON strings so MySQL compares them as JSON
	// scalars, not raw text.
	assert.Equal(t, []interface{}{`"Web"`, `"Android"`}, args)
}

func TestListCriteria_SearchMatchesNameOrShortDescription(t *testing.T) {
	sql, args, err := ListCriteria{Status: StatusAny(), SearchTerm: "video"}.countQuery()
	assert.NoError(t, err)

	assert.Contains(t, sql, "t.name LIKE ?")
	assert.Contains(t, sql, "t.short_description LIKE ?")
	assert.Equal(t, []interface{}{"%video%", "%video%"}, args)
}

func TestListCriteria_OrderBy(t *testing.T) {
	tests := []struct {
		sortBy   SortBy
		expected string
	}{
		{SortRecent, "ORDER BY t.created_at DESC"},
		{SortPopular, "ORDER BY t.view_count DESC"},
		{SortRating, "ORDER BY t.rating DESC, t.review_count DESC"},
		{SortNameAsc, "ORDER BY t.name ASC"},
		{SortNameDesc, "ORDER BY t.name DESC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			sql, _, err := ListCriteria{Status: StatusAny(), SortBy: tt.sortBy}.pageQuery()
			assert.NoError(t, err)
			assert.Contains(t, sql, tt.expected)
		})
	}
}

func TestListCriteria_Offset(t *testing.T) {
	sql, _, err := ListCriteria{Status: StatusAny(), Page: 3, Size: 10}.pageQuery()
	assert.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 30")
}
