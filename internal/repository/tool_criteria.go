package repository

import (
	"encoding/json"

	sq "github.com/Masterminds/squirrel"

	"clarifyall/internal/model"
)

// DefaultPageSize is used when a criteria carries no usable page size.
const DefaultPageSize = 12

// StatusFilter distinguishes "match one status" from "match every status".
// The admin all-tools view passes StatusAny explicitly; an absent filter is
// never treated as "all".
type StatusFilter struct {
	any    bool
	status model.ToolStatus
}

// StatusAny matches tools in every moderation state.
func StatusAny() StatusFilter {
	return StatusFilter{any: true}
}

// StatusExact matches tools in exactly one moderation state.
func StatusExact(s model.ToolStatus) StatusFilter {
	return StatusFilter{status: s}
}

// IsAny reports whether the filter matches every status.
func (f StatusFilter) IsAny() bool { return f.any }

// Status returns the single status an exact filter matches.
func (f StatusFilter) Status() model.ToolStatus { return f.status }

// SortBy orders a tool listing.
type SortBy string

const (
	SortRecent   SortBy = "RECENT"
	SortPopular  SortBy = "POPULAR"
	SortRating   SortBy = "RATING"
	SortNameAsc  SortBy = "NAME_ASC"
	SortNameDesc SortBy = "NAME_DESC"
)

// ParseSortBy maps a request value onto a sort order, falling back to
// SortRecent for anything unrecognized.
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortPopular, SortRating, SortNameAsc, SortNameDesc:
		return SortBy(s)
	default:
		return SortRecent
	}
}

// ListCriteria is the full filter/sort/paginate input for a tool listing.
// Filters are conjunctive across fields; Platforms and FeatureTags match
// disjunctively within their list.
type ListCriteria struct {
	Page         int
	Size         int
	Status       StatusFilter
	PricingModel model.PricingModel
	CategoryID   uint
	SearchTerm   string
	Platforms    []string
	FeatureTags  []string
	SortBy       SortBy
}

// DefaultListCriteria is the public-browsing baseline: first page, default
// size, APPROVED only, newest first.
func DefaultListCriteria() ListCriteria {
	return ListCriteria{
		Size:   DefaultPageSize,
		Status: StatusExact(model.StatusApproved),
		SortBy: SortRecent,
	}
}

// Normalized clamps the pagination fields so offset math and totalPages
// never misbehave on zero or negative input.
func (c ListCriteria) Normalized() ListCriteria {
	if c.Size <= 0 {
		c.Size = DefaultPageSize
	}
	if c.Page < 0 {
		c.Page = 0
	}
	c.SortBy = ParseSortBy(string(c.SortBy))
	return c
}

// predicates renders the criteria into a single conjunction. The page and
// count queries are both built from this one method so their qualifying
// sets can never drift apart.
func (c ListCriteria) predicates() sq.And {
	conds := sq.And{}

	if !c.Status.IsAny() {
		conds = append(conds, sq.Eq{"t.status": c.Status.Status()})
	}
	if c.PricingModel != "" {
		conds = append(conds, sq.Eq{"t.pricing_model": c.PricingModel})
	}
	if c.CategoryID != 0 {
		conds = append(conds, sq.Eq{"tc.category_id": c.CategoryID})
	}
	if c.SearchTerm != "" {
		pattern := "%" + c.SearchTerm + "%"
		conds = append(conds, sq.Or{
			sq.Like{"t.name": pattern},
			sq.Like{"t.short_description": pattern},
		})
	}
	if cond := jsonContainsAny("t.platforms", c.Platforms); cond != nil {
		conds = append(conds, cond)
	}
	if cond := jsonContainsAny("t.feature_tags", c.FeatureTags); cond != nil {
		conds = append(conds, cond)
	}

	return conds
}

// jsonContainsAny matches rows whose JSON list column contains at least one
// of the given values. Values are bound as JSON-encoded parameters, never
// interpolated.
func jsonContainsAny(column string, values []string) sq.Sqlizer {
	if len(values) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(values))
	for _, v := range values {
		encoded, err := json.Marshal(v)
		if err != nil {
			continue
		}
		or = append(or, sq.Expr("JSON_CONTAINS("+column+", ?)", string(encoded)))
	}
	if len(or) == 0 {
		return nil
	}
	return or
}

// orderBy maps the sort order onto ORDER BY expressions.
func (c ListCriteria) orderBy() []string {
	switch c.SortBy {
	case SortPopular:
		return []string{"t.view_count DESC"}
	case SortRating:
		return []string{"t.rating DESC", "t.review_count DESC"}
	case SortNameAsc:
		return []string{"t.name ASC"}
	case SortNameDesc:
		return []string{"t.name DESC"}
	default:
		return []string{"t.created_at DESC"}
	}
}

// pageQuery builds the paginated SELECT for matching tools. The join on
// tool_categories is kept in lockstep with countQuery.
func (c ListCriteria) pageQuery() (string, []interface{}, error) {
	n := c.Normalized()
	return sq.Select("t.*").
		From("tools t").
		LeftJoin("tool_categories tc ON tc.tool_id = t.id").
		Where(n.predicates()).
		GroupBy("t.id").
		OrderBy(n.orderBy()...).
		Limit(uint64(n.Size)).
		Offset(uint64(n.Page * n.Size)).
		ToSql()
}

// countQuery builds the COUNT mirroring pageQuery's predicates without
// sort, limit, or offset.
func (c ListCriteria) countQuery() (string, []interface{}, error) {
	n := c.Normalized()
	return sq.Select("COUNT(DISTINCT t.id)").
		From("tools t").
		LeftJoin("tool_categories tc ON tc.tool_id = t.id").
		Where(n.predicates()).
		ToSql()
}
