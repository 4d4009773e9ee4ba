package pricing

import (
	"fmt"
	"sort"
	"strings"

	"goldcatalog/internal/model"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortPrice      SortKey = "price"
	SortPopularity SortKey = "popularity"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type SortSpec struct {
	Key   SortKey
	Order SortOrder
}

// ParseSort reads sortBy/sortOrder query values. Empty key means no sorting,
// empty order means ascending.
func ParseSort(key, order string) (SortSpec, error) {
	v := &ValidationError{}
	s := SortSpec{Order: Asc}

	switch SortKey(strings.ToLower(strings.TrimSpace(key))) {
	case SortNone, "none":
		s.Key = SortNone
	case SortPrice:
		s.Key = SortPrice
	case SortPopularity:
		s.Key = SortPopularity
	default:
		v.Add("sortBy", fmt.Sprintf("unknown sort key %q", key))
	}

	switch SortOrder(strings.ToLower(strings.TrimSpace(order))) {
	case "", Asc:
	case Desc:
		s.Order = Desc
	default:
		v.Add("sortOrder", fmt.Sprintf("unknown sort order %q", order))
	}

	return s, v.Err()
}

// Apply filters then sorts. The input slice is never modified.
func Apply(items []model.PricedItem, c Criteria, s SortSpec) []model.PricedItem {
	out := make([]model.PricedItem, 0, len(items))
	for _, p := range items {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	sortItems(out, s)
	return out
}

func sortItems(items []model.PricedItem, s SortSpec) {
	var key func(model.PricedItem) float64
	switch s.Key {
	case SortPrice:
		key = func(p model.PricedItem) float64 { return p.Price }
	case SortPopularity:
		key = func(p model.PricedItem) float64 { return p.PopularityScore }
	default:
		return
	}

	less := func(a, b model.PricedItem) bool { return key(a) < key(b) }
	if s.Order == Desc {
		asc := less
		less = func(a, b model.PricedItem) bool { return asc(b, a) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
