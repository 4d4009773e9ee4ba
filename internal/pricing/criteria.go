package pricing

import (
	"fmt"
	"math"
	"strings"

	"goldcatalog/internal/model"
)

// DisplayPopularityMax is the top of the popularity scale shown to users.
// Internally scores live on [0,1].
const DisplayPopularityMax = 5.0

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid filter input of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid filter: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// Err returns e as an error, or nil when nothing was added.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Criteria bounds on the internal scale: USD price, popularity on [0,1].
// A nil bound imposes no constraint.
type Criteria struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinPopularity *float64
	MaxPopularity *float64
}

// DisplayCriteria is what clients send: popularity on [0,5].
type DisplayCriteria struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinPopularity *float64
	MaxPopularity *float64
}

func (c DisplayCriteria) Validate() error {
	v := &ValidationError{}
	checkPrices(v, c.MinPrice, c.MaxPrice)
	checkPopularity(v, c.MinPopularity, c.MaxPopularity, DisplayPopularityMax)
	return v.Err()
}

// Normalize converts popularity bounds to the internal scale. Price bounds
// pass through unchanged.
func (c DisplayCriteria) Normalize() Criteria {
	return Criteria{
		MinPrice:      c.MinPrice,
		MaxPrice:      c.MaxPrice,
		MinPopularity: toInternal(c.MinPopularity),
		MaxPopularity: toInternal(c.MaxPopularity),
	}
}

func (c Criteria) Validate() error {
	v := &ValidationError{}
	checkPrices(v, c.MinPrice, c.MaxPrice)
	checkPopularity(v, c.MinPopularity, c.MaxPopularity, 1)
	return v.Err()
}

// Match reports whether p satisfies every present bound, inclusively.
func (c Criteria) Match(p model.PricedItem) bool {
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinPopularity != nil && p.PopularityScore < *c.MinPopularity {
		return false
	}
	if c.MaxPopularity != nil && p.PopularityScore > *c.MaxPopularity {
		return false
	}
	return true
}

func checkPrices(v *ValidationError, lo, hi *float64) {
	loOK := checkFinite(v, "minPrice", lo)
	hiOK := checkFinite(v, "maxPrice", hi)
	if loOK && *lo < 0 {
		v.Add("minPrice", "price cannot be negative")
	}
	if hiOK && *hi < 0 {
		v.Add("maxPrice", "price cannot be negative")
	}
	if loOK && hiOK && *lo > *hi {
		v.Add("minPrice", "min price cannot exceed max price")
	}
}

func checkPopularity(v *ValidationError, lo, hi *float64, upper float64) {
	loOK := checkFinite(v, "minPopularity", lo)
	hiOK := checkFinite(v, "maxPopularity", hi)
	if loOK && (*lo < 0 || *lo > upper) {
		v.Add("minPopularity", fmt.Sprintf("popularity must be between 0 and %g", upper))
	}
	if hiOK && (*hi < 0 || *hi > upper) {
		v.Add("maxPopularity", fmt.Sprintf("popularity must be between 0 and %g", upper))
	}
	if loOK && hiOK && *lo > *hi {
		v.Add("minPopularity", "min popularity cannot exceed max popularity")
	}
}

// checkFinite reports whether b is present and usable for comparison.
// NaN and infinities are rejected since every comparison with NaN is false.
func checkFinite(v *ValidationError, field string, b *float64) bool {
	if b == nil {
		return false
	}
	if math.IsNaN(*b) || math.IsInf(*b, 0) {
		v.Add(field, "must be a number")
		return false
	}
	return true
}

func toInternal(v *float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v / DisplayPopularityMax
	return &s
}
