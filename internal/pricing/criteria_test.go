package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	out := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		out = append(out, fe.Field)
	}
	return out
}

func TestDisplayCriteriaValid(t *testing.T) {
	valid := []DisplayCriteria{
		{},
		{MinPrice: f(0)},
		{MinPrice: f(10), MaxPrice: f(10)},
		{MinPopularity: f(0), MaxPopularity: f(5)},
		{MinPopularity: f(2.5), MaxPopularity: f(2.5)},
		{MinPrice: f(1), MaxPrice: f(1000), MinPopularity: f(1), MaxPopularity: f(4)},
	}
	for _, c := range valid {
		assert.NoError(t, c.Validate(), "%+v", c)
	}
}

func TestMinPriceAboveMaxRejected(t *testing.T) {
	c := DisplayCriteria{MinPrice: f(50), MaxPrice: f(10)}
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"minPrice"}, fieldsOf(t, err))

	// The bounds are not swapped or clamped.
	assert.Equal(t, 50.0, *c.MinPrice)
	assert.Equal(t, 10.0, *c.MaxPrice)
}

func TestNegativePriceRejected(t *testing.T) {
	err := DisplayCriteria{MinPrice: f(-1)}.Validate()
	assert.Equal(t, []string{"minPrice"}, fieldsOf(t, err))

	err = DisplayCriteria{MaxPrice: f(-0.01)}.Validate()
	assert.Equal(t, []string{"maxPrice"}, fieldsOf(t, err))
}

func TestPopularityOutOfDisplayRangeRejected(t *testing.T) {
	err := DisplayCriteria{MinPopularity: f(-0.1)}.Validate()
	assert.Equal(t, []string{"minPopularity"}, fieldsOf(t, err))

	err = DisplayCriteria{MaxPopularity: f(5.01)}.Validate()
	assert.Equal(t, []string{"maxPopularity"}, fieldsOf(t, err))
}

func TestNonFiniteBoundsRejected(t *testing.T) {
	err := DisplayCriteria{MinPrice: f(math.NaN())}.Validate()
	assert.Equal(t, []string{"minPrice"}, fieldsOf(t, err))
	assert.Contains(t, err.Error(), "must be a number")

	err = DisplayCriteria{
		MaxPrice:      f(math.Inf(1)),
		MinPopularity: f(math.NaN()),
		MaxPopularity: f(math.Inf(-1)),
	}.Validate()
	assert.Equal(t, []string{"maxPrice", "minPopularity", "maxPopularity"}, fieldsOf(t, err))

	err = Criteria{MaxPopularity: f(math.NaN())}.Validate()
	assert.Equal(t, []string{"maxPopularity"}, fieldsOf(t, err))
}

func TestAllViolationsSurface(t *testing.T) {
	c := DisplayCriteria{
		MinPrice:      f(-5),
		MaxPrice:      f(-10),
		MinPopularity: f(6),
		MaxPopularity: f(1),
	}
	err := c.Validate()
	got := fieldsOf(t, err)
	assert.Equal(t, []string{"minPrice", "maxPrice", "minPrice", "minPopularity", "minPopularity"}, got)
	assert.Contains(t, err.Error(), "price cannot be negative")
	assert.Contains(t, err.Error(), "min popularity cannot exceed max popularity")
}

func TestInternalCriteriaValidate(t *testing.T) {
	assert.NoError(t, Criteria{MinPopularity: f(0.2), MaxPopularity: f(1)}.Validate())

	err := Criteria{MaxPopularity: f(2.5)}.Validate()
	assert.Equal(t, []string{"maxPopularity"}, fieldsOf(t, err))
}

func TestValidationErrorErr(t *testing.T) {
	var v *ValidationError
	assert.NoError(t, v.Err())
	assert.NoError(t, (&ValidationError{}).Err())

	v = &ValidationError{}
	v.Add("minPrice", "bad")
	assert.EqualError(t, v.Err(), "invalid filter: minPrice: bad")
}
