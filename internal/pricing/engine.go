package pricing

import "goldcatalog/internal/model"

// DerivePrice returns the USD price of an item at the given USD-per-gram rate.
// The popularity score is shifted from [0,1] to a [1,2] multiplier. No rounding.
func DerivePrice(item model.Item, rate float64) float64 {
	return (item.PopularityScore + 1) * item.Weight * rate
}

// PriceAll prices every item at one rate, keeping catalog order.
func PriceAll(items []model.Item, rate float64) []model.PricedItem {
	priced := make([]model.PricedItem, 0, len(items))
	for _, it := range items {
		priced = append(priced, model.PricedItem{
			Item:  it,
			Price: DerivePrice(it, rate),
		})
	}
	return priced
}
