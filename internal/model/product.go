package model

import (
	"encoding/json"
	"time"
)

// Images holds one image reference per gold finish.
type Images struct {
	Yellow string `json:"yellow"`
	White  string `json:"white"`
	Rose   string `json:"rose"`
}

// Item is a catalog entry. ID is assigned at load time by position.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PopularityScore float64 `json:"popularityScore"` // 0.0 to 1.0
	Weight          float64 `json:"weight"`          // grams
	Images          Images  `json:"images"`
}

type PricedItem struct {
	Item
	Price float64 `json:"price"`
}

// Quote is the price of one gram of 24k gold in USD at a point in time.
type Quote struct {
	PricePerGram float64
	Timestamp    time.Time
}

type quoteJSON struct {
	PricePerGram24k float64 `json:"pricePerGram24k"`
	Timestamp       int64   `json:"timestamp"`
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		PricePerGram24k: q.PricePerGram,
		Timestamp:       q.Timestamp.Unix(),
	})
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var v quoteJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	q.PricePerGram = v.PricePerGram24k
	q.Timestamp = time.Unix(v.Timestamp, 0).UTC()
	return nil
}
